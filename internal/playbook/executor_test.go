package playbook

import (
	"testing"

	"github.com/courtside/franchise-sim/internal/badges"
	"github.com/courtside/franchise-sim/internal/coaching"
	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/testutil"
)

func executorPlay() *Play {
	return &Play{
		ID:       "test_pnp",
		Name:     "Test Pick and Pop",
		Category: coaching.PlayPickAndRoll,
		Tempo:    TempoHalfcourt,
		Roles: map[string][]players.Position{
			"handler": {players.PointGuard},
			"shooter": {players.ShootingGuard},
		},
		Nodes: []Node{
			{
				Action:   "pass",
				Duration: 2.0,
				Actor:    "handler",
				Target:   "shooter",
				Required: []AttrRef{{Category: players.CategoryOffense, Name: "passing"}},
				Edges: []Edge{
					{Probability: 0.9, Next: 1},
					{Probability: 0.1, Next: -1, Terminal: TerminalTurnover},
				},
			},
			{
				Action:       "shot",
				Duration:     1.5,
				Actor:        "shooter",
				ShotCategory: badges.ShotThreePoint,
				Required:     []AttrRef{{Category: players.CategoryOffense, Name: "threePoint"}},
				Edges: []Edge{
					{Probability: 0.5, Next: -1, Terminal: TerminalMadeShot},
					{Probability: 0.5, Next: -1, Terminal: TerminalMissedShot},
				},
			},
		},
	}
}

func execPlayer(id string, pos players.Position, overall int, offense map[string]int) *players.Player {
	return &players.Player{
		ID:            id,
		FirstName:     "Test",
		LastName:      id,
		Position:      pos,
		OverallRating: overall,
		Attributes: players.Attributes{
			Offense: offense,
			Defense: map[string]int{"steal": 70, "block": 70},
		},
	}
}

func execOffense() []*players.Player {
	return []*players.Player{
		execPlayer("p1", players.PointGuard, 80, map[string]int{"passing": 90}),
		execPlayer("p2", players.ShootingGuard, 78, map[string]int{"threePoint": 80, "freeThrow": 85}),
		execPlayer("p3", players.SmallForward, 72, nil),
		execPlayer("p4", players.PowerForward, 71, nil),
		execPlayer("p5", players.Center, 74, nil),
	}
}

func execDefense() []*players.Player {
	return []*players.Player{
		execPlayer("d1", players.PointGuard, 74, nil),
		execPlayer("d2", players.ShootingGuard, 73, nil),
		execPlayer("d3", players.SmallForward, 72, nil),
		execPlayer("d4", players.PowerForward, 71, nil),
		execPlayer("d5", players.Center, 75, nil),
	}
}

func mustRegistry(t *testing.T) *badges.Registry {
	t.Helper()
	reg, err := badges.Load()
	if err != nil {
		t.Fatalf("load badge registry: %v", err)
	}
	return reg
}

func TestExecuteMadeThreeWithAssist(t *testing.T) {
	exec := NewGraphExecutor(mustRegistry(t))
	req := Request{
		Play:    executorPlay(),
		Offense: execOffense(),
		Defense: execDefense(),
		Frames:  true,
	}
	// Draws: pass edge, block check, make check, foul check, assist check.
	src := &testutil.RNGScript{Floats: []float64{0.5, 0.9, 0.2, 0.9, 0.2}}

	out, err := exec.Execute(req, src)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.Terminal != TerminalMadeShot {
		t.Fatalf("expected made shot, got %s", out.Terminal)
	}
	if out.Points != 3 {
		t.Fatalf("three pointer should score 3, got %d", out.Points)
	}
	if out.ShooterID != "p2" {
		t.Fatalf("shooter should be the SG, got %s", out.ShooterID)
	}
	if out.AssistID != "p1" {
		t.Fatalf("assist should credit the passer, got %q", out.AssistID)
	}
	if out.Duration != 3.5 {
		t.Fatalf("duration should sum node durations, got %f", out.Duration)
	}
	if len(out.Frames) != 2 {
		t.Fatalf("expected 2 animation frames, got %d", len(out.Frames))
	}
	if out.Frames[0].Action != "pass" || out.Frames[1].Action != "shot" {
		t.Fatalf("unexpected frame actions: %+v", out.Frames)
	}
}

func TestExecuteTurnoverCreditsSteal(t *testing.T) {
	exec := NewGraphExecutor(mustRegistry(t))
	defense := execDefense()
	defense[0].Attributes.Defense["steal"] = 90

	req := Request{Play: executorPlay(), Offense: execOffense(), Defense: defense}
	// Pass edge weights: 0.9 continue, turnover 0.1 - passing skill 0.04 = 0.06.
	// A roll of 0.95*0.96 lands in the turnover band; 0.3 converts the steal.
	src := &testutil.RNGScript{Floats: []float64{0.95, 0.3}}

	out, err := exec.Execute(req, src)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.Terminal != TerminalTurnover {
		t.Fatalf("expected turnover, got %s", out.Terminal)
	}
	if out.TurnoverID != "p1" {
		t.Fatalf("turnover should charge the handler, got %s", out.TurnoverID)
	}
	if out.StealerID != "d1" {
		t.Fatalf("steal should credit the best thief, got %q", out.StealerID)
	}
	if out.Points != 0 {
		t.Fatalf("turnover should not score, got %d", out.Points)
	}
}

func TestExecuteBlockedShot(t *testing.T) {
	exec := NewGraphExecutor(mustRegistry(t))
	defense := execDefense()
	defense[4].Attributes.Defense["block"] = 99

	req := Request{
		Play:      executorPlay(),
		Offense:   execOffense(),
		Defense:   defense,
		Modifiers: coaching.DefensiveModifiers{BlockModifier: 0.1},
	}
	src := &testutil.RNGScript{Floats: []float64{0.5, 0.05}}

	out, err := exec.Execute(req, src)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.Terminal != TerminalMissedShot {
		t.Fatalf("blocked shot should miss, got %s", out.Terminal)
	}
	if out.BlockerID != "d5" {
		t.Fatalf("block should credit the rim protector, got %q", out.BlockerID)
	}
	if out.Points != 0 {
		t.Fatalf("blocked shot should not score, got %d", out.Points)
	}
}

func TestExecuteShootingFoulFreeThrows(t *testing.T) {
	exec := NewGraphExecutor(mustRegistry(t))
	req := Request{Play: executorPlay(), Offense: execOffense(), Defense: execDefense()}
	// Pass continues, no block, miss (0.9 >= makeProb), foul (0.01 < 0.02),
	// then three free throws at 0.85: make, make, miss.
	src := &testutil.RNGScript{
		Floats: []float64{0.5, 0.9, 0.9, 0.01, 0.5, 0.5, 0.9},
		Ints:   []int{2},
	}

	out, err := exec.Execute(req, src)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.Terminal != TerminalMissedShot {
		t.Fatalf("fouled jumper should record a miss terminal, got %s", out.Terminal)
	}
	if out.FreeThrowsAtt != 3 {
		t.Fatalf("foul on a three should award 3 attempts, got %d", out.FreeThrowsAtt)
	}
	if out.FreeThrowsMade != 2 || out.Points != 2 {
		t.Fatalf("expected 2 made free throws for 2 points, got %d made %d points",
			out.FreeThrowsMade, out.Points)
	}
	if out.FouledByID != "d3" {
		t.Fatalf("foul should charge a defender, got %q", out.FouledByID)
	}
}

func TestExecuteSynergyActivation(t *testing.T) {
	exec := NewGraphExecutor(mustRegistry(t))
	offense := execOffense()
	offense[0].Badges = []players.Badge{{ID: "dimer", Tier: players.TierGold}}
	offense[1].Badges = []players.Badge{{ID: "catch_and_shoot", Tier: players.TierGold}}

	req := Request{Play: executorPlay(), Offense: offense, Defense: execDefense()}
	src := &testutil.RNGScript{Floats: []float64{0.5, 0.9, 0.2, 0.9, 0.2}}

	out, err := exec.Execute(req, src)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(out.Activations) == 0 {
		t.Fatal("split synergy pair should activate on the shot")
	}
	found := false
	for _, a := range out.Activations {
		if a.HolderA == "p2" && a.HolderB == "p1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("activation should link shooter and passer, got %+v", out.Activations)
	}
}

func TestExecuteRoleCastingIsDistinct(t *testing.T) {
	play := executorPlay()
	cast := assignRoles(play, execOffense())
	if cast["handler"].ID == cast["shooter"].ID {
		t.Fatal("roles should cast distinct players when the lineup allows")
	}
	if cast["handler"].ID != "p1" || cast["shooter"].ID != "p2" {
		t.Fatalf("casting should honor position eligibility, got handler=%s shooter=%s",
			cast["handler"].ID, cast["shooter"].ID)
	}
}

func TestExecuteNoPlayErrors(t *testing.T) {
	exec := NewGraphExecutor(mustRegistry(t))
	if _, err := exec.Execute(Request{}, &testutil.RNGScript{}); err == nil {
		t.Fatal("missing play should error")
	}
	if _, err := exec.Execute(Request{Play: executorPlay()}, &testutil.RNGScript{}); err == nil {
		t.Fatal("empty offense should error")
	}
}
