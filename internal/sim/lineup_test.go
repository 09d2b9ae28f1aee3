package sim

import (
	"testing"

	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/domain/teams"
	"github.com/courtside/franchise-sim/internal/rotation"
	"github.com/courtside/franchise-sim/internal/testutil"
)

func TestBuildLineupExplicitWins(t *testing.T) {
	team := testutil.FixtureTeam("t", 10)
	explicit := []string{"t-p6", "t-p7", "t-p8", "t-p9", "t-p10"}
	lineup := buildLineup(team, explicit)
	for i, id := range lineup {
		if id != explicit[i] {
			t.Fatalf("valid explicit lineup should be honored, got %v", lineup)
		}
	}
}

func TestBuildLineupFallsBackOnBadExplicit(t *testing.T) {
	team := testutil.FixtureTeam("t", 10)
	team.LineupSettings.Starters = []string{"t-p1", "t-p2", "t-p3", "t-p4", "t-p5"}

	// Duplicate id invalidates the explicit lineup; saved starters apply.
	lineup := buildLineup(team, []string{"t-p6", "t-p6", "t-p8", "t-p9", "t-p10"})
	for i, id := range lineup {
		if id != team.LineupSettings.Starters[i] {
			t.Fatalf("bad explicit lineup should fall back to saved starters, got %v", lineup)
		}
	}
}

func TestBuildLineupAutoSelect(t *testing.T) {
	team := testutil.FixtureTeam("t", 10)
	lineup := buildLineup(team, nil)
	if len(lineup) != teams.LineupSlots {
		t.Fatalf("auto-select should fill five slots, got %v", lineup)
	}
	seen := map[string]struct{}{}
	for _, id := range lineup {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id in auto-selected lineup %v", lineup)
		}
		seen[id] = struct{}{}
	}
	// The fixtures rank p1-p5 highest at each position.
	for _, want := range []string{"t-p1", "t-p2", "t-p3", "t-p4", "t-p5"} {
		if _, ok := seen[want]; !ok {
			t.Fatalf("auto-select should pick the best at each position, got %v", lineup)
		}
	}
}

func TestBuildLineupPrefersHealthy(t *testing.T) {
	team := testutil.FixtureTeam("t", 10)
	// Injure the starting point guard; the backup point guard should start.
	team.Players[0].Injury = &players.Injury{Type: "sprained ankle", GamesRemaining: 4}

	lineup := buildLineup(team, nil)
	for _, id := range lineup {
		if id == "t-p1" {
			t.Fatalf("injured player should not be auto-selected, got %v", lineup)
		}
	}
	found := false
	for _, id := range lineup {
		if id == "t-p6" {
			found = true
		}
	}
	if !found {
		t.Fatalf("backup point guard should replace the injured starter, got %v", lineup)
	}
}

func TestBuildLineupThinRoster(t *testing.T) {
	team := testutil.FixtureTeam("t", 3)
	lineup := buildLineup(team, nil)
	if len(lineup) != 3 {
		t.Fatalf("a three-man roster can only field three, got %v", lineup)
	}
}

func TestResolveTargetMinutesClamps(t *testing.T) {
	team := testutil.FixtureTeam("t", 10)
	deps := testDeps(t, 3)
	s, err := New(team, testutil.FixtureTeam("o", 10), Options{
		TargetMinutes: map[string]map[string]float64{
			"t": {"t-p1": 45, "t-p2": 30, "t-p3": 30, "t-p4": 30, "t-p5": 30},
		},
	}, deps)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	rt := s.home
	rt.lineup = buildLineup(team, nil)

	resolved := s.resolveTargetMinutes(rt)
	for id, m := range resolved {
		if m < 0 || m > rotation.MaxPlayerMinutes {
			t.Fatalf("minutes for %s out of range after variance: %f", id, m)
		}
	}
	if resolved["t-p1"] > rotation.MaxPlayerMinutes {
		t.Fatalf("45-minute request must cap at %f, got %f", rotation.MaxPlayerMinutes, resolved["t-p1"])
	}
}

func TestResolveTargetMinutesFallsBackToDefaults(t *testing.T) {
	team := testutil.FixtureTeam("t", 10)
	s, err := New(team, testutil.FixtureTeam("o", 10), Options{}, testDeps(t, 3))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	rt := s.home
	rt.lineup = buildLineup(team, nil)

	resolved := s.resolveTargetMinutes(rt)
	if len(resolved) == 0 {
		t.Fatal("defaults should produce a minute budget")
	}
	total := 0.0
	for _, m := range resolved {
		total += m
	}
	// Variance can move the total, but it stays near the 200-minute budget.
	if total < teams.TargetMinutesTotal*(1-minutesVariance) || total > teams.TargetMinutesTotal*(1+minutesVariance) {
		t.Fatalf("varied minutes drifted too far from the budget: %f", total)
	}
}
