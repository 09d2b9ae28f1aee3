package sim

import (
	"testing"

	"github.com/courtside/franchise-sim/internal/badges"
	"github.com/courtside/franchise-sim/internal/domain/games"
	"github.com/courtside/franchise-sim/internal/playbook"
	"github.com/courtside/franchise-sim/internal/rng"
	"github.com/courtside/franchise-sim/internal/testutil"
)

func testDeps(t *testing.T, seed int64) Deps {
	t.Helper()
	catalog, err := playbook.Load()
	if err != nil {
		t.Fatalf("load play catalog: %v", err)
	}
	registry, err := badges.Load()
	if err != nil {
		t.Fatalf("load badge registry: %v", err)
	}
	return Deps{
		Catalog:  catalog,
		Registry: registry,
		RNG:      rng.NewSeeded(seed),
	}
}

func TestSimulateGameProperties(t *testing.T) {
	for _, seed := range []int64{1, 42, 2026} {
		home := testutil.FixtureTeam("home", 10)
		away := testutil.FixtureTeam("away", 10)
		s, err := New(home, away, Options{}, testDeps(t, seed))
		if err != nil {
			t.Fatalf("new simulator: %v", err)
		}
		result, err := s.SimulateGame()
		if err != nil {
			t.Fatalf("seed %d: simulate: %v", seed, err)
		}

		if result.HomeScore == result.AwayScore {
			t.Fatalf("seed %d: full-sim games must not end tied", seed)
		}
		if result.HomeScore < 0 || result.AwayScore < 0 {
			t.Fatalf("seed %d: negative score: %d-%d", seed, result.HomeScore, result.AwayScore)
		}
		wantWinner := home.ID
		if result.AwayScore > result.HomeScore {
			wantWinner = away.ID
		}
		if result.WinnerID != wantWinner {
			t.Fatalf("seed %d: winner %s does not match scores %d-%d",
				seed, result.WinnerID, result.HomeScore, result.AwayScore)
		}

		if got := games.TotalPoints(result.BoxScore.Home); got != result.HomeScore {
			t.Fatalf("seed %d: home box sums to %d, score is %d", seed, got, result.HomeScore)
		}
		if got := games.TotalPoints(result.BoxScore.Away); got != result.AwayScore {
			t.Fatalf("seed %d: away box sums to %d, score is %d", seed, got, result.AwayScore)
		}

		if len(result.QuarterScores) < 4 {
			t.Fatalf("seed %d: expected at least 4 quarter scores, got %d", seed, len(result.QuarterScores))
		}
		if len(result.QuarterScores) != 4+result.OvertimePeriods {
			t.Fatalf("seed %d: quarter scores %d do not match overtimes %d",
				seed, len(result.QuarterScores), result.OvertimePeriods)
		}
		qh, qa := 0, 0
		for _, q := range result.QuarterScores {
			qh += q.Home
			qa += q.Away
		}
		if qh != result.HomeScore || qa != result.AwayScore {
			t.Fatalf("seed %d: quarter scores sum %d-%d, final %d-%d",
				seed, qh, qa, result.HomeScore, result.AwayScore)
		}

		for _, line := range append(append([]games.BoxScoreLine(nil), result.BoxScore.Home...), result.BoxScore.Away...) {
			if line.FieldGoalsMade > line.FieldGoalsAtt {
				t.Fatalf("seed %d: %s made more field goals than attempted", seed, line.PlayerID)
			}
			if line.ThreePointersMade > line.ThreePointersAtt {
				t.Fatalf("seed %d: %s made more threes than attempted", seed, line.PlayerID)
			}
			if line.FreeThrowsMade > line.FreeThrowsAtt {
				t.Fatalf("seed %d: %s made more free throws than attempted", seed, line.PlayerID)
			}
		}
		if len(result.PlayByPlay) == 0 {
			t.Fatalf("seed %d: expected play-by-play entries", seed)
		}
	}
}

func TestSimulateGameOnlyOnce(t *testing.T) {
	home := testutil.FixtureTeam("home", 8)
	away := testutil.FixtureTeam("away", 8)
	s, err := New(home, away, Options{}, testDeps(t, 7))
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}
	if _, err := s.SimulateGame(); err != nil {
		t.Fatalf("first simulate: %v", err)
	}
	if _, err := s.SimulateGame(); err == nil {
		t.Fatal("a simulator owns exactly one game; the second run must fail")
	}
}

func TestAnimationDataOnlyWhenRequested(t *testing.T) {
	home := testutil.FixtureTeam("home", 8)
	away := testutil.FixtureTeam("away", 8)

	s, err := New(home, away, Options{}, testDeps(t, 9))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	result, err := s.SimulateGame()
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if len(result.AnimationData) != 0 {
		t.Fatal("animation data should be absent by default")
	}

	s2, err := New(testutil.FixtureTeam("home", 8), testutil.FixtureTeam("away", 8),
		Options{GenerateAnimation: true}, testDeps(t, 9))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	result2, err := s2.SimulateGame()
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if len(result2.AnimationData) == 0 {
		t.Fatal("animation data should be captured when requested")
	}
}

func TestChemistryModifier(t *testing.T) {
	cases := []struct {
		morale float64
		want   float64
	}{
		{80, 0},
		{100, chemistryMax},
		{90, chemistryMax / 2},
		{0, -chemistryMax},
		{70, -0.015},
	}
	for _, tc := range cases {
		if got := chemistryModifier(tc.morale); got != tc.want {
			t.Fatalf("morale %f: expected %f, got %f", tc.morale, tc.want, got)
		}
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	home := testutil.FixtureTeam("home", 8)
	away := testutil.FixtureTeam("away", 8)
	deps := testDeps(t, 1)

	if _, err := New(nil, away, Options{}, deps); err == nil {
		t.Fatal("nil home team should fail")
	}
	if _, err := New(home, away, Options{}, Deps{Registry: deps.Registry}); err == nil {
		t.Fatal("missing catalog should fail")
	}
	if _, err := New(home, away, Options{}, Deps{Catalog: deps.Catalog}); err == nil {
		t.Fatal("missing registry should fail")
	}
}
