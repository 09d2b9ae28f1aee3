package coaching

import (
	"math"
	"testing"

	"github.com/courtside/franchise-sim/internal/domain/players"
)

func TestSchemeTablesComplete(t *testing.T) {
	if len(OffensiveSchemeNames()) != 6 {
		t.Fatalf("expected six offensive schemes, got %d", len(OffensiveSchemeNames()))
	}
	if len(DefensiveSchemeNames()) != 6 {
		t.Fatalf("expected six defensive schemes, got %d", len(DefensiveSchemeNames()))
	}
	for _, name := range OffensiveSchemeNames() {
		s := OffensiveSchemeByName(name)
		if s.TempoMultiplier <= 0 || s.TransitionFrequency <= 0 {
			t.Fatalf("scheme %s has unset tempo fields: %+v", name, s)
		}
		if len(s.PlayWeights) == 0 {
			t.Fatalf("scheme %s has no play weights", name)
		}
	}
}

func TestSchemeLookupDefaults(t *testing.T) {
	if got := OffensiveSchemeByName("nonsense").Name; got != OffBalanced {
		t.Fatalf("unknown offensive scheme should default to balanced, got %s", got)
	}
	if got := DefensiveSchemeByName("nonsense").Name; got != DefManToMan {
		t.Fatalf("unknown defensive scheme should default to man-to-man, got %s", got)
	}
}

func TestDefensiveModifiersWeakness(t *testing.T) {
	// Spot-up is a declared weakness of the 2-3 zone.
	scheme := DefensiveSchemeByName(DefZone23)
	mods := CalculateDefensiveModifiers(DefZone23, PlaySpotUp, nil)

	expectedShot := weaknessShotBonus + scheme.CornerThreeWeakness - scheme.ContestBoost
	if math.Abs(mods.ShotModifier-expectedShot) > 1e-9 {
		t.Fatalf("expected shot modifier %f, got %f", expectedShot, mods.ShotModifier)
	}
	expectedTO := scheme.TurnoverBoost + weaknessTurnoverRelief
	if math.Abs(mods.TurnoverModifier-expectedTO) > 1e-9 {
		t.Fatalf("expected turnover modifier %f, got %f", expectedTO, mods.TurnoverModifier)
	}
}

func TestDefensiveModifiersStrengthAndPostBlock(t *testing.T) {
	// Post-up is a declared strength of the 2-3 zone.
	scheme := DefensiveSchemeByName(DefZone23)
	mods := CalculateDefensiveModifiers(DefZone23, PlayPostUp, nil)

	expectedShot := strengthShotPenalty - scheme.PaintProtection - scheme.ContestBoost
	if math.Abs(mods.ShotModifier-expectedShot) > 1e-9 {
		t.Fatalf("expected shot modifier %f, got %f", expectedShot, mods.ShotModifier)
	}
	if math.Abs(mods.BlockModifier-(scheme.BlockBoost+postUpBlockBoost)) > 1e-9 {
		t.Fatalf("post-up should add the block boost, got %f", mods.BlockModifier)
	}
	if math.Abs(mods.TurnoverModifier-(scheme.TurnoverBoost+strengthTurnoverPenalty)) > 1e-9 {
		t.Fatalf("unexpected turnover modifier %f", mods.TurnoverModifier)
	}
}

func TestDefensiveModifiersThreePointTagAgainstDrop(t *testing.T) {
	// Drop coverage declares three_point as a weakness; a tagged pick-and-roll
	// should collect the weakness bonus, screen vulnerability, and the corner
	// three weakness for the tag.
	scheme := DefensiveSchemeByName(DefDropCoverage)
	mods := CalculateDefensiveModifiers(DefDropCoverage, PlayPickAndRoll, []string{PlayThreePoint})

	expectedShot := weaknessShotBonus + scheme.ScreenVulnerability + scheme.CornerThreeWeakness - scheme.ContestBoost
	if math.Abs(mods.ShotModifier-expectedShot) > 1e-9 {
		t.Fatalf("expected shot modifier %f, got %f", expectedShot, mods.ShotModifier)
	}
}

func TestDefensiveModifiersTransition(t *testing.T) {
	scheme := DefensiveSchemeByName(DefFullCourtPress)
	mods := CalculateDefensiveModifiers(DefFullCourtPress, PlayTransition, nil)

	expectedShot := weaknessShotBonus + scheme.TransitionWeakness - scheme.ContestBoost
	if math.Abs(mods.ShotModifier-expectedShot) > 1e-9 {
		t.Fatalf("expected shot modifier %f, got %f", expectedShot, mods.ShotModifier)
	}
	if mods.StealModifier != scheme.StealBoost {
		t.Fatalf("expected base steal boost %f, got %f", scheme.StealBoost, mods.StealModifier)
	}
}

func shooterHeavyRoster() []*players.Player {
	roster := make([]*players.Player, 0, 5)
	for i := 0; i < 5; i++ {
		roster = append(roster, &players.Player{
			ID:            string(rune('a' + i)),
			OverallRating: 78,
			Attributes: players.Attributes{
				Offense:  map[string]int{"threePoint": 90, "postControl": 55},
				Physical: map[string]int{"speed": 70},
				Mental:   map[string]int{"basketballIQ": 72},
			},
		})
	}
	return roster
}

func TestRecommendOffensiveScheme(t *testing.T) {
	if got := RecommendOffensiveScheme(shooterHeavyRoster()); got != OffPerimeterCentric {
		t.Fatalf("shooter-heavy roster should recommend perimeter scheme, got %s", got)
	}
	if got := RecommendOffensiveScheme(nil); got == "" {
		t.Fatal("empty roster should still produce a recommendation")
	}
}

func TestSchemeEffectivenessStarGate(t *testing.T) {
	roster := shooterHeavyRoster()
	without := SchemeEffectiveness(OffIsoHeavy, roster)
	roster[0].OverallRating = 88
	with := SchemeEffectiveness(OffIsoHeavy, roster)
	if with <= without {
		t.Fatalf("star presence should raise iso-heavy effectiveness (%f vs %f)", with, without)
	}
}

func TestProfileRosterDefaults(t *testing.T) {
	profile := ProfileRoster([]*players.Player{{ID: "x"}})
	if profile.ThreePoint != players.DefaultAttribute {
		t.Fatalf("missing attributes should profile at the default, got %f", profile.ThreePoint)
	}
}
