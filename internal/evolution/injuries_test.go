package evolution

import (
	"math"
	"testing"

	"github.com/courtside/franchise-sim/internal/badges"
	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/rng"
	"github.com/courtside/franchise-sim/internal/testutil"
	"github.com/courtside/franchise-sim/internal/timeutil"
)

func newTestPipeline(t *testing.T, src rng.Source) *Pipeline {
	t.Helper()
	reg, err := badges.Load()
	if err != nil {
		t.Fatalf("load badge registry: %v", err)
	}
	p, err := New(reg, src, nil)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return p
}

func TestInjuryProbabilityCapBoundary(t *testing.T) {
	at, err := timeutil.ParseDate("2026-01-15")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}

	pl := testutil.FixturePlayer("cap", 0)
	pl.InjuryRisk = "H"
	pl.BirthDate = "1986-01-01" // age 40 at the reference date
	pl.Fatigue = 100
	pl.Attributes.Physical["durability"] = 0

	got := InjuryProbability(pl, 48, true, at)
	if got != InjuryProbabilityCap {
		t.Fatalf("stacked worst-case factors should hit the cap exactly: got %v, want %v", got, InjuryProbabilityCap)
	}
}

func TestInjuryProbabilityComposesFactors(t *testing.T) {
	at, err := timeutil.ParseDate("2026-06-01")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}

	pl := testutil.FixturePlayer("low", 0)
	pl.InjuryRisk = "L"
	pl.BirthDate = "2001-01-01" // age 25
	pl.Fatigue = 0
	pl.Attributes.Physical["durability"] = 80

	got := InjuryProbability(pl, 20, false, at)
	want := injuryBaseChance * injuryRiskLowMult
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("low-risk young player: got %v, want %v", got, want)
	}

	// Fatigue and heavy minutes each add their share.
	pl.Fatigue = 40
	got = InjuryProbability(pl, 36, false, at)
	want += 40/injuryFatigueDivisor + 6*injuryMinutesPerMinute
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("fatigued heavy-minutes player: got %v, want %v", got, want)
	}
}

func TestDrawInjuryCopiesPermanentImpact(t *testing.T) {
	// 0.91*100 lands in the severe band (90-98), kind 0 is the torn meniscus.
	src := &testutil.RNGScript{Floats: []float64{0.91}, Ints: []int{0, 0}}
	p := newTestPipeline(t, src)

	inj := p.drawInjury()
	if inj.Severity != SeveritySevere || inj.Type != "torn meniscus" {
		t.Fatalf("scripted draw should yield a severe torn meniscus, got %+v", inj)
	}
	if inj.GamesRemaining != 15 {
		t.Fatalf("low duration roll should give the minimum 15 games, got %d", inj.GamesRemaining)
	}

	inj.PermanentImpact["physical.speed"] = -99
	if injuryKinds[SeveritySevere][0].permanentImpact["physical.speed"] != -2 {
		t.Fatal("mutating a drawn injury must not touch the shared kind table")
	}
}

func TestAdvanceInjuryAppliesImpactOnce(t *testing.T) {
	p := newTestPipeline(t, &testutil.RNGScript{})
	pl := testutil.FixturePlayer("inj", 0)
	speedBefore := pl.Attributes.Physical["speed"]
	pl.Injury = &players.Injury{
		Type:            "torn ACL",
		Severity:        SeveritySeasonEnding,
		GamesRemaining:  2,
		PermanentImpact: map[string]int{"physical.speed": -4},
	}

	events := p.advanceInjury(pl, "camp", "team", "2026-01-10")
	if len(events) != 0 {
		t.Fatalf("mid-recovery tick should emit no events, got %d", len(events))
	}
	if got := pl.Attributes.Physical["speed"]; got != speedBefore-4 {
		t.Fatalf("permanent impact not applied: speed %d, want %d", got, speedBefore-4)
	}
	if !pl.Injury.ImpactApplied {
		t.Fatal("impact flag should be set after the first tick")
	}
	if pl.Injury.GamesRemaining != 1 {
		t.Fatalf("games remaining = %d, want 1", pl.Injury.GamesRemaining)
	}

	events = p.advanceInjury(pl, "camp", "team", "2026-01-12")
	if got := pl.Attributes.Physical["speed"]; got != speedBefore-4 {
		t.Fatalf("impact applied twice: speed %d, want %d", got, speedBefore-4)
	}
	if pl.Injury != nil {
		t.Fatal("player should be healed after the final tick")
	}
	if len(events) != 1 || events[0].EventType != EventRecovery {
		t.Fatalf("expected one recovery event, got %+v", events)
	}
}

func TestRetirementChanceCurve(t *testing.T) {
	cases := []struct {
		age, overall int
		want         float64
	}{
		{33, 90, 0},
		{34, 80, 0.12},
		{36, 80, 0.36},
		{40, 60, retirementMaxChance},
	}
	for _, tc := range cases {
		got := retirementChance(tc.age, tc.overall)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("retirementChance(%d, %d) = %v, want %v", tc.age, tc.overall, got, tc.want)
		}
	}
}
