package players

import (
	"testing"
	"time"
)

func TestAttributesGetDefaultsMissing(t *testing.T) {
	attrs := Attributes{Offense: map[string]int{"threePoint": 88}}

	if got := attrs.Get(CategoryOffense, "threePoint"); got != 88 {
		t.Fatalf("expected 88, got %d", got)
	}
	if got := attrs.Get(CategoryOffense, "midRange"); got != DefaultAttribute {
		t.Fatalf("missing attribute should default to %d, got %d", DefaultAttribute, got)
	}
	if got := attrs.Get(CategoryDefense, "steal"); got != DefaultAttribute {
		t.Fatalf("nil category should default to %d, got %d", DefaultAttribute, got)
	}
	if got := attrs.Get("bogus", "steal"); got != DefaultAttribute {
		t.Fatalf("unknown category should default to %d, got %d", DefaultAttribute, got)
	}
}

func TestAttributesSetClamps(t *testing.T) {
	attrs := Attributes{Physical: map[string]int{}}
	attrs.Set(CategoryPhysical, "speed", 150)
	if attrs.Physical["speed"] != AttributeMax {
		t.Fatalf("expected clamp to %d, got %d", AttributeMax, attrs.Physical["speed"])
	}
	attrs.Set(CategoryPhysical, "speed", 3)
	if attrs.Physical["speed"] != AttributeMin {
		t.Fatalf("expected clamp to %d, got %d", AttributeMin, attrs.Physical["speed"])
	}
}

func TestCloneIsIsolated(t *testing.T) {
	p := &Player{
		ID:         "p1",
		Attributes: Attributes{Offense: map[string]int{"threePoint": 80}},
		Badges:     []Badge{{ID: "sniper", Tier: TierGold}},
		Injury: &Injury{
			Type:            "ankle_sprain",
			GamesRemaining:  3,
			PermanentImpact: map[string]int{"physical.speed": -2},
		},
		StreakData:         &Streak{Type: "hot", Games: 4},
		RecentPerformances: []Performance{{GameDate: "2026-01-01", Rating: 1.2}},
	}

	clone := p.Clone()
	clone.Attributes.Offense["threePoint"] = 50
	clone.Injury.GamesRemaining = 0
	clone.Injury.PermanentImpact["physical.speed"] = -9
	clone.StreakData.Games = 1
	clone.Badges[0].Tier = TierBronze
	clone.RecentPerformances[0].Rating = 0

	if p.Attributes.Offense["threePoint"] != 80 {
		t.Fatal("clone mutation leaked into original attributes")
	}
	if p.Injury.GamesRemaining != 3 || p.Injury.PermanentImpact["physical.speed"] != -2 {
		t.Fatal("clone mutation leaked into original injury")
	}
	if p.StreakData.Games != 4 {
		t.Fatal("clone mutation leaked into original streak")
	}
	if p.Badges[0].Tier != TierGold {
		t.Fatal("clone mutation leaked into original badges")
	}
	if p.RecentPerformances[0].Rating != 1.2 {
		t.Fatal("clone mutation leaked into original performance log")
	}
}

func TestAgeDefaultsBadBirthDate(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		birth string
		want  int
	}{
		{"missing", "", DefaultAge},
		{"malformed", "not-a-date", DefaultAge},
		{"valid", "2000-03-02", 25},
		{"birthday passed", "2000-02-28", 26},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Player{BirthDate: tc.birth}
			if got := p.Age(now); got != tc.want {
				t.Fatalf("expected age %d, got %d", tc.want, got)
			}
		})
	}
}

func TestBoundedLogs(t *testing.T) {
	p := &Player{}
	for i := 0; i < MaxDevelopmentHistory+25; i++ {
		p.AppendDevelopment(DevelopmentEntry{Delta: i})
	}
	if len(p.DevelopmentHistory) != MaxDevelopmentHistory {
		t.Fatalf("expected history bounded at %d, got %d", MaxDevelopmentHistory, len(p.DevelopmentHistory))
	}
	if p.DevelopmentHistory[0].Delta != 25 {
		t.Fatalf("expected oldest entries dropped, first delta %d", p.DevelopmentHistory[0].Delta)
	}

	for i := 0; i < MaxRecentPerformances+5; i++ {
		p.AppendPerformance(Performance{Rating: float64(i)})
	}
	if len(p.RecentPerformances) != MaxRecentPerformances {
		t.Fatalf("expected performances bounded at %d, got %d", MaxRecentPerformances, len(p.RecentPerformances))
	}
}

func TestPlaysPosition(t *testing.T) {
	p := &Player{Position: ShootingGuard, SecondaryPosition: PointGuard}
	if !p.PlaysPosition(ShootingGuard) || !p.PlaysPosition(PointGuard) {
		t.Fatal("expected both primary and secondary positions to match")
	}
	if p.PlaysPosition(Center) {
		t.Fatal("unexpected position match")
	}
}

func TestAttributeCap(t *testing.T) {
	p := &Player{PotentialRating: 90}
	if got := p.AttributeCap(); got != 90 {
		t.Fatalf("expected cap 90, got %d", got)
	}
	p.PotentialRating = 0
	if got := p.AttributeCap(); got != AttributeMax {
		t.Fatalf("missing potential should cap at %d, got %d", AttributeMax, got)
	}
}
