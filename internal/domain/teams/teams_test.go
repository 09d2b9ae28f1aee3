package teams

import (
	"testing"

	"github.com/courtside/franchise-sim/internal/domain/players"
)

func roster(ids ...string) []*players.Player {
	out := make([]*players.Player, 0, len(ids))
	for _, id := range ids {
		out = append(out, &players.Player{ID: id})
	}
	return out
}

func TestPlayerByID(t *testing.T) {
	team := &Team{Players: roster("a", "b", "c")}
	if _, ok := team.PlayerByID("b"); !ok {
		t.Fatal("expected to find player b")
	}
	if _, ok := team.PlayerByID("zz"); ok {
		t.Fatal("unexpected match for absent id")
	}
}

func TestHealthyPlayersFiltersInjured(t *testing.T) {
	team := &Team{Players: roster("a", "b")}
	team.Players[1].Injury = &players.Injury{Type: "acl_tear", GamesRemaining: 20}

	healthy := team.HealthyPlayers()
	if len(healthy) != 1 || healthy[0].ID != "a" {
		t.Fatalf("expected only player a healthy, got %+v", healthy)
	}
}

func TestAverageMoraleDefaults(t *testing.T) {
	team := &Team{}
	if got := team.AverageMorale(); got != 80 {
		t.Fatalf("empty roster should default morale to 80, got %f", got)
	}

	team.Players = roster("a", "b")
	team.Players[0].Personality.Morale = 60
	team.Players[1].Personality.Morale = 100
	if got := team.AverageMorale(); got != 80 {
		t.Fatalf("expected mean 80, got %f", got)
	}
}

func TestValidStarters(t *testing.T) {
	team := &Team{Players: roster("a", "b", "c", "d", "e", "f")}

	cases := []struct {
		name string
		ids  []string
		want bool
	}{
		{"valid", []string{"a", "b", "c", "d", "e"}, true},
		{"too few", []string{"a", "b", "c", "d"}, false},
		{"duplicate", []string{"a", "a", "c", "d", "e"}, false},
		{"empty slot", []string{"a", "", "c", "d", "e"}, false},
		{"unknown id", []string{"a", "b", "c", "d", "zz"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := team.ValidStarters(tc.ids); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
