package testutil

import (
	"fmt"

	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/domain/teams"
)

var fixturePositions = []players.Position{
	players.PointGuard, players.ShootingGuard, players.SmallForward,
	players.PowerForward, players.Center,
}

// FixturePlayer builds a fully-populated roster player. Ratings fall with
// index so fixture rosters have a clear pecking order.
func FixturePlayer(teamPrefix string, index int) *players.Player {
	overall := 88 - index*2
	if overall < 55 {
		overall = 55
	}
	attr := func(offset int) int {
		v := overall + offset
		if v > 95 {
			v = 95
		}
		if v < 40 {
			v = 40
		}
		return v
	}
	return &players.Player{
		ID:            fmt.Sprintf("%s-p%d", teamPrefix, index+1),
		FirstName:     "Test",
		LastName:      fmt.Sprintf("%s%d", teamPrefix, index+1),
		Position:      fixturePositions[index%len(fixturePositions)],
		BirthDate:     "1998-03-15",
		YearsPro:      4,
		OverallRating: overall,
		PotentialRating: func() int {
			p := overall + 6
			if p > 99 {
				p = 99
			}
			return p
		}(),
		Attributes: players.Attributes{
			Offense: map[string]int{
				"threePoint":    attr(-2),
				"midRange":      attr(0),
				"insideScoring": attr(-1),
				"postControl":   attr(-4),
				"passing":       attr(1),
				"ballHandle":    attr(0),
				"freeThrow":     attr(2),
			},
			Defense: map[string]int{
				"perimeterDefense": attr(-1),
				"interiorDefense":  attr(-2),
				"steal":            attr(-3),
				"block":            attr(-4),
				"rebounding":       attr(-2),
			},
			Physical: map[string]int{
				"speed":      attr(0),
				"strength":   attr(-2),
				"stamina":    attr(1),
				"durability": attr(0),
			},
			Mental: map[string]int{
				"basketballIQ": attr(-1),
				"workEthic":    attr(0),
				"clutch":       attr(-2),
			},
		},
		Tendencies: players.Tendencies{},
		Personality: players.Personality{
			Morale: 80,
		},
		InjuryRisk: "M",
		Contract:   players.Contract{YearsRemaining: 2, Salary: 8_000_000},
	}
}

// FixtureTeam builds a team with n fixture players and sensible defaults.
func FixtureTeam(id string, n int) *teams.Team {
	roster := make([]*players.Player, 0, n)
	for i := 0; i < n; i++ {
		roster = append(roster, FixturePlayer(id, i))
	}
	return &teams.Team{
		ID:      id,
		Name:    "Team " + id,
		Players: roster,
		CoachingScheme: teams.CoachingScheme{
			Offensive:    "balanced",
			Defensive:    "man_to_man",
			Substitution: "standard",
		},
	}
}
