package evolution

import (
	"fmt"

	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/logging"
	"github.com/courtside/franchise-sim/internal/rng"
	"github.com/courtside/franchise-sim/internal/timeutil"
)

// Weekly pass tuning.
const (
	weeklyFatigueRecovery = 15.0
	moraleStabilizeRate   = 0.2

	// Upgrade points convert recent positive growth into spendable points,
	// scaled by potential and capped per week.
	upgradePointCap       = 3
	upgradeLookbackDays   = 7
	weakAttributeSpendPct = 0.6
)

// TeamWeekly bundles one team's roster and record for the weekly pass.
type TeamWeekly struct {
	TeamID  string
	Players []*players.Player
	Wins    int
	Losses  int

	// AIControlled rosters auto-spend their upgrade points.
	AIControlled bool
}

// WeeklyRequest drives one weekly evolution pass.
type WeeklyRequest struct {
	CampaignID  string
	CurrentDate string // YYYY-MM-DD
	Difficulty  string
	Week        int
	Teams       []TeamWeekly
}

// WeeklyResult returns updated clones, unspent upgrade points per player,
// and narrative events.
type WeeklyResult struct {
	Players       map[string]*players.Player
	UpgradePoints map[string]int
	Events        []Event
}

// ProcessWeekly stabilizes morale toward the team record, continues fatigue
// recovery, and converts accumulated growth into upgrade points.
func (p *Pipeline) ProcessWeekly(req WeeklyRequest) (WeeklyResult, error) {
	if len(req.Teams) == 0 {
		return WeeklyResult{}, fmt.Errorf("weekly pass needs at least one team")
	}

	out := WeeklyResult{
		Players:       make(map[string]*players.Player),
		UpgradePoints: make(map[string]int),
	}

	for _, team := range req.Teams {
		targetMorale := moraleTarget(team.Wins, team.Losses)
		for _, original := range team.Players {
			if original == nil {
				continue
			}
			pl := original.Clone()

			pl.Fatigue -= weeklyFatigueRecovery
			pl.ClampFatigue()

			drift := (targetMorale - float64(pl.Personality.Morale)) * moraleStabilizeRate
			pl.Personality.Morale += p.probRound(drift)
			pl.ClampMorale()

			points := p.upgradePoints(pl, req.CurrentDate)
			if points > 0 && team.AIControlled {
				p.autoSpendUpgradePoints(pl, points, req.CurrentDate)
				points = 0
			}
			out.UpgradePoints[pl.ID] = points
			out.Players[pl.ID] = pl
		}
	}

	logging.Info(p.log, "weekly evolution complete",
		"week", req.Week,
		logging.FieldCount, len(out.Players),
	)
	return out, nil
}

// moraleTarget maps a win percentage onto the morale scale.
func moraleTarget(wins, losses int) float64 {
	games := wins + losses
	if games == 0 {
		return 70
	}
	winPct := float64(wins) / float64(games)
	return 50 + winPct*40
}

// upgradePoints converts the week's positive development into spendable
// points, scaled by how much headroom the player's potential leaves.
func (p *Pipeline) upgradePoints(pl *players.Player, currentDate string) int {
	now, err := timeutil.ParseDate(currentDate)
	if err != nil {
		return 0
	}
	cutoff := now.AddDate(0, 0, -upgradeLookbackDays)

	growth := 0
	for _, entry := range pl.DevelopmentHistory {
		if entry.Delta <= 0 || entry.Reason != "development" {
			continue
		}
		entryDate, err := timeutil.ParseDate(entry.Date)
		if err != nil || entryDate.Before(cutoff) || entryDate.After(now) {
			continue
		}
		growth += entry.Delta
	}
	if growth == 0 {
		return 0
	}

	potentialFactor := float64(pl.PotentialRating) / 85.0
	points := p.probRound(float64(growth) * potentialFactor)
	if points > upgradePointCap {
		points = upgradePointCap
	}
	if points < 0 {
		points = 0
	}
	return points
}

// autoSpendUpgradePoints applies an AI roster's points, favoring the
// weakest attribute most of the time.
func (p *Pipeline) autoSpendUpgradePoints(pl *players.Player, points int, date string) {
	for i := 0; i < points; i++ {
		var category, attr string
		if rng.Chance(p.src, weakAttributeSpendPct) {
			category, attr = weakestAttribute(pl)
		} else {
			category = players.CategoryNames[p.src.Intn(len(players.CategoryNames))]
			attr = p.pickAttribute(pl, category)
		}
		applyAttributeDelta(pl, category, attr, 1, date, "upgrade")
	}
	recomputeOverall(pl)
}

// weakestAttribute scans all four categories for the lowest value.
func weakestAttribute(pl *players.Player) (category, attr string) {
	lowest := players.AttributeMax + 1
	category, attr = players.CategoryOffense, defaultAttributeFor(players.CategoryOffense)
	for _, cat := range players.CategoryNames {
		for name, value := range categoryMap(pl, cat) {
			if value < lowest {
				lowest = value
				category, attr = cat, name
			} else if value == lowest && (cat < category || (cat == category && name < attr)) {
				// Deterministic tie-break keeps tests stable.
				category, attr = cat, name
			}
		}
	}
	return category, attr
}

func categoryMap(pl *players.Player, category string) map[string]int {
	switch category {
	case players.CategoryOffense:
		return pl.Attributes.Offense
	case players.CategoryDefense:
		return pl.Attributes.Defense
	case players.CategoryPhysical:
		return pl.Attributes.Physical
	case players.CategoryMental:
		return pl.Attributes.Mental
	}
	return nil
}
