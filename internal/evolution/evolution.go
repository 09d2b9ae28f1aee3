// Package evolution advances player records after games and on weekly,
// monthly, and season-end schedules: fatigue, injuries, morale, attribute
// development and regression, streaks, and retirement.
//
// Every pass is copy-on-write: incoming player records are cloned before
// mutation, so callers keep referential safety over the original roster.
package evolution

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/courtside/franchise-sim/internal/badges"
	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/rng"
)

// Difficulty names accepted by every pass.
const (
	DifficultyEasy   = "easy"
	DifficultyNormal = "normal"
	DifficultyHard   = "hard"
)

// tuning holds the difficulty-specific thresholds for post-game development.
type tuning struct {
	// DevThreshold is the per-minute rating above which a game nudges
	// attributes up; RegThreshold the rating below which they regress.
	DevThreshold float64
	RegThreshold float64

	// RegressionMinutesFloor gates regression: short stints never regress.
	RegressionMinutesFloor float64
}

var difficultyTable = map[string]tuning{
	DifficultyEasy:   {DevThreshold: 0.90, RegThreshold: 0.35, RegressionMinutesFloor: 20},
	DifficultyNormal: {DevThreshold: 1.00, RegThreshold: 0.40, RegressionMinutesFloor: 16},
	DifficultyHard:   {DevThreshold: 1.10, RegThreshold: 0.45, RegressionMinutesFloor: 12},
}

func tuningFor(difficulty string) tuning {
	if t, ok := difficultyTable[difficulty]; ok {
		return t
	}
	return difficultyTable[DifficultyNormal]
}

// Event types emitted by the pipeline.
const (
	EventInjury     = "injury"
	EventRecovery   = "recovery"
	EventBreakout   = "breakout"
	EventDecline    = "decline"
	EventRetirement = "retirement"
	EventStreak     = "streak"
)

// Event is one narrative record for the caller to display or persist.
type Event struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaignId"`
	PlayerID   string `json:"playerId"`
	TeamID     string `json:"teamId"`
	EventType  string `json:"eventType"`
	Headline   string `json:"headline"`
	Body       string `json:"body"`
	GameDate   string `json:"gameDate"`
}

// Pipeline runs every evolution pass. A single pipeline may serve many
// batches; all per-call state lives in the request/result types.
type Pipeline struct {
	registry *badges.Registry
	src      rng.Source
	log      *slog.Logger
}

// New builds a pipeline. The registry is required for development synergy
// boosts; a nil RNG gets a crypto-seeded source.
func New(registry *badges.Registry, src rng.Source, logger *slog.Logger) (*Pipeline, error) {
	if registry == nil {
		return nil, fmt.Errorf("evolution pipeline needs a badge registry")
	}
	if src == nil {
		src = rng.New()
	}
	return &Pipeline{registry: registry, src: src, log: logger}, nil
}

func (p *Pipeline) newEvent(campaignID, playerID, teamID, eventType, headline, body, date string) Event {
	return Event{
		ID:         uuid.NewString(),
		CampaignID: campaignID,
		PlayerID:   playerID,
		TeamID:     teamID,
		EventType:  eventType,
		Headline:   headline,
		Body:       body,
		GameDate:   date,
	}
}

// applyAttributeDelta mutates one attribute, clamping into the player's
// legal range, and logs the change in the bounded development history.
// It returns the delta actually applied after clamping.
func applyAttributeDelta(pl *players.Player, category, attribute string, delta int, date, reason string) int {
	if delta == 0 {
		return 0
	}
	current := pl.Attributes.Get(category, attribute)
	next := current + delta
	cap := pl.AttributeCap()
	if next > cap {
		next = cap
	}
	if next < players.AttributeMin {
		next = players.AttributeMin
	}
	applied := next - current
	if applied == 0 {
		return 0
	}
	pl.Attributes.Set(category, attribute, next)
	pl.AppendDevelopment(players.DevelopmentEntry{
		Date:      date,
		Category:  category,
		Attribute: attribute,
		Delta:     applied,
		Reason:    reason,
	})
	return applied
}

// Overall rating blend weights.
const (
	overallWeightOffense  = 0.40
	overallWeightDefense  = 0.25
	overallWeightPhysical = 0.20
	overallWeightMental   = 0.15
)

// recomputeOverall rebuilds the overall rating from category averages.
func recomputeOverall(pl *players.Player) {
	blend := pl.Attributes.Average(players.CategoryOffense)*overallWeightOffense +
		pl.Attributes.Average(players.CategoryDefense)*overallWeightDefense +
		pl.Attributes.Average(players.CategoryPhysical)*overallWeightPhysical +
		pl.Attributes.Average(players.CategoryMental)*overallWeightMental
	overall := int(math.Round(blend))
	if overall < players.OverallMin {
		overall = players.OverallMin
	}
	if overall > players.OverallMax {
		overall = players.OverallMax
	}
	pl.OverallRating = overall
}

// probRound converts a fractional magnitude into an integer step, carrying
// the remainder as a probability.
func (p *Pipeline) probRound(v float64) int {
	whole := math.Trunc(v)
	frac := math.Abs(v - whole)
	out := int(whole)
	if frac > 0 && rng.Chance(p.src, frac) {
		if v > 0 {
			out++
		} else {
			out--
		}
	}
	return out
}

// pickAttribute selects a uniformly random attribute name from a category
// map, falling back to a representative default for empty maps.
func (p *Pipeline) pickAttribute(pl *players.Player, category string) string {
	var m map[string]int
	switch category {
	case players.CategoryOffense:
		m = pl.Attributes.Offense
	case players.CategoryDefense:
		m = pl.Attributes.Defense
	case players.CategoryPhysical:
		m = pl.Attributes.Physical
	case players.CategoryMental:
		m = pl.Attributes.Mental
	}
	if len(m) == 0 {
		return defaultAttributeFor(category)
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	// Map iteration order is random but not seedable; sort for replayable draws.
	sort.Strings(names)
	return names[p.src.Intn(len(names))]
}

func defaultAttributeFor(category string) string {
	switch category {
	case players.CategoryOffense:
		return "midRange"
	case players.CategoryDefense:
		return "perimeterDefense"
	case players.CategoryPhysical:
		return "speed"
	default:
		return "basketballIQ"
	}
}
