// Package players defines the canonical in-memory player record.
//
// JSON tags are the single camelCase wire form; any legacy snake_case payloads
// are normalized at the import boundary, never inside core logic.
package players

import (
	"time"

	"github.com/courtside/franchise-sim/internal/timeutil"
)

// Position is a canonical on-court position.
type Position string

const (
	PointGuard    Position = "PG"
	ShootingGuard Position = "SG"
	SmallForward  Position = "SF"
	PowerForward  Position = "PF"
	Center        Position = "C"
)

// AllPositions lists positions in lineup-slot order.
var AllPositions = []Position{PointGuard, ShootingGuard, SmallForward, PowerForward, Center}

// BadgeTier orders badge strength from bronze to hall-of-fame.
type BadgeTier string

const (
	TierBronze BadgeTier = "bronze"
	TierSilver BadgeTier = "silver"
	TierGold   BadgeTier = "gold"
	TierHOF    BadgeTier = "hof"
)

// TierRank maps tiers to a comparable rank (bronze lowest).
func TierRank(t BadgeTier) int {
	switch t {
	case TierBronze:
		return 1
	case TierSilver:
		return 2
	case TierGold:
		return 3
	case TierHOF:
		return 4
	default:
		return 0
	}
}

// Badge is an earned badge at a tier.
type Badge struct {
	ID   string    `json:"id"`
	Tier BadgeTier `json:"tier"`
}

// Rating bounds shared across the evolution pipeline.
const (
	AttributeMin = 25
	AttributeMax = 99
	OverallMin   = 40
	OverallMax   = 99

	// DefaultAttribute backfills missing or malformed attribute entries.
	DefaultAttribute = 70
	// DefaultAge backfills an unknown or malformed birth date.
	DefaultAge = 25
)

// Attribute category keys.
const (
	CategoryOffense  = "offense"
	CategoryDefense  = "defense"
	CategoryPhysical = "physical"
	CategoryMental   = "mental"
)

// Attributes groups the four rating categories. Each maps a named
// sub-attribute to an integer in [25,99].
type Attributes struct {
	Offense  map[string]int `json:"offense"`
	Defense  map[string]int `json:"defense"`
	Physical map[string]int `json:"physical"`
	Mental   map[string]int `json:"mental"`
}

// Category returns the named category map, or nil for an unknown name.
func (a *Attributes) Category(name string) map[string]int {
	switch name {
	case CategoryOffense:
		return a.Offense
	case CategoryDefense:
		return a.Defense
	case CategoryPhysical:
		return a.Physical
	case CategoryMental:
		return a.Mental
	default:
		return nil
	}
}

// CategoryNames lists categories in overall-blend order.
var CategoryNames = []string{CategoryOffense, CategoryDefense, CategoryPhysical, CategoryMental}

// Get reads a sub-attribute, defaulting missing entries so one corrupt record
// never aborts a whole-team simulation.
func (a *Attributes) Get(category, name string) int {
	m := a.Category(category)
	if m == nil {
		return DefaultAttribute
	}
	v, ok := m[name]
	if !ok || v <= 0 {
		return DefaultAttribute
	}
	return v
}

// Set writes a sub-attribute clamped to [AttributeMin, AttributeMax].
func (a *Attributes) Set(category, name string, value int) {
	m := a.Category(category)
	if m == nil {
		return
	}
	if value < AttributeMin {
		value = AttributeMin
	}
	if value > AttributeMax {
		value = AttributeMax
	}
	m[name] = value
}

// Average returns the mean of one category, or DefaultAttribute when empty.
func (a *Attributes) Average(category string) float64 {
	m := a.Category(category)
	if len(m) == 0 {
		return DefaultAttribute
	}
	sum := 0
	for _, v := range m {
		sum += v
	}
	return float64(sum) / float64(len(m))
}

// Clone deep-copies all four category maps.
func (a Attributes) Clone() Attributes {
	return Attributes{
		Offense:  cloneIntMap(a.Offense),
		Defense:  cloneIntMap(a.Defense),
		Physical: cloneIntMap(a.Physical),
		Mental:   cloneIntMap(a.Mental),
	}
}

func cloneIntMap(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Tendencies describe shot selection and playmaking propensities.
// The three shot proportions should sum to roughly 1.0.
type Tendencies struct {
	ShotClose       float64 `json:"shotClose"`
	ShotMid         float64 `json:"shotMid"`
	ShotThree       float64 `json:"shotThree"`
	PassPropensity  float64 `json:"passPropensity"`
	StealPropensity float64 `json:"stealPropensity"`
	FoulPropensity  float64 `json:"foulPropensity"`
}

// Personality carries traits and social state.
type Personality struct {
	Traits       []string `json:"traits"`
	Morale       int      `json:"morale"` // 0-100
	Chemistry    int      `json:"chemistry"`
	MediaProfile string   `json:"mediaProfile,omitempty"`
}

// HasTrait reports whether a named trait is present.
func (p Personality) HasTrait(name string) bool {
	for _, t := range p.Traits {
		if t == name {
			return true
		}
	}
	return false
}

// Injury tracks an active injury. PermanentImpact maps "category.attribute"
// keys to negative deltas applied exactly once (ImpactApplied guards it).
type Injury struct {
	Type            string         `json:"type"`
	Severity        string         `json:"severity"` // minor|moderate|severe|season_ending
	GamesRemaining  int            `json:"gamesRemaining"`
	PermanentImpact map[string]int `json:"permanentImpact,omitempty"`
	ImpactApplied   bool           `json:"impactApplied"`
}

// Contract holds the fields the engine needs; salary-cap logic lives upstream.
type Contract struct {
	YearsRemaining int `json:"yearsRemaining"`
	Salary         int `json:"salary,omitempty"`
}

// DevelopmentEntry is one attribute delta in the bounded history log.
type DevelopmentEntry struct {
	Date      string `json:"date"`
	Category  string `json:"category"`
	Attribute string `json:"attribute"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason,omitempty"`
}

// Performance is one game's rating in the bounded recent-performance log.
type Performance struct {
	GameDate string  `json:"gameDate"`
	Rating   float64 `json:"rating"`
	Minutes  float64 `json:"minutes"`
}

// Streak marks a run of hot or cold games.
type Streak struct {
	Type  string `json:"type"` // hot|cold
	Games int    `json:"games"`
}

// Log bounds.
const (
	MaxDevelopmentHistory = 200
	MaxRecentPerformances = 10
)

// Player is the canonical player record mutated by the evolution pipeline.
type Player struct {
	ID                string    `json:"id"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Position          Position  `json:"position"`
	SecondaryPosition Position  `json:"secondaryPosition,omitempty"`
	BirthDate         string    `json:"birthDate,omitempty"` // YYYY-MM-DD
	YearsPro          int       `json:"yearsPro"`

	OverallRating   int        `json:"overallRating"`   // 40-99
	PotentialRating int        `json:"potentialRating"` // 25-99, ceiling for attributes
	Attributes      Attributes `json:"attributes"`
	Badges          []Badge    `json:"badges"`
	Tendencies      Tendencies `json:"tendencies"`
	Personality     Personality `json:"personality"`

	Fatigue    float64  `json:"fatigue"` // 0-100
	InjuryRisk string   `json:"injuryRisk,omitempty"` // L|M|H
	Injury     *Injury  `json:"injuryDetails,omitempty"`
	Contract   Contract `json:"contract"`

	DevelopmentHistory []DevelopmentEntry `json:"developmentHistory,omitempty"`
	RecentPerformances []Performance      `json:"recentPerformances,omitempty"`
	StreakData         *Streak            `json:"streakData,omitempty"`

	SeasonGamesPlayed   int     `json:"seasonGamesPlayed"`
	SeasonMinutesPlayed float64 `json:"seasonMinutesPlayed"`
}

// Name returns the display name.
func (p *Player) Name() string {
	if p.FirstName == "" {
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// IsInjured reports whether the player currently carries an injury.
func (p *Player) IsInjured() bool {
	return p.Injury != nil && p.Injury.GamesRemaining > 0
}

// Age returns whole years at the reference date, defaulting malformed or
// missing birth dates to DefaultAge.
func (p *Player) Age(at time.Time) int {
	if p.BirthDate == "" {
		return DefaultAge
	}
	birth, err := timeutil.ParseDate(p.BirthDate)
	if err != nil {
		return DefaultAge
	}
	age := timeutil.AgeAt(birth, at)
	if age <= 0 || age > 60 {
		return DefaultAge
	}
	return age
}

// PlaysPosition reports whether pos is the primary or secondary position.
func (p *Player) PlaysPosition(pos Position) bool {
	return p.Position == pos || (p.SecondaryPosition != "" && p.SecondaryPosition == pos)
}

// AttributeCap is the ceiling any attribute may reach for this player.
func (p *Player) AttributeCap() int {
	if p.PotentialRating >= AttributeMin && p.PotentialRating <= AttributeMax {
		return p.PotentialRating
	}
	return AttributeMax
}

// Clone deep-copies the record, including nested maps, logs and the injury.
// Evolution passes mutate clones so callers keep referential safety.
func (p *Player) Clone() *Player {
	out := *p
	out.Attributes = p.Attributes.Clone()
	out.Badges = append([]Badge(nil), p.Badges...)
	out.Personality.Traits = append([]string(nil), p.Personality.Traits...)
	out.DevelopmentHistory = append([]DevelopmentEntry(nil), p.DevelopmentHistory...)
	out.RecentPerformances = append([]Performance(nil), p.RecentPerformances...)
	if p.Injury != nil {
		inj := *p.Injury
		inj.PermanentImpact = cloneIntMap(p.Injury.PermanentImpact)
		out.Injury = &inj
	}
	if p.StreakData != nil {
		streak := *p.StreakData
		out.StreakData = &streak
	}
	return &out
}

// AppendDevelopment pushes an entry, dropping the oldest past the bound.
func (p *Player) AppendDevelopment(entry DevelopmentEntry) {
	p.DevelopmentHistory = append(p.DevelopmentHistory, entry)
	if len(p.DevelopmentHistory) > MaxDevelopmentHistory {
		p.DevelopmentHistory = p.DevelopmentHistory[len(p.DevelopmentHistory)-MaxDevelopmentHistory:]
	}
}

// AppendPerformance pushes a game rating, dropping the oldest past the bound.
func (p *Player) AppendPerformance(perf Performance) {
	p.RecentPerformances = append(p.RecentPerformances, perf)
	if len(p.RecentPerformances) > MaxRecentPerformances {
		p.RecentPerformances = p.RecentPerformances[len(p.RecentPerformances)-MaxRecentPerformances:]
	}
}

// ClampFatigue keeps fatigue in [0,100].
func (p *Player) ClampFatigue() {
	if p.Fatigue < 0 {
		p.Fatigue = 0
	}
	if p.Fatigue > 100 {
		p.Fatigue = 100
	}
}

// ClampMorale keeps morale in [0,100].
func (p *Player) ClampMorale() {
	if p.Personality.Morale < 0 {
		p.Personality.Morale = 0
	}
	if p.Personality.Morale > 100 {
		p.Personality.Morale = 100
	}
}
