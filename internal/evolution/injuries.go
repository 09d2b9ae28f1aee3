package evolution

import (
	"fmt"
	"time"

	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/rng"
)

// InjuryProbabilityCap bounds the per-game injury chance. Every factor can
// stack, but the roll never exceeds this.
const InjuryProbabilityCap = 0.05

// Injury chance factors.
const (
	injuryBaseChance = 0.015

	injuryRiskLowMult    = 0.5
	injuryRiskMediumMult = 1.0
	injuryRiskHighMult   = 2.0

	injuryDurabilityDivisor = 2000.0 // per point below the baseline
	injuryAgePerYear        = 0.001  // per year past the age knee
	injuryAgeKnee           = 30
	injuryFatigueDivisor    = 4000.0
	injuryMinutesPerMinute  = 0.0005 // per minute past the heavy-load knee
	injuryMinutesKnee       = 30.0
	injuryPlayoffBonus      = 0.005
)

// Severity draw weights: minor 60, moderate 30, severe 8, season-ending 2.
const (
	SeverityMinor        = "minor"
	SeverityModerate     = "moderate"
	SeveritySevere       = "severe"
	SeveritySeasonEnding = "season_ending"
)

var severityWeights = []struct {
	severity string
	weight   float64
}{
	{SeverityMinor, 60},
	{SeverityModerate, 30},
	{SeveritySevere, 8},
	{SeveritySeasonEnding, 2},
}

// injuryKind is one drawable injury within a severity band.
type injuryKind struct {
	name            string
	minGames        int
	maxGames        int
	permanentImpact map[string]int // "category.attribute" -> delta
}

var injuryKinds = map[string][]injuryKind{
	SeverityMinor: {
		{name: "sprained ankle", minGames: 1, maxGames: 3},
		{name: "bruised knee", minGames: 1, maxGames: 2},
		{name: "sore hamstring", minGames: 1, maxGames: 3},
		{name: "jammed finger", minGames: 1, maxGames: 2},
	},
	SeverityModerate: {
		{name: "strained hamstring", minGames: 4, maxGames: 8},
		{name: "sprained MCL", minGames: 5, maxGames: 10},
		{name: "back spasms", minGames: 3, maxGames: 6},
		{name: "strained groin", minGames: 4, maxGames: 7},
	},
	SeveritySevere: {
		{name: "torn meniscus", minGames: 15, maxGames: 25,
			permanentImpact: map[string]int{"physical.speed": -2}},
		{name: "high ankle sprain", minGames: 10, maxGames: 18},
		{name: "broken hand", minGames: 12, maxGames: 20,
			permanentImpact: map[string]int{"offense.midRange": -1}},
	},
	SeveritySeasonEnding: {
		{name: "torn ACL", minGames: 60, maxGames: 82,
			permanentImpact: map[string]int{"physical.speed": -4, "physical.strength": -1}},
		{name: "torn achilles", minGames: 70, maxGames: 82,
			permanentImpact: map[string]int{"physical.speed": -5}},
		{name: "ruptured disc", minGames: 50, maxGames: 70,
			permanentImpact: map[string]int{"physical.strength": -3}},
	},
}

// InjuryProbability composes the per-game injury chance for one healthy
// player, capped at InjuryProbabilityCap.
func InjuryProbability(pl *players.Player, minutes float64, isPlayoff bool, at time.Time) float64 {
	chance := injuryBaseChance * riskMultiplier(pl.InjuryRisk)

	durability := float64(pl.Attributes.Get(players.CategoryPhysical, "durability"))
	if durability < float64(players.DefaultAttribute) {
		chance += (float64(players.DefaultAttribute) - durability) / injuryDurabilityDivisor
	}
	if age := pl.Age(at); age > injuryAgeKnee {
		chance += float64(age-injuryAgeKnee) * injuryAgePerYear
	}
	chance += pl.Fatigue / injuryFatigueDivisor
	if minutes > injuryMinutesKnee {
		chance += (minutes - injuryMinutesKnee) * injuryMinutesPerMinute
	}
	if isPlayoff {
		chance += injuryPlayoffBonus
	}

	if chance < 0 {
		return 0
	}
	if chance > InjuryProbabilityCap {
		return InjuryProbabilityCap
	}
	return chance
}

func riskMultiplier(risk string) float64 {
	switch risk {
	case "L":
		return injuryRiskLowMult
	case "H":
		return injuryRiskHighMult
	default:
		return injuryRiskMediumMult
	}
}

// drawInjury rolls severity then type then duration.
func (p *Pipeline) drawInjury() *players.Injury {
	weights := make([]float64, len(severityWeights))
	for i, sw := range severityWeights {
		weights[i] = sw.weight
	}
	idx := rng.WeightedIndex(p.src, weights)
	if idx < 0 {
		idx = 0
	}
	severity := severityWeights[idx].severity

	kinds := injuryKinds[severity]
	kind := kinds[p.src.Intn(len(kinds))]

	var impact map[string]int
	if len(kind.permanentImpact) > 0 {
		impact = make(map[string]int, len(kind.permanentImpact))
		for k, v := range kind.permanentImpact {
			impact[k] = v
		}
	}
	return &players.Injury{
		Type:            kind.name,
		Severity:        severity,
		GamesRemaining:  rng.IntRange(p.src, kind.minGames, kind.maxGames),
		PermanentImpact: impact,
	}
}

// advanceInjury ticks recovery for an injured player, applying the one-time
// permanent impact and emitting a recovery event when healed.
func (p *Pipeline) advanceInjury(pl *players.Player, campaignID, teamID, date string) []Event {
	inj := pl.Injury
	if inj == nil {
		return nil
	}

	if len(inj.PermanentImpact) > 0 && !inj.ImpactApplied {
		for key, delta := range inj.PermanentImpact {
			category, attribute, ok := splitImpactKey(key)
			if !ok {
				continue
			}
			applyAttributeDelta(pl, category, attribute, delta, date, "injury: "+inj.Type)
		}
		inj.ImpactApplied = true
		recomputeOverall(pl)
	}

	inj.GamesRemaining--
	if inj.GamesRemaining > 0 {
		return nil
	}

	healed := inj.Type
	pl.Injury = nil
	return []Event{p.newEvent(campaignID, pl.ID, teamID, EventRecovery,
		fmt.Sprintf("%s returns from injury", pl.Name()),
		fmt.Sprintf("%s has recovered from a %s and is available again.", pl.Name(), healed),
		date)}
}

func splitImpactKey(key string) (category, attribute string, ok bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			return key[:i], key[i+1:], true
		}
	}
	return "", "", false
}
