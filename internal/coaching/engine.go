package coaching

import "github.com/courtside/franchise-sim/internal/domain/players"

// DefensiveModifiers are the per-play outcome adjustments handed to the play
// executor. ShotModifier is a delta on the offense's make probability;
// positive favors the offense. The boost fields favor the defense.
type DefensiveModifiers struct {
	ShotModifier     float64 `json:"shotModifier"`
	TurnoverModifier float64 `json:"turnoverModifier"`
	BlockModifier    float64 `json:"blockModifier"`
	StealModifier    float64 `json:"stealModifier"`
}

// Category adjustment constants for declared scheme weaknesses/strengths.
const (
	weaknessShotBonus       = 0.10
	weaknessTurnoverRelief  = -0.06
	strengthShotPenalty     = -0.07
	strengthTurnoverPenalty = 0.04

	postUpBlockBoost = 0.02
)

// CalculateDefensiveModifiers composes the defense's scheme modifiers for one
// selected play.
func CalculateDefensiveModifiers(defensiveScheme, playCategory string, tags []string) DefensiveModifiers {
	scheme := DefensiveSchemeByName(defensiveScheme)

	mods := DefensiveModifiers{
		BlockModifier: scheme.BlockBoost,
		StealModifier: scheme.StealBoost,
	}
	mods.TurnoverModifier = scheme.TurnoverBoost

	if containsCategory(scheme.Weaknesses, playCategory, tags) {
		mods.ShotModifier += weaknessShotBonus
		mods.TurnoverModifier += weaknessTurnoverRelief
	}
	if containsCategory(scheme.Strengths, playCategory, tags) {
		mods.ShotModifier += strengthShotPenalty
		mods.TurnoverModifier += strengthTurnoverPenalty
	}

	switch playCategory {
	case PlayIsolation:
		mods.ShotModifier -= scheme.IsoDefense
	case PlayPickAndRoll, PlayMotion:
		mods.ShotModifier += scheme.ScreenVulnerability
	case PlayPostUp:
		mods.ShotModifier -= scheme.PaintProtection
		mods.BlockModifier += postUpBlockBoost
	case PlaySpotUp:
		mods.ShotModifier += scheme.CornerThreeWeakness
	case PlayTransition:
		mods.ShotModifier += scheme.TransitionWeakness
	}
	if playCategory != PlaySpotUp && hasTag(tags, PlayThreePoint) {
		mods.ShotModifier += scheme.CornerThreeWeakness
	}

	// Every scheme contests; a uniform shot penalty always applies.
	mods.ShotModifier -= scheme.ContestBoost

	return mods
}

// RosterProfile aggregates the attribute averages scheme recommendation uses.
type RosterProfile struct {
	ThreePoint  float64
	PostControl float64
	Speed       float64
	IQ          float64
	HasStar     bool
}

// ProfileRoster computes the roster averages driving recommendations.
func ProfileRoster(roster []*players.Player) RosterProfile {
	var profile RosterProfile
	if len(roster) == 0 {
		return profile
	}
	count := 0
	for _, p := range roster {
		if p == nil {
			continue
		}
		profile.ThreePoint += float64(p.Attributes.Get(players.CategoryOffense, "threePoint"))
		profile.PostControl += float64(p.Attributes.Get(players.CategoryOffense, "postControl"))
		profile.Speed += float64(p.Attributes.Get(players.CategoryPhysical, "speed"))
		profile.IQ += float64(p.Attributes.Get(players.CategoryMental, "basketballIQ"))
		if p.OverallRating >= 85 {
			profile.HasStar = true
		}
		count++
	}
	if count == 0 {
		return RosterProfile{}
	}
	profile.ThreePoint /= float64(count)
	profile.PostControl /= float64(count)
	profile.Speed /= float64(count)
	profile.IQ /= float64(count)
	return profile
}

// RecommendOffensiveScheme picks the scheme best matching roster strengths.
func RecommendOffensiveScheme(roster []*players.Player) string {
	best := OffBalanced
	bestScore := -1.0
	for _, name := range OffensiveSchemeNames() {
		if score := SchemeEffectiveness(name, roster); score > bestScore {
			best = name
			bestScore = score
		}
	}
	return best
}

// SchemeEffectiveness scores how well an offensive scheme fits a roster,
// roughly on a 0-100 scale.
func SchemeEffectiveness(schemeName string, roster []*players.Player) float64 {
	profile := ProfileRoster(roster)

	score := 50.0
	switch schemeName {
	case OffPerimeterCentric:
		score += (profile.ThreePoint - 70) * 1.2
	case OffPostCentric:
		score += (profile.PostControl - 70) * 1.2
	case OffRunAndGun:
		score += (profile.Speed - 70) * 1.2
	case OffMotion:
		score += (profile.IQ - 70) * 1.2
	case OffIsoHeavy:
		if profile.HasStar {
			score += 15
		} else {
			score -= 10
		}
	case OffBalanced:
		score += ((profile.ThreePoint + profile.PostControl + profile.Speed + profile.IQ)/4 - 70) * 0.6
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func containsCategory(categories []string, playCategory string, tags []string) bool {
	for _, c := range categories {
		if c == playCategory || hasTag(tags, c) {
			return true
		}
	}
	return false
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
