// Package coaching maps scheme selections to tempo, transition and defensive
// modifiers, and recommends schemes from roster composition.
//
// The numeric values in these tables are balance-sensitive; they are carried
// over verbatim from playtesting and should not be re-derived.
package coaching

// Play categories shared with the play catalog.
const (
	PlayIsolation   = "isolation"
	PlayPickAndRoll = "pick_and_roll"
	PlayPostUp      = "post_up"
	PlaySpotUp      = "spot_up"
	PlayMotion      = "motion"
	PlayTransition  = "transition"
	PlayThreePoint  = "three_point"
)

// Offensive scheme names.
const (
	OffBalanced         = "balanced"
	OffRunAndGun        = "run_and_gun"
	OffMotion           = "motion"
	OffPostCentric      = "post_centric"
	OffPerimeterCentric = "perimeter_centric"
	OffIsoHeavy         = "iso_heavy"
)

// Defensive scheme names.
const (
	DefManToMan       = "man_to_man"
	DefZone23         = "zone_2_3"
	DefZone32         = "zone_3_2"
	DefFullCourtPress = "full_court_press"
	DefSwitchAll      = "switch_everything"
	DefDropCoverage   = "drop_coverage"
)

// OffensiveScheme drives pace and play selection weighting.
type OffensiveScheme struct {
	Name                string
	TempoMultiplier     float64
	TransitionFrequency float64
	// PlayWeights biases catalog selection per play category.
	PlayWeights map[string]float64
}

// DefensiveScheme carries the named modifiers composed per play.
type DefensiveScheme struct {
	Name string

	BlockBoost    float64
	StealBoost    float64
	TurnoverBoost float64
	ContestBoost  float64

	IsoDefense          float64
	ScreenVulnerability float64
	PaintProtection     float64
	CornerThreeWeakness float64
	TransitionWeakness  float64

	// Weaknesses/Strengths declare play categories the scheme struggles
	// against or shuts down, on top of the named modifiers.
	Weaknesses []string
	Strengths  []string
}

var offensiveSchemes = map[string]OffensiveScheme{
	OffBalanced: {
		Name:                OffBalanced,
		TempoMultiplier:     1.0,
		TransitionFrequency: 0.15,
		PlayWeights: map[string]float64{
			PlayIsolation: 1.0, PlayPickAndRoll: 1.2, PlayPostUp: 1.0,
			PlaySpotUp: 1.0, PlayMotion: 1.1, PlayTransition: 1.0,
		},
	},
	OffRunAndGun: {
		Name:                OffRunAndGun,
		TempoMultiplier:     1.2,
		TransitionFrequency: 0.32,
		PlayWeights: map[string]float64{
			PlayIsolation: 0.8, PlayPickAndRoll: 1.1, PlayPostUp: 0.5,
			PlaySpotUp: 1.2, PlayMotion: 0.9, PlayTransition: 1.8,
		},
	},
	OffMotion: {
		Name:                OffMotion,
		TempoMultiplier:     1.05,
		TransitionFrequency: 0.18,
		PlayWeights: map[string]float64{
			PlayIsolation: 0.6, PlayPickAndRoll: 1.1, PlayPostUp: 0.8,
			PlaySpotUp: 1.3, PlayMotion: 1.7, PlayTransition: 1.0,
		},
	},
	OffPostCentric: {
		Name:                OffPostCentric,
		TempoMultiplier:     0.9,
		TransitionFrequency: 0.10,
		PlayWeights: map[string]float64{
			PlayIsolation: 0.8, PlayPickAndRoll: 0.9, PlayPostUp: 1.9,
			PlaySpotUp: 1.0, PlayMotion: 0.8, PlayTransition: 0.6,
		},
	},
	OffPerimeterCentric: {
		Name:                OffPerimeterCentric,
		TempoMultiplier:     1.1,
		TransitionFrequency: 0.20,
		PlayWeights: map[string]float64{
			PlayIsolation: 0.9, PlayPickAndRoll: 1.2, PlayPostUp: 0.4,
			PlaySpotUp: 1.7, PlayMotion: 1.2, PlayTransition: 1.1,
		},
	},
	OffIsoHeavy: {
		Name:                OffIsoHeavy,
		TempoMultiplier:     0.95,
		TransitionFrequency: 0.12,
		PlayWeights: map[string]float64{
			PlayIsolation: 2.0, PlayPickAndRoll: 1.0, PlayPostUp: 0.9,
			PlaySpotUp: 0.8, PlayMotion: 0.5, PlayTransition: 0.8,
		},
	},
}

var defensiveSchemes = map[string]DefensiveScheme{
	DefManToMan: {
		Name:         DefManToMan,
		BlockBoost:   0.01,
		StealBoost:   0.01,
		ContestBoost: 0.03,
		IsoDefense:   0.03, ScreenVulnerability: 0.02, PaintProtection: 0.02,
		CornerThreeWeakness: 0.01, TransitionWeakness: 0.02,
		Weaknesses: []string{PlayMotion},
		Strengths:  []string{PlayIsolation},
	},
	DefZone23: {
		Name:          DefZone23,
		BlockBoost:    0.03,
		TurnoverBoost: 0.01,
		ContestBoost:  0.02,
		IsoDefense:    0.01, ScreenVulnerability: 0.01, PaintProtection: 0.05,
		CornerThreeWeakness: 0.05, TransitionWeakness: 0.03,
		Weaknesses: []string{PlaySpotUp, PlayThreePoint},
		Strengths:  []string{PlayPostUp},
	},
	DefZone32: {
		Name:          DefZone32,
		StealBoost:    0.02,
		TurnoverBoost: 0.01,
		ContestBoost:  0.025,
		IsoDefense:    0.02, ScreenVulnerability: 0.02, PaintProtection: 0.02,
		CornerThreeWeakness: 0.01, TransitionWeakness: 0.03,
		Weaknesses: []string{PlayPostUp},
		Strengths:  []string{PlaySpotUp},
	},
	DefFullCourtPress: {
		Name:          DefFullCourtPress,
		StealBoost:    0.04,
		TurnoverBoost: 0.05,
		ContestBoost:  0.015,
		IsoDefense:    0.01, ScreenVulnerability: 0.03, PaintProtection: 0.01,
		CornerThreeWeakness: 0.02, TransitionWeakness: 0.06,
		Weaknesses: []string{PlayTransition},
		Strengths:  []string{PlayMotion},
	},
	DefSwitchAll: {
		Name:         DefSwitchAll,
		StealBoost:   0.02,
		ContestBoost: 0.025,
		IsoDefense:   0.01, ScreenVulnerability: 0.005, PaintProtection: 0.015,
		CornerThreeWeakness: 0.02, TransitionWeakness: 0.02,
		Weaknesses: []string{PlayPostUp, PlayIsolation},
		Strengths:  []string{PlayPickAndRoll},
	},
	DefDropCoverage: {
		Name:         DefDropCoverage,
		BlockBoost:   0.035,
		ContestBoost: 0.02,
		IsoDefense:   0.02, ScreenVulnerability: 0.04, PaintProtection: 0.045,
		CornerThreeWeakness: 0.03, TransitionWeakness: 0.02,
		Weaknesses: []string{PlayPickAndRoll, PlayThreePoint},
		Strengths:  []string{PlayPostUp, PlayTransition},
	},
}

// OffensiveSchemeByName resolves a scheme, defaulting unknown names to balanced.
func OffensiveSchemeByName(name string) OffensiveScheme {
	if s, ok := offensiveSchemes[name]; ok {
		return s
	}
	return offensiveSchemes[OffBalanced]
}

// DefensiveSchemeByName resolves a scheme, defaulting unknown names to man-to-man.
func DefensiveSchemeByName(name string) DefensiveScheme {
	if s, ok := defensiveSchemes[name]; ok {
		return s
	}
	return defensiveSchemes[DefManToMan]
}

// OffensiveSchemeNames lists all table entries (stable for iteration in tests).
func OffensiveSchemeNames() []string {
	return []string{OffBalanced, OffRunAndGun, OffMotion, OffPostCentric, OffPerimeterCentric, OffIsoHeavy}
}

// DefensiveSchemeNames lists all table entries.
func DefensiveSchemeNames() []string {
	return []string{DefManToMan, DefZone23, DefZone32, DefFullCourtPress, DefSwitchAll, DefDropCoverage}
}
