package config

// SimConfig holds simulation defaults applied when a request leaves them unset.
type SimConfig struct {
	Difficulty    string
	AnimationData bool
}

func loadSim() SimConfig {
	return SimConfig{
		Difficulty:    envOrDefault(envDifficulty, defaultDifficulty),
		AnimationData: boolEnvOrDefault(envAnimationData, false),
	}
}

// RestClockConfig controls the background rest-day recovery ticker.
type RestClockConfig struct {
	Enabled  bool
	Interval Duration
}

func loadRestClock() RestClockConfig {
	return RestClockConfig{
		Enabled:  boolEnvOrDefault(envRestEnabled, true),
		Interval: durationEnvOrDefault(envRestInterval, defaultRestInterval),
	}
}
