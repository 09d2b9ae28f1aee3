package config

// Config holds runtime configuration for the server.
type Config struct {
	Port    string
	Sim     SimConfig
	Saves   SavesConfig
	Metrics MetricsConfig
	Rest    RestClockConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:    envOrDefault(envPort, defaultPort),
		Sim:     loadSim(),
		Saves:   loadSaves(),
		Metrics: loadMetrics(),
		Rest:    loadRestClock(),
	}
}
