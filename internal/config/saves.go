package config

// SavesConfig controls where resumable game states are stored.
type SavesConfig struct {
	Backend       string // memory|sqlite
	Dir           string // filesystem export location
	RetentionDays int
	SQLitePath    string
}

func loadSaves() SavesConfig {
	return SavesConfig{
		Backend:       envOrDefault(envSaveBackend, defaultSaveBackend),
		Dir:           envOrDefault(envSaveDir, defaultSaveDir),
		RetentionDays: intEnvOrDefault(envSaveRetention, defaultSaveRetention),
		SQLitePath:    envOrDefault(envSQLitePath, defaultSQLitePath),
	}
}
