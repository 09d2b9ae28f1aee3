package config

import "time"

const (
	envPort          = "PORT"
	envMetricsPort   = "METRICS_PORT"
	envMetricsOn     = "METRICS_ENABLED"
	envOtelEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService   = "OTEL_SERVICE_NAME"
	envOtelInsecure  = "OTEL_EXPORTER_OTLP_INSECURE"
	envSaveBackend   = "SAVE_BACKEND"
	envSaveDir       = "SAVE_DIR"
	envSaveRetention = "SAVE_RETENTION_DAYS"
	envSQLitePath    = "SQLITE_PATH"
	envRestInterval  = "REST_CLOCK_INTERVAL"
	envRestEnabled   = "REST_CLOCK_ENABLED"
	envDifficulty    = "SIM_DIFFICULTY"
	envAnimationData = "SIM_ANIMATION_DATA"

	defaultPort        = "4000"
	defaultMetricsPort = "9090"
	defaultSaveBackend = "memory"
	defaultSaveDir     = "data/saves"
	// Save files older than the retention window are pruned on each write.
	defaultSaveRetention = 30
	defaultSQLitePath    = "data/franchise.db"
	// The league clock applies rest-day recovery once per tick.
	defaultRestInterval = 1 * Duration(time.Hour)
	defaultDifficulty   = "normal"
)
