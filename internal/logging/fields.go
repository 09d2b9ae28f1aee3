package logging

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldGameID     = "game_id"
	FieldPlayerID   = "player_id"
	FieldTeamID     = "team_id"
	FieldQuarter    = "quarter"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
)
