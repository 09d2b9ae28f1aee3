package games

import (
	"encoding/json"
	"fmt"
)

// StateVersion is the current serialized state schema version.
const StateVersion = 2

// Phase is the explicit quarter lifecycle state.
type Phase string

const (
	PhaseInit            Phase = "init"
	PhaseInQuarter       Phase = "in_quarter"
	PhaseBetweenQuarters Phase = "between_quarters"
	PhaseComplete        Phase = "complete"
)

// PlayerSnapshot is the compacted per-player state carried inside a save.
type PlayerSnapshot struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Overall  int     `json:"overall"`
	Fatigue  float64 `json:"fatigue"`
	Injured  bool    `json:"injured"`
}

// SchemeState stores one team's scheme selection inside a save.
type SchemeState struct {
	Offensive    string `json:"offensive"`
	Defensive    string `json:"defensive"`
	Substitution string `json:"substitution"`
}

// SubstitutionState stores the rotation bookkeeping for one team.
type SubstitutionState struct {
	Strategy      string             `json:"strategy"`
	TargetMinutes map[string]float64 `json:"targetMinutes"`
	StarterIDs    []string           `json:"starterIds"`
}

// TeamState groups one side's serialized fields.
type TeamState struct {
	TeamID       string            `json:"teamId"`
	Lineup       []string          `json:"lineup"`
	BoxScore     []BoxScoreLine    `json:"boxScore"`
	Snapshots    []PlayerSnapshot  `json:"playerSnapshots"`
	Scheme       SchemeState       `json:"scheme"`
	Substitution SubstitutionState `json:"substitution"`
}

// State is the versioned, serializable snapshot of a game in progress.
// Serializing a deserialized State reproduces an equivalent state aside from
// per-quarter transient buffers, which are rebuilt on resume.
type State struct {
	Version         int            `json:"version"`
	GameID          string         `json:"gameId"`
	Phase           Phase          `json:"phase"`
	Quarter         int            `json:"quarter"`
	HomeScore       int            `json:"homeScore"`
	AwayScore       int            `json:"awayScore"`
	QuarterScores   []QuarterScore `json:"quarterScores"`
	Home            TeamState      `json:"home"`
	Away            TeamState      `json:"away"`
	Possessions     int            `json:"possessions"`
	OvertimePeriods int            `json:"overtimePeriods"`
	LiveGame        bool           `json:"liveGame"`
	UserTeamID      string         `json:"userTeamId,omitempty"`
	LastUpdated     string         `json:"lastUpdated"` // ISO-8601
}

// legacyState is the pre-v2 shape, which carried a single scheme string per
// team instead of the three-axis scheme.
type legacyState struct {
	State
	HomeScheme string `json:"homeScheme"`
	AwayScheme string `json:"awayScheme"`
}

// Encode serializes a state to JSON.
func (s State) Encode() ([]byte, error) {
	s.Version = StateVersion
	return json.Marshal(s)
}

// DecodeState parses a serialized state, migrating legacy versions forward.
func DecodeState(data []byte) (State, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return State{}, fmt.Errorf("decode game state: %w", err)
	}

	switch probe.Version {
	case StateVersion:
		var st State
		if err := json.Unmarshal(data, &st); err != nil {
			return State{}, fmt.Errorf("decode game state v%d: %w", StateVersion, err)
		}
		return st, nil
	case 0, 1:
		var legacy legacyState
		if err := json.Unmarshal(data, &legacy); err != nil {
			return State{}, fmt.Errorf("decode legacy game state: %w", err)
		}
		return migrateLegacy(legacy), nil
	default:
		return State{}, fmt.Errorf("unsupported game state version %d", probe.Version)
	}
}

// migrateLegacy maps the single-scheme format onto the three-axis scheme,
// using the legacy value for both offense and defense.
func migrateLegacy(legacy legacyState) State {
	st := legacy.State
	st.Version = StateVersion
	if st.Home.Scheme == (SchemeState{}) && legacy.HomeScheme != "" {
		st.Home.Scheme = SchemeState{Offensive: legacy.HomeScheme, Defensive: legacy.HomeScheme}
	}
	if st.Away.Scheme == (SchemeState{}) && legacy.AwayScheme != "" {
		st.Away.Scheme = SchemeState{Offensive: legacy.AwayScheme, Defensive: legacy.AwayScheme}
	}
	if st.Phase == "" {
		if st.Quarter >= 4 {
			st.Phase = PhaseComplete
		} else {
			st.Phase = PhaseBetweenQuarters
		}
	}
	return st
}
