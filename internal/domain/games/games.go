// Package games defines box scores, game results and the serializable
// mid-game state used for resumable simulations.
package games

// BoxScoreLine is a per-player accumulator for one game. It is created empty
// at game init and only ever adds; values never decrease during a game.
type BoxScoreLine struct {
	PlayerID          string  `json:"playerId"`
	PlayerName        string  `json:"playerName"`
	Minutes           float64 `json:"minutes"`
	Points            int     `json:"points"`
	FieldGoalsMade    int     `json:"fieldGoalsMade"`
	FieldGoalsAtt     int     `json:"fieldGoalsAttempted"`
	ThreePointersMade int     `json:"threePointersMade"`
	ThreePointersAtt  int     `json:"threePointersAttempted"`
	FreeThrowsMade    int     `json:"freeThrowsMade"`
	FreeThrowsAtt     int     `json:"freeThrowsAttempted"`
	OffRebounds       int     `json:"offensiveRebounds"`
	DefRebounds       int     `json:"defensiveRebounds"`
	Assists           int     `json:"assists"`
	Steals            int     `json:"steals"`
	Blocks            int     `json:"blocks"`
	Turnovers         int     `json:"turnovers"`
	Fouls             int     `json:"fouls"`
	PlusMinus         int     `json:"plusMinus"`
}

// Rebounds returns the combined rebound total.
func (b BoxScoreLine) Rebounds() int {
	return b.OffRebounds + b.DefRebounds
}

// QuarterScore records one period's points (quarter 5+ are overtimes).
type QuarterScore struct {
	Quarter int `json:"quarter"`
	Home    int `json:"home"`
	Away    int `json:"away"`
}

// PlayByPlayEntry is one narrative line of game flow.
type PlayByPlayEntry struct {
	Quarter     int     `json:"quarter"`
	Clock       float64 `json:"clock"` // minutes remaining in the quarter
	TeamID      string  `json:"teamId"`
	Description string  `json:"description"`
	HomeScore   int     `json:"homeScore"`
	AwayScore   int     `json:"awayScore"`
}

// ClutchPlay captures the last scoring play that mattered late in a close game.
type ClutchPlay struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	TeamID     string `json:"teamId"`
	ShotType   string `json:"shotType"`
	Points     int    `json:"points"`
}

// SynergyActivation counts one badge-pair synergy firing during a game.
type SynergyActivation struct {
	BadgeA  string `json:"badgeA"`
	BadgeB  string `json:"badgeB"`
	PlayerA string `json:"playerA"`
	PlayerB string `json:"playerB"`
	Effect  string `json:"effect"`
	Count   int    `json:"count"`
}

// AnimationFrame is a keyframe emitted by the play executor for rendering.
type AnimationFrame struct {
	PlayID   string  `json:"playId"`
	Node     int     `json:"node"`
	ActorID  string  `json:"actorId"`
	Action   string  `json:"action"`
	Duration float64 `json:"duration"`
}

// TeamBoxScore groups each side's lines.
type TeamBoxScore struct {
	Home []BoxScoreLine `json:"home"`
	Away []BoxScoreLine `json:"away"`
}

// Result is the full-game payload returned once a simulation completes.
type Result struct {
	GameID             string              `json:"gameId"`
	HomeTeamID         string              `json:"homeTeamId"`
	AwayTeamID         string              `json:"awayTeamId"`
	HomeScore          int                 `json:"homeScore"`
	AwayScore          int                 `json:"awayScore"`
	WinnerID           string              `json:"winnerId"`
	BoxScore           TeamBoxScore        `json:"boxScore"`
	QuarterScores      []QuarterScore      `json:"quarterScores"`
	PlayByPlay         []PlayByPlayEntry   `json:"playByPlay,omitempty"`
	AnimationData      []AnimationFrame    `json:"animationData,omitempty"`
	SynergiesActivated []SynergyActivation `json:"synergiesActivated,omitempty"`
	ClutchPlay         *ClutchPlay         `json:"clutchPlay,omitempty"`
	OvertimePeriods    int                 `json:"overtimePeriods"`
}

// QuarterResult is the per-quarter payload in resumable mode.
type QuarterResult struct {
	Quarter    int               `json:"quarter"`
	HomePoints int               `json:"homePoints"`
	AwayPoints int               `json:"awayPoints"`
	HomeScore  int               `json:"homeScore"`
	AwayScore  int               `json:"awayScore"`
	Completed  bool              `json:"completed"`
	PlayByPlay []PlayByPlayEntry `json:"playByPlay,omitempty"`
}

// TotalPoints sums a side's box score points.
func TotalPoints(lines []BoxScoreLine) int {
	sum := 0
	for _, l := range lines {
		sum += l.Points
	}
	return sum
}

// LineFor finds a player's accumulator in a slice of lines.
func LineFor(lines []BoxScoreLine, playerID string) (int, bool) {
	for i := range lines {
		if lines[i].PlayerID == playerID {
			return i, true
		}
	}
	return -1, false
}
