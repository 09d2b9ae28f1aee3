package rotation

import (
	"sort"

	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/domain/teams"
)

// Close-game override bounds.
const (
	closeGameQuarter   = 4
	closeGameMinutes   = 5.0
	closeGameScoreDiff = 6
)

const (
	regulationQuarters     = 4
	quarterMinutes         = 12.0
	overtimeMinutes        = 5.0
	regulationTotalMinutes = float64(regulationQuarters) * quarterMinutes
)

// Request is one rotation check for a single team.
type Request struct {
	Team          *teams.Team
	OnCourt       []string
	MinutesPlayed map[string]float64
	TargetMinutes map[string]float64
	Strategy      string

	Quarter       int
	TimeRemaining float64 // minutes left in the current period
	ScoreDiff     int     // this team's score minus the opponent's

	// UserControlled skips automatic rotation; a human decides live.
	UserControlled bool
}

// Change records one swap.
type Change struct {
	OutID string `json:"outId"`
	InID  string `json:"inId"`
}

// Result is the lineup after the check. Lineup always has exactly
// teams.LineupSlots entries drawn from the team roster.
type Result struct {
	Lineup  []string `json:"lineup"`
	Changes []Change `json:"changes,omitempty"`

	// CloseGameOverride marks that the best-five override fired.
	CloseGameOverride bool `json:"closeGameOverride,omitempty"`
}

// Evaluate runs one rotation check. The current lineup is returned unchanged
// when the user controls the team, when nobody is ahead of pace, or when no
// eligible bench replacement exists.
func Evaluate(req Request) Result {
	current := append([]string(nil), req.OnCourt...)
	if req.UserControlled {
		return Result{Lineup: current}
	}

	if closeGame(req.Quarter, req.TimeRemaining, req.ScoreDiff) {
		return closeGameLineup(req, current)
	}

	strategy := StrategyByName(req.Strategy)
	elapsed := elapsedMinutes(req.Quarter, req.TimeRemaining)

	candidates := sitCandidates(req, strategy, elapsed)
	if len(candidates) > strategy.MaxSubsPerCheck {
		candidates = candidates[:strategy.MaxSubsPerCheck]
	}

	var changes []Change
	for _, out := range candidates {
		in := bestReplacement(req, current, out)
		if in == nil {
			continue
		}
		for i, id := range current {
			if id == out.ID {
				current[i] = in.ID
				break
			}
		}
		changes = append(changes, Change{OutID: out.ID, InID: in.ID})
	}
	if len(changes) == 0 {
		return Result{Lineup: append([]string(nil), req.OnCourt...)}
	}
	return Result{Lineup: current, Changes: changes}
}

func closeGame(quarter int, timeRemaining float64, scoreDiff int) bool {
	if quarter < closeGameQuarter || timeRemaining > closeGameMinutes {
		return false
	}
	if scoreDiff < 0 {
		scoreDiff = -scoreDiff
	}
	return scoreDiff <= closeGameScoreDiff
}

// closeGameLineup forces the five highest-rated healthy players onto the
// floor, regardless of minute pacing.
func closeGameLineup(req Request, current []string) Result {
	best := BestFiveHealthy(req.Team)
	if len(best) < teams.LineupSlots {
		// Not enough healthy bodies; leave the lineup alone.
		return Result{Lineup: current}
	}

	onCourt := make(map[string]struct{}, len(current))
	for _, id := range current {
		onCourt[id] = struct{}{}
	}
	wanted := make(map[string]struct{}, len(best))
	for _, id := range best {
		wanted[id] = struct{}{}
	}

	var changes []Change
	lineup := append([]string(nil), current...)
	var incoming []string
	for _, id := range best {
		if _, ok := onCourt[id]; !ok {
			incoming = append(incoming, id)
		}
	}
	for i, id := range lineup {
		if len(incoming) == 0 {
			break
		}
		if _, keep := wanted[id]; keep {
			continue
		}
		changes = append(changes, Change{OutID: id, InID: incoming[0]})
		lineup[i] = incoming[0]
		incoming = incoming[1:]
	}
	return Result{Lineup: lineup, Changes: changes, CloseGameOverride: true}
}

// BestFiveHealthy returns the ids of the five highest-rated healthy players.
func BestFiveHealthy(team *teams.Team) []string {
	healthy := team.HealthyPlayers()
	sort.SliceStable(healthy, func(i, j int) bool {
		return healthy[i].OverallRating > healthy[j].OverallRating
	})
	if len(healthy) > teams.LineupSlots {
		healthy = healthy[:teams.LineupSlots]
	}
	ids := make([]string, 0, len(healthy))
	for _, p := range healthy {
		ids = append(ids, p.ID)
	}
	return ids
}

// elapsedMinutes converts quarter/clock into total game minutes played.
// Periods past regulation are 5-minute overtimes.
func elapsedMinutes(quarter int, timeRemaining float64) float64 {
	if quarter < 1 {
		quarter = 1
	}
	if quarter <= regulationQuarters {
		return float64(quarter-1)*quarterMinutes + (quarterMinutes - timeRemaining)
	}
	ot := float64(quarter-regulationQuarters-1) * overtimeMinutes
	return regulationTotalMinutes + ot + (overtimeMinutes - timeRemaining)
}

// sitCandidates finds on-court players ahead of their minute pace, sorted
// most-ahead first. The staggered strategy keeps at most one ball-handler in
// the batch.
func sitCandidates(req Request, strategy Strategy, elapsed float64) []*players.Player {
	type paced struct {
		player *players.Player
		delta  float64
	}
	var over []paced
	for _, id := range req.OnCourt {
		p, ok := req.Team.PlayerByID(id)
		if !ok {
			continue
		}
		target := req.TargetMinutes[id]
		expected := elapsed * (target / regulationTotalMinutes)
		delta := req.MinutesPlayed[id] - expected
		if delta > strategy.PaceThreshold {
			over = append(over, paced{player: p, delta: delta})
		}
	}
	sort.SliceStable(over, func(i, j int) bool {
		return over[i].delta > over[j].delta
	})

	out := make([]*players.Player, 0, len(over))
	handlerSat := false
	for _, c := range over {
		if strategy.StaggerBallHandlers && isBallHandler(c.player) {
			if handlerSat {
				continue
			}
			handlerSat = true
		}
		out = append(out, c.player)
	}
	return out
}

// bestReplacement picks the highest-rated healthy bench player who can cover
// the vacated position and still has minute budget left.
func bestReplacement(req Request, current []string, out *players.Player) *players.Player {
	onCourt := make(map[string]struct{}, len(current))
	for _, id := range current {
		onCourt[id] = struct{}{}
	}

	var best *players.Player
	for _, p := range req.Team.Players {
		if p == nil || p.IsInjured() {
			continue
		}
		if _, playing := onCourt[p.ID]; playing {
			continue
		}
		if !coversPosition(p, out) {
			continue
		}
		remaining := req.TargetMinutes[p.ID] - req.MinutesPlayed[p.ID]
		if remaining <= 0 {
			continue
		}
		if best == nil || p.OverallRating > best.OverallRating {
			best = p
		}
	}
	return best
}

// coversPosition accepts a bench player who plays the vacated player's
// primary or secondary position.
func coversPosition(in, out *players.Player) bool {
	if in.PlaysPosition(out.Position) {
		return true
	}
	return out.SecondaryPosition != "" && in.PlaysPosition(out.SecondaryPosition)
}
