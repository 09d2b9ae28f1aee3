package sim

import (
	"sort"

	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/domain/teams"
	"github.com/courtside/franchise-sim/internal/rotation"
	"github.com/courtside/franchise-sim/internal/rng"
)

// Target-minute variance and clamps.
const (
	minutesVariance    = 0.15
	starterMinuteFloor = 8.0
	starterFloorTarget = 20.0
)

// buildLineup resolves a team's starting five: an explicit lineup wins when
// it validates, then saved starters, then auto-selection by position. A bad
// explicit lineup silently falls back rather than failing the game.
func buildLineup(team *teams.Team, explicit []string) []string {
	if team.ValidStarters(explicit) {
		return append([]string(nil), explicit...)
	}
	if team.ValidStarters(team.LineupSettings.Starters) {
		return append([]string(nil), team.LineupSettings.Starters...)
	}
	return autoSelectLineup(team)
}

var lineupPositions = []players.Position{
	players.PointGuard, players.ShootingGuard, players.SmallForward,
	players.PowerForward, players.Center,
}

// autoSelectLineup fills each position with the best available player,
// preferring healthy players, then tops up remaining slots by rating.
func autoSelectLineup(team *teams.Team) []string {
	taken := make(map[string]struct{}, teams.LineupSlots)
	lineup := make([]string, 0, teams.LineupSlots)

	for _, pos := range lineupPositions {
		if p := bestAtPosition(team, pos, taken, true); p != nil {
			lineup = append(lineup, p.ID)
			taken[p.ID] = struct{}{}
			continue
		}
		if p := bestAtPosition(team, pos, taken, false); p != nil {
			lineup = append(lineup, p.ID)
			taken[p.ID] = struct{}{}
		}
	}

	// Thin rosters: fill out the five with the best remaining bodies.
	if len(lineup) < teams.LineupSlots {
		rest := make([]*players.Player, 0, len(team.Players))
		for _, p := range team.Players {
			if p == nil {
				continue
			}
			if _, ok := taken[p.ID]; ok {
				continue
			}
			rest = append(rest, p)
		}
		sort.SliceStable(rest, func(i, j int) bool {
			if rest[i].IsInjured() != rest[j].IsInjured() {
				return !rest[i].IsInjured()
			}
			return rest[i].OverallRating > rest[j].OverallRating
		})
		for _, p := range rest {
			if len(lineup) == teams.LineupSlots {
				break
			}
			lineup = append(lineup, p.ID)
			taken[p.ID] = struct{}{}
		}
	}
	return lineup
}

// bestAtPosition prefers the highest-rated unpicked player who covers the
// position; requireHealthy narrows the pool to uninjured players.
func bestAtPosition(team *teams.Team, pos players.Position, taken map[string]struct{}, requireHealthy bool) *players.Player {
	var best *players.Player
	for _, p := range team.Players {
		if p == nil {
			continue
		}
		if _, ok := taken[p.ID]; ok {
			continue
		}
		if requireHealthy && p.IsInjured() {
			continue
		}
		if !p.PlaysPosition(pos) {
			continue
		}
		if best == nil || p.OverallRating > best.OverallRating {
			best = p
		}
	}
	return best
}

// resolveTargetMinutes picks the minute budget source (explicit override >
// saved settings > strategy defaults) and applies per-player random variance.
func (s *Simulator) resolveTargetMinutes(rt *teamRuntime) map[string]float64 {
	var base map[string]float64
	if override, ok := s.opts.TargetMinutes[rt.team.ID]; ok && len(override) > 0 {
		base = override
	} else if len(rt.team.LineupSettings.TargetMinutes) > 0 {
		base = rt.team.LineupSettings.TargetMinutes
	} else {
		base = rotation.DefaultTargetMinutes(rt.team, rt.strategy)
	}

	starters := make(map[string]struct{}, len(rt.lineup))
	for _, id := range rt.lineup {
		starters[id] = struct{}{}
	}

	resolved := make(map[string]float64, len(base))
	for id, target := range base {
		m := target * (1 + rng.Range(s.src, -minutesVariance, minutesVariance))
		if _, starter := starters[id]; starter && target >= starterFloorTarget && m < starterMinuteFloor {
			m = starterMinuteFloor
		}
		if m > rotation.MaxPlayerMinutes {
			m = rotation.MaxPlayerMinutes
		}
		if m < 0 {
			m = 0
		}
		resolved[id] = m
	}
	return resolved
}

// lineupPlayers maps lineup ids onto roster records, skipping unknown ids.
func lineupPlayers(team *teams.Team, ids []string) []*players.Player {
	out := make([]*players.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := team.PlayerByID(id); ok {
			out = append(out, p)
		}
	}
	return out
}
