// Package rotation decides substitutions from pace-vs-target-minutes drift
// and generates default minute allocations per substitution strategy.
package rotation

import (
	"sort"

	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/domain/teams"
)

// Substitution strategy names.
const (
	StrategyStandard  = "standard"
	StrategyStaggered = "staggered"
	StrategyDeepBench = "deep_bench"
)

// MaxPlayerMinutes caps any single allocation.
const MaxPlayerMinutes = 40.0

// Strategy bundles the knobs one substitution style tunes.
type Strategy struct {
	Name string

	// Template is the minute allocation by roster rank (rating order).
	// Players beyond the template get zero.
	Template []float64

	// PaceThreshold is how many minutes ahead of pace a player must be
	// before becoming a sit candidate.
	PaceThreshold float64

	// MaxSubsPerCheck caps swaps per rotation check.
	MaxSubsPerCheck int

	// StaggerBallHandlers forbids sitting more than one primary
	// ball-handler (PG/SG) in the same check.
	StaggerBallHandlers bool
}

var strategies = map[string]Strategy{
	StrategyStandard: {
		Name:            StrategyStandard,
		Template:        []float64{36, 34, 32, 30, 28, 16, 12, 8, 4},
		PaceThreshold:   2.5,
		MaxSubsPerCheck: 2,
	},
	StrategyStaggered: {
		Name:                StrategyStaggered,
		Template:            []float64{34, 32, 30, 28, 26, 14, 12, 10, 8, 6},
		PaceThreshold:       2.0,
		MaxSubsPerCheck:     2,
		StaggerBallHandlers: true,
	},
	StrategyDeepBench: {
		Name:            StrategyDeepBench,
		Template:        []float64{32, 30, 28, 26, 24, 14, 12, 10, 9, 8, 7},
		PaceThreshold:   1.5,
		MaxSubsPerCheck: 3,
	},
}

// StrategyByName resolves a strategy, defaulting unknown names to standard.
func StrategyByName(name string) Strategy {
	if s, ok := strategies[name]; ok {
		return s
	}
	return strategies[StrategyStandard]
}

// StrategyNames lists all strategies.
func StrategyNames() []string {
	return []string{StrategyStandard, StrategyStaggered, StrategyDeepBench}
}

// Rating bonuses applied to the template before normalization. Elite starters
// earn a little extra floor time.
const (
	eliteStarterRating = 88
	eliteStarterBonus  = 2.0
	goodStarterRating  = 82
	goodStarterBonus   = 1.0
)

// DefaultTargetMinutes distributes the team minute budget over the healthy
// roster by rating rank using the strategy's template, then normalizes the
// total to exactly teams.TargetMinutesTotal. Injured players get zero.
func DefaultTargetMinutes(team *teams.Team, strategyName string) map[string]float64 {
	strategy := StrategyByName(strategyName)

	healthy := team.HealthyPlayers()
	sort.SliceStable(healthy, func(i, j int) bool {
		return healthy[i].OverallRating > healthy[j].OverallRating
	})

	minutes := make(map[string]float64, len(team.Players))
	for _, p := range team.Players {
		if p != nil {
			minutes[p.ID] = 0
		}
	}
	for rank, p := range healthy {
		if rank >= len(strategy.Template) {
			break
		}
		m := strategy.Template[rank]
		if rank < teams.LineupSlots {
			if p.OverallRating >= eliteStarterRating {
				m += eliteStarterBonus
			} else if p.OverallRating >= goodStarterRating {
				m += goodStarterBonus
			}
		}
		minutes[p.ID] = m
	}

	normalizeMinutes(minutes)
	return minutes
}

// normalizeMinutes rescales positive allocations so they sum to exactly the
// team budget, respecting the per-player cap. Capped minutes spill over to
// uncapped players in a second pass.
func normalizeMinutes(minutes map[string]float64) {
	ids := make([]string, 0, len(minutes))
	sum := 0.0
	for id, m := range minutes {
		if m > 0 {
			ids = append(ids, id)
			sum += m
		}
	}
	if sum <= 0 {
		return
	}
	sort.Strings(ids)

	scale := teams.TargetMinutesTotal / sum
	overflow := 0.0
	uncapped := make([]string, 0, len(ids))
	for _, id := range ids {
		m := minutes[id] * scale
		if m > MaxPlayerMinutes {
			overflow += m - MaxPlayerMinutes
			m = MaxPlayerMinutes
		} else {
			uncapped = append(uncapped, id)
		}
		minutes[id] = m
	}
	for overflow > 1e-9 && len(uncapped) > 0 {
		share := overflow / float64(len(uncapped))
		overflow = 0
		next := uncapped[:0]
		for _, id := range uncapped {
			m := minutes[id] + share
			if m > MaxPlayerMinutes {
				overflow += m - MaxPlayerMinutes
				m = MaxPlayerMinutes
			} else {
				next = append(next, id)
			}
			minutes[id] = m
		}
		uncapped = next
	}
}

// isBallHandler reports whether a player primarily runs the offense.
func isBallHandler(p *players.Player) bool {
	return p.Position == players.PointGuard || p.Position == players.ShootingGuard
}
