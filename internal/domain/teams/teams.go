// Package teams defines the team record handed to the simulator.
package teams

import "github.com/courtside/franchise-sim/internal/domain/players"

// LineupSlots is the number of on-court players per team.
const LineupSlots = 5

// TargetMinutesTotal is the per-team minute budget (5 players x 40 minutes).
const TargetMinutesTotal = 200.0

// CoachingScheme names the three scheme axes a coach controls.
type CoachingScheme struct {
	Offensive    string `json:"offensive"`
	Defensive    string `json:"defensive"`
	Substitution string `json:"substitution"`
}

// LineupSettings carries saved starters and minute budgets.
// Starters has exactly LineupSlots entries; empty strings are open slots.
type LineupSettings struct {
	Starters      []string           `json:"starters,omitempty"`
	TargetMinutes map[string]float64 `json:"targetMinutes,omitempty"`
}

// Team is the roster + scheme record supplied to the simulator.
type Team struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Players        []*players.Player `json:"players"`
	CoachingScheme CoachingScheme    `json:"coachingScheme"`
	LineupSettings LineupSettings    `json:"lineupSettings"`
}

// PlayerByID finds a roster player.
func (t *Team) PlayerByID(id string) (*players.Player, bool) {
	for _, p := range t.Players {
		if p != nil && p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// HealthyPlayers returns roster players without an active injury.
func (t *Team) HealthyPlayers() []*players.Player {
	out := make([]*players.Player, 0, len(t.Players))
	for _, p := range t.Players {
		if p != nil && !p.IsInjured() {
			out = append(out, p)
		}
	}
	return out
}

// AverageMorale returns the roster morale mean, defaulting to 80 when the
// roster is empty or carries no morale data.
func (t *Team) AverageMorale() float64 {
	const defaultMorale = 80.0
	if len(t.Players) == 0 {
		return defaultMorale
	}
	sum := 0
	counted := 0
	for _, p := range t.Players {
		if p == nil {
			continue
		}
		morale := p.Personality.Morale
		if morale <= 0 {
			morale = int(defaultMorale)
		}
		sum += morale
		counted++
	}
	if counted == 0 {
		return defaultMorale
	}
	return float64(sum) / float64(counted)
}

// ValidStarters reports whether saved starters name LineupSlots distinct,
// present roster players.
func (t *Team) ValidStarters(ids []string) bool {
	if len(ids) != LineupSlots {
		return false
	}
	seen := make(map[string]struct{}, LineupSlots)
	for _, id := range ids {
		if id == "" {
			return false
		}
		if _, dup := seen[id]; dup {
			return false
		}
		if _, ok := t.PlayerByID(id); !ok {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}
