package evolution

import (
	"github.com/courtside/franchise-sim/internal/domain/players"
)

// Rest-day recovery. Stamina speeds recovery the same way it slows in-game
// fatigue accumulation.
const (
	restDayRecovery       = 12.0
	restStaminaDivisor    = 100.0
	restInjuredMultiplier = 1.25
)

// ProcessRestDay returns a clone of the player with one day of fatigue
// recovery applied. Injured players recover slightly faster since they are
// not practicing.
func (p *Pipeline) ProcessRestDay(original *players.Player) *players.Player {
	pl := original.Clone()
	recovery := restDayRecovery * (float64(pl.Attributes.Get(players.CategoryPhysical, "stamina")) / restStaminaDivisor)
	if pl.IsInjured() {
		recovery *= restInjuredMultiplier
	}
	pl.Fatigue -= recovery
	pl.ClampFatigue()
	return pl
}

// ProcessMultiDayRest applies consecutive rest days, such as the all-star
// break, in one call.
func (p *Pipeline) ProcessMultiDayRest(original *players.Player, days int) *players.Player {
	pl := original.Clone()
	for i := 0; i < days; i++ {
		next := p.ProcessRestDay(pl)
		pl = next
	}
	return pl
}
