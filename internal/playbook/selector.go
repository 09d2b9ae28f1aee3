package playbook

import (
	"fmt"

	"github.com/courtside/franchise-sim/internal/coaching"
	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/rng"
)

// Situation carries the game context weighing on play selection.
type Situation struct {
	OnCourt    []*players.Player
	Scheme     coaching.OffensiveScheme
	Transition bool
	ShotClock  float64 // seconds remaining on the shot clock
	ScoreDiff  int     // offense score minus defense score
}

// Selection thresholds and boosts.
const (
	lateClockSeconds = 8.0
	lateClockBoost   = 1.5
	trailingMargin   = 10
	trailingBoost    = 1.3

	offPositionFactor = 0.5
	difficultyFloor   = 0.5
)

// Select draws one play from the catalog by weighted random choice. The
// catalog is filtered by tempo first; an empty tempo slice falls back to the
// whole catalog so selection never stalls.
func (c *Catalog) Select(sit Situation, src rng.Source) (*Play, error) {
	if c.Len() == 0 {
		return nil, fmt.Errorf("play catalog is empty")
	}

	tempo := TempoHalfcourt
	if sit.Transition {
		tempo = TempoTransition
	}
	candidates := c.byTempo(tempo)
	if len(candidates) == 0 {
		candidates = make([]*Play, 0, c.Len())
		for i := range c.plays {
			candidates = append(candidates, &c.plays[i])
		}
	}

	avgIQ := averageIQ(sit.OnCourt)
	weights := make([]float64, len(candidates))
	for i, p := range candidates {
		weights[i] = playWeight(p, sit, avgIQ)
	}

	idx := rng.WeightedIndex(src, weights)
	if idx < 0 {
		// All weights collapsed to zero; pick uniformly.
		idx = src.Intn(len(candidates))
	}
	return candidates[idx], nil
}

func (c *Catalog) byTempo(tempo string) []*Play {
	var out []*Play
	for i := range c.plays {
		if c.plays[i].Tempo == tempo {
			out = append(out, &c.plays[i])
		}
	}
	return out
}

// playWeight composes the situational weight for one candidate play.
func playWeight(p *Play, sit Situation, avgIQ float64) float64 {
	w := schemeWeight(sit.Scheme, p.Category)

	w *= positionFit(p, sit.OnCourt)

	penalty := 1.0 - (float64(p.Difficulty)-avgIQ)/100.0
	if penalty < difficultyFloor {
		penalty = difficultyFloor
	}
	w *= penalty

	if sit.ShotClock > 0 && sit.ShotClock < lateClockSeconds {
		if p.Category == coaching.PlayIsolation || p.Category == coaching.PlaySpotUp {
			w *= lateClockBoost
		}
	}
	if sit.ScoreDiff < -trailingMargin {
		if p.Category == coaching.PlayIsolation || p.HasTag(coaching.PlayThreePoint) {
			w *= trailingBoost
		}
	}
	return w
}

func schemeWeight(scheme coaching.OffensiveScheme, category string) float64 {
	if w, ok := scheme.PlayWeights[category]; ok {
		return w
	}
	return 1.0
}

// positionFit is 1.0 when any on-court player plays one of the play's primary
// positions, else 0.5.
func positionFit(p *Play, onCourt []*players.Player) float64 {
	for _, pos := range p.PrimaryPositions {
		for _, pl := range onCourt {
			if pl != nil && pl.PlaysPosition(pos) {
				return 1.0
			}
		}
	}
	return offPositionFactor
}

func averageIQ(onCourt []*players.Player) float64 {
	if len(onCourt) == 0 {
		return float64(players.DefaultAttribute)
	}
	total := 0.0
	count := 0
	for _, pl := range onCourt {
		if pl == nil {
			continue
		}
		total += float64(pl.Attributes.Get(players.CategoryMental, "basketballIQ"))
		count++
	}
	if count == 0 {
		return float64(players.DefaultAttribute)
	}
	return total / float64(count)
}
