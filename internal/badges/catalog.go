// Package badges holds the validated badge and synergy registries plus the
// scoring helpers used by the simulator and the evolution pipeline.
//
// The registries load once at startup from embedded seed data. Lookups fail
// loudly on unknown badge ids instead of silently contributing zero effect.
package badges

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/courtside/franchise-sim/internal/domain/players"
)

//go:embed badges.json synergies.json
var seedFS embed.FS

// Shot categories badges filter on.
const (
	ShotThreePoint = "three_point"
	ShotMidRange   = "mid_range"
	ShotPaint      = "paint"
)

// Effect is one badge's tiered numeric effect, filtered by shot category.
type Effect struct {
	ID         string                        `json:"id"`
	Name       string                        `json:"name"`
	Categories []string                      `json:"categories"`
	Tiers      map[players.BadgeTier]float64 `json:"tiers"`
}

// AppliesTo reports whether the badge affects the given shot category.
func (e Effect) AppliesTo(category string) bool {
	for _, c := range e.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Synergy links two badges to an effect; it is symmetric across teammates.
type Synergy struct {
	BadgeA    string  `json:"badgeA"`
	BadgeB    string  `json:"badgeB"`
	Effect    string  `json:"effect"`
	Magnitude float64 `json:"magnitude"`
}

// Matches reports whether the pair (in either order) triggers this synergy.
func (s Synergy) Matches(a, b string) bool {
	return (s.BadgeA == a && s.BadgeB == b) || (s.BadgeA == b && s.BadgeB == a)
}

// Registry is the validated badge catalog and synergy graph.
type Registry struct {
	effects   map[string]Effect
	synergies []Synergy
}

// Load parses and validates the embedded seed catalogs.
func Load() (*Registry, error) {
	badgeData, err := seedFS.ReadFile("badges.json")
	if err != nil {
		return nil, fmt.Errorf("read badge catalog: %w", err)
	}
	synergyData, err := seedFS.ReadFile("synergies.json")
	if err != nil {
		return nil, fmt.Errorf("read synergy catalog: %w", err)
	}
	return NewRegistry(badgeData, synergyData)
}

// NewRegistry builds a registry from raw catalog JSON, validating every entry.
func NewRegistry(badgeData, synergyData []byte) (*Registry, error) {
	var effects []Effect
	if err := json.Unmarshal(badgeData, &effects); err != nil {
		return nil, fmt.Errorf("parse badge catalog: %w", err)
	}

	reg := &Registry{effects: make(map[string]Effect, len(effects))}
	for _, e := range effects {
		if e.ID == "" {
			return nil, fmt.Errorf("badge catalog entry missing id (name %q)", e.Name)
		}
		if _, dup := reg.effects[e.ID]; dup {
			return nil, fmt.Errorf("duplicate badge id %q", e.ID)
		}
		if len(e.Tiers) == 0 {
			return nil, fmt.Errorf("badge %q has no tier effects", e.ID)
		}
		for tier := range e.Tiers {
			if players.TierRank(tier) == 0 {
				return nil, fmt.Errorf("badge %q has unknown tier %q", e.ID, tier)
			}
		}
		reg.effects[e.ID] = e
	}

	var synergies []Synergy
	if err := json.Unmarshal(synergyData, &synergies); err != nil {
		return nil, fmt.Errorf("parse synergy catalog: %w", err)
	}
	for _, s := range synergies {
		if _, err := reg.Effect(s.BadgeA); err != nil {
			return nil, fmt.Errorf("synergy %q/%q: %w", s.BadgeA, s.BadgeB, err)
		}
		if _, err := reg.Effect(s.BadgeB); err != nil {
			return nil, fmt.Errorf("synergy %q/%q: %w", s.BadgeA, s.BadgeB, err)
		}
	}
	reg.synergies = synergies
	return reg, nil
}

// Effect returns the catalog entry for a badge id, failing on unknown ids.
func (r *Registry) Effect(id string) (Effect, error) {
	e, ok := r.effects[id]
	if !ok {
		return Effect{}, fmt.Errorf("unknown badge id %q", id)
	}
	return e, nil
}

// Synergies returns every synergy involving the given badge id.
func (r *Registry) Synergies(badgeID string) []Synergy {
	var out []Synergy
	for _, s := range r.synergies {
		if s.BadgeA == badgeID || s.BadgeB == badgeID {
			out = append(out, s)
		}
	}
	return out
}

// AllSynergies returns the full synergy graph.
func (r *Registry) AllSynergies() []Synergy {
	return r.synergies
}

// Len reports the number of badge entries (used by startup validation logs).
func (r *Registry) Len() int {
	return len(r.effects)
}
