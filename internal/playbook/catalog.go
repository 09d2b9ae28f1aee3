// Package playbook holds the play catalog, weighted play selection, and the
// play-executor contract consumed by the game simulator.
package playbook

import (
	"embed"
	"encoding/json"
	"fmt"
	"math"

	"github.com/courtside/franchise-sim/internal/domain/players"
)

//go:embed plays.json
var seedFS embed.FS

// Tempo classes for catalog filtering.
const (
	TempoTransition = "transition"
	TempoHalfcourt  = "halfcourt"
)

// Terminal outcomes an action-graph edge can resolve to.
const (
	TerminalMadeShot   = "made_shot"
	TerminalMissedShot = "missed_shot"
	TerminalTurnover   = "turnover"
)

// AttrRef names one attribute a node leans on.
type AttrRef struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

// Edge is one probabilistic outcome of a node: either a jump to another node
// or a terminal result.
type Edge struct {
	Probability float64 `json:"probability"`
	Next        int     `json:"next"`               // index into Nodes; -1 for terminal
	Terminal    string  `json:"terminal,omitempty"` // set when Next == -1
}

// Node is one step of a play's action graph.
type Node struct {
	Action       string    `json:"action"` // pass|screen|drive|cut|post_move|shot
	Duration     float64   `json:"duration"`
	Actor        string    `json:"actor"`
	Target       string    `json:"target,omitempty"`
	Required     []AttrRef `json:"requiredAttributes,omitempty"`
	ShotCategory string    `json:"shotCategory,omitempty"` // shot nodes only
	BadgeEffects []string  `json:"badgeEffects,omitempty"` // badge ids annotated on this node
	Edges        []Edge    `json:"edges"`
}

// Play is one catalog entry.
type Play struct {
	ID               string                        `json:"id"`
	Name             string                        `json:"name"`
	Category         string                        `json:"category"`
	Tags             []string                      `json:"tags,omitempty"`
	Difficulty       int                           `json:"difficulty"` // 0-100
	Tempo            string                        `json:"tempo"`
	PrimaryPositions []players.Position            `json:"primaryPositions"`
	Roles            map[string][]players.Position `json:"roles"`
	Nodes            []Node                        `json:"nodes"`
}

// HasTag reports whether the play carries a tag.
func (p *Play) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Catalog is the validated set of plays loaded at startup.
type Catalog struct {
	plays []Play
}

// Load parses and validates the embedded play catalog.
func Load() (*Catalog, error) {
	data, err := seedFS.ReadFile("plays.json")
	if err != nil {
		return nil, fmt.Errorf("read play catalog: %w", err)
	}
	return NewCatalog(data)
}

// NewCatalog builds a catalog from raw JSON, validating every play graph.
func NewCatalog(data []byte) (*Catalog, error) {
	var plays []Play
	if err := json.Unmarshal(data, &plays); err != nil {
		return nil, fmt.Errorf("parse play catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(plays))
	for i := range plays {
		p := &plays[i]
		if p.ID == "" {
			return nil, fmt.Errorf("play %d missing id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("duplicate play id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.Tempo != TempoTransition && p.Tempo != TempoHalfcourt {
			return nil, fmt.Errorf("play %q has unknown tempo %q", p.ID, p.Tempo)
		}
		if len(p.Nodes) == 0 {
			return nil, fmt.Errorf("play %q has no action nodes", p.ID)
		}
		if err := validateGraph(p); err != nil {
			return nil, fmt.Errorf("play %q: %w", p.ID, err)
		}
	}
	return &Catalog{plays: plays}, nil
}

func validateGraph(p *Play) error {
	for ni, n := range p.Nodes {
		if n.Actor == "" {
			return fmt.Errorf("node %d missing actor role", ni)
		}
		if _, ok := p.Roles[n.Actor]; !ok {
			return fmt.Errorf("node %d references unknown role %q", ni, n.Actor)
		}
		if n.Target != "" {
			if _, ok := p.Roles[n.Target]; !ok {
				return fmt.Errorf("node %d references unknown target role %q", ni, n.Target)
			}
		}
		if len(n.Edges) == 0 {
			return fmt.Errorf("node %d has no outcome edges", ni)
		}
		total := 0.0
		for ei, e := range n.Edges {
			if e.Probability <= 0 {
				return fmt.Errorf("node %d edge %d has non-positive probability", ni, ei)
			}
			total += e.Probability
			if e.Next == -1 {
				switch e.Terminal {
				case TerminalMadeShot, TerminalMissedShot, TerminalTurnover:
				default:
					return fmt.Errorf("node %d edge %d has unknown terminal %q", ni, ei, e.Terminal)
				}
			} else if e.Next <= ni || e.Next >= len(p.Nodes) {
				// Graphs only move forward; cycles would stall the executor.
				return fmt.Errorf("node %d edge %d jumps to invalid node %d", ni, ei, e.Next)
			}
		}
		if math.Abs(total-1.0) > 0.01 {
			return fmt.Errorf("node %d edge probabilities sum to %f", ni, total)
		}
	}
	return nil
}

// Plays returns the full catalog.
func (c *Catalog) Plays() []Play {
	return c.plays
}

// PlayByID finds a catalog entry.
func (c *Catalog) PlayByID(id string) (*Play, bool) {
	for i := range c.plays {
		if c.plays[i].ID == id {
			return &c.plays[i], true
		}
	}
	return nil, false
}

// Len reports the number of plays.
func (c *Catalog) Len() int {
	return len(c.plays)
}
