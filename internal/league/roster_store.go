package league

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/domain/teams"
)

// MemoryRosterStore holds the league rosters the clock recovers between
// games. Registered teams are deep-copied so callers keep their originals.
type MemoryRosterStore struct {
	mu    sync.RWMutex
	teams map[string]*teams.Team
}

// NewMemoryRosterStore constructs an empty roster registry.
func NewMemoryRosterStore() *MemoryRosterStore {
	return &MemoryRosterStore{teams: make(map[string]*teams.Team)}
}

// Register adds or replaces league rosters.
func (s *MemoryRosterStore) Register(rosters ...*teams.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, team := range rosters {
		if team == nil || team.ID == "" {
			return fmt.Errorf("roster needs a team id")
		}
		s.teams[team.ID] = cloneTeam(team)
	}
	return nil
}

// Rosters returns the registered teams sorted by id.
func (s *MemoryRosterStore) Rosters(context.Context) ([]*teams.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*teams.Team, 0, len(s.teams))
	for _, team := range s.teams {
		out = append(out, team)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdatePlayers swaps updated player copies into their rosters by id.
func (s *MemoryRosterStore) UpdatePlayers(_ context.Context, updated map[string]*players.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, team := range s.teams {
		for i, pl := range team.Players {
			if pl == nil {
				continue
			}
			if next, ok := updated[pl.ID]; ok && next != nil {
				team.Players[i] = next
			}
		}
	}
	return nil
}

// Team returns one registered roster.
func (s *MemoryRosterStore) Team(id string) (*teams.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, ok := s.teams[id]
	if !ok {
		return nil, false
	}
	return cloneTeam(team), true
}

// Len reports how many rosters are registered.
func (s *MemoryRosterStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.teams)
}

func cloneTeam(team *teams.Team) *teams.Team {
	copied := *team
	copied.Players = make([]*players.Player, 0, len(team.Players))
	for _, pl := range team.Players {
		if pl == nil {
			continue
		}
		copied.Players = append(copied.Players, pl.Clone())
	}
	return &copied
}
