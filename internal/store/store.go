// Package store persists resumable game states behind a small interface so
// the server can swap the in-memory backend for SQLite via configuration.
package store

import (
	"context"

	"github.com/courtside/franchise-sim/internal/domain/games"
)

// SavedGameStore holds serialized in-progress games keyed by game id.
type SavedGameStore interface {
	// Put inserts or replaces the state for its game id.
	Put(ctx context.Context, state games.State) error
	// Get returns the state and whether it exists.
	Get(ctx context.Context, gameID string) (games.State, bool, error)
	// List returns every saved state.
	List(ctx context.Context) ([]games.State, error)
	// Delete removes a saved state. Deleting a missing id is not an error.
	Delete(ctx context.Context, gameID string) error
	// Close releases backend resources.
	Close() error
}
