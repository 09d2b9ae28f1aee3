package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/courtside/franchise-sim/internal/domain/games"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS saved_games (
	game_id    TEXT PRIMARY KEY,
	state      TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// SQLiteStore persists saved games in a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed initializes) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, state games.State) error {
	data, err := state.Encode()
	if err != nil {
		return fmt.Errorf("encode state %s: %w", state.GameID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saved_games (game_id, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		state.GameID, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put state %s: %w", state.GameID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, gameID string) (games.State, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM saved_games WHERE game_id = ?`, gameID).Scan(&data)
	if err == sql.ErrNoRows {
		return games.State{}, false, nil
	}
	if err != nil {
		return games.State{}, false, fmt.Errorf("get state %s: %w", gameID, err)
	}
	st, err := games.DecodeState([]byte(data))
	if err != nil {
		return games.State{}, false, err
	}
	return st, true, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]games.State, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT state FROM saved_games ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	defer rows.Close()

	var result []games.State
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan state row: %w", err)
		}
		st, err := games.DecodeState([]byte(data))
		if err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate state rows: %w", err)
	}
	return result, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, gameID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM saved_games WHERE game_id = ?`, gameID); err != nil {
		return fmt.Errorf("delete state %s: %w", gameID, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
