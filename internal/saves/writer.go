// Package saves exports game saves and daily result snapshots to disk so a
// franchise can be inspected or backed up outside the running service.
package saves

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	domaingames "github.com/courtside/franchise-sim/internal/domain/games"
	"github.com/courtside/franchise-sim/internal/timeutil"
)

// Writer persists save files and result snapshots with pruning.
type Writer struct {
	basePath      string
	retentionDays int
}

// NewWriter constructs a writer rooted at basePath with a rolling window
// retention for daily result snapshots.
func NewWriter(basePath string, retentionDays int) *Writer {
	if retentionDays <= 0 {
		retentionDays = 14
	}
	return &Writer{
		basePath:      basePath,
		retentionDays: retentionDays,
	}
}

// BasePath exposes the writer root path (primarily for testing).
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WriteSaveFile exports one in-progress game state, replacing any previous
// file for the same game id.
func (w *Writer) WriteSaveFile(state domaingames.State) error {
	if w == nil {
		return fmt.Errorf("save writer not configured")
	}
	if state.GameID == "" {
		return fmt.Errorf("game id required")
	}
	data, err := state.Encode()
	if err != nil {
		return err
	}
	if err := w.writeAtomic(SaveFilePath(w.basePath, state.GameID), data); err != nil {
		return err
	}
	return w.updateSavesManifest()
}

// ReadSaveFile loads one exported game state.
func (w *Writer) ReadSaveFile(gameID string) (domaingames.State, error) {
	data, err := os.ReadFile(SaveFilePath(w.basePath, gameID))
	if err != nil {
		return domaingames.State{}, err
	}
	return domaingames.DecodeState(data)
}

// RemoveSaveFile deletes one exported game state. Missing files are ignored.
func (w *Writer) RemoveSaveFile(gameID string) error {
	if err := os.Remove(SaveFilePath(w.basePath, gameID)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return w.updateSavesManifest()
}

// WriteResultSnapshot writes the day's completed results (YYYY-MM-DD) and
// prunes snapshots past the retention window.
func (w *Writer) WriteResultSnapshot(date string, results []domaingames.Result) error {
	if w == nil {
		return fmt.Errorf("save writer not configured")
	}
	if date == "" {
		return fmt.Errorf("date required")
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].GameID < results[j].GameID
	})
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}

	target := ResultSnapshotPath(w.basePath, date)
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return w.updateResultsManifest(date)
	}
	if err := w.writeAtomic(target, data); err != nil {
		return err
	}
	return w.updateResultsManifest(date)
}

func (w *Writer) writeAtomic(target string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

func (w *Writer) updateSavesManifest() error {
	manifestPath := filepath.Join(w.basePath, "manifest.json")
	m, _ := readManifest(manifestPath, w.retentionDays)

	ids, err := w.listJSONNames("games")
	if err != nil {
		return err
	}
	m.Saves.GameIDs = ids
	m.Saves.LastWritten = time.Now().UTC()
	return writeManifest(w.basePath, m)
}

func (w *Writer) updateResultsManifest(date string) error {
	manifestPath := filepath.Join(w.basePath, "manifest.json")
	m, _ := readManifest(manifestPath, w.retentionDays)

	dates, err := w.listJSONNames("results")
	if err != nil {
		return err
	}
	if !containsString(dates, date) {
		dates = append(dates, date)
	}
	pruned, err := w.pruneOldResults(dates)
	if err != nil {
		return err
	}
	m.Results.Dates = pruned
	m.Results.LastRefreshed = time.Now().UTC()
	m.Retention.ResultDays = w.retentionDays
	return writeManifest(w.basePath, m)
}

func containsString(items []string, v string) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}

func (w *Writer) listJSONNames(subdir string) ([]string, error) {
	dir := filepath.Join(w.basePath, subdir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var (
		names []string
		seen  = make(map[string]struct{})
	)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}
		base := name[:len(name)-len(".json")]
		if _, ok := seen[base]; ok {
			continue
		}
		seen[base] = struct{}{}
		names = append(names, base)
	}
	sort.Strings(names)
	return names, nil
}

func (w *Writer) pruneOldResults(dates []string) ([]string, error) {
	now := time.Now().UTC()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -w.retentionDays)
	var keep []string
	for _, d := range dates {
		parsed, err := timeutil.ParseDate(d)
		if err != nil {
			keep = append(keep, d)
			continue
		}
		if parsed.Before(cutoff) {
			_ = os.Remove(ResultSnapshotPath(w.basePath, d))
			continue
		}
		keep = append(keep, d)
	}
	sort.Strings(keep)
	return keep, nil
}
