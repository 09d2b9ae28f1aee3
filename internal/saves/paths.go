package saves

import (
	"fmt"
	"path/filepath"
)

// SaveFilePath builds the path to one game's save file.
func SaveFilePath(basePath, gameID string) string {
	return filepath.Join(basePath, "games", fmt.Sprintf("%s.json", gameID))
}

// ResultSnapshotPath builds the path to a day's results snapshot.
func ResultSnapshotPath(basePath, date string) string {
	return filepath.Join(basePath, "results", fmt.Sprintf("%s.json", date))
}
