package games

import "errors"

// ErrGameNotFound is returned when a saved game id has no stored state.
var ErrGameNotFound = errors.New("game not found")
