// Package http wires the handler set into a routed, instrumented handler.
package http

import (
	"log/slog"
	"net/http"

	"github.com/courtside/franchise-sim/internal/http/handlers"
	"github.com/courtside/franchise-sim/internal/http/middleware"
	"github.com/courtside/franchise-sim/internal/metrics"
)

// NewRouter assembles the API routes behind the logging middleware.
func NewRouter(h *handlers.Handler, logger *slog.Logger, recorder *metrics.Recorder) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/ready", h.Ready)

	mux.HandleFunc("/games/simulate", h.SimulateGame)
	mux.HandleFunc("/games", h.Games)
	mux.HandleFunc("/games/", h.GameByID)

	mux.HandleFunc("/league/rosters", h.Rosters)

	mux.HandleFunc("/evolution/post-game", h.PostGame)
	mux.HandleFunc("/evolution/weekly", h.Weekly)
	mux.HandleFunc("/evolution/monthly", h.Monthly)
	mux.HandleFunc("/evolution/season-end", h.SeasonEnd)
	mux.HandleFunc("/evolution/rest-day", h.RestDay)

	return middleware.LoggingMiddleware(logger, recorder, mux)
}
