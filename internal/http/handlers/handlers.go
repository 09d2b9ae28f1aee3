// Package handlers implements the HTTP API: game simulation, saved game
// management, and the evolution passes.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	appevolution "github.com/courtside/franchise-sim/internal/app/evolution"
	appgames "github.com/courtside/franchise-sim/internal/app/games"
	"github.com/courtside/franchise-sim/internal/domain/teams"
	"github.com/courtside/franchise-sim/internal/evolution"
	"github.com/courtside/franchise-sim/internal/league"
	"github.com/courtside/franchise-sim/internal/logging"
)

const maxRequestBody = 4 << 20

// Handler serves the API endpoints.
type Handler struct {
	games     *appgames.Service
	evolution *appevolution.Service
	rosters   *league.MemoryRosterStore
	logger    *slog.Logger
	statusFn  func() league.Status
}

// New constructs the handler set. statusFn may be nil when no league clock is
// running; readiness then only reflects process liveness.
func New(games *appgames.Service, evo *appevolution.Service, rosters *league.MemoryRosterStore, logger *slog.Logger, statusFn func() league.Status) *Handler {
	return &Handler{games: games, evolution: evo, rosters: rosters, logger: logger, statusFn: statusFn}
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports whether the service can do useful work.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.statusFn != nil {
		status := h.statusFn()
		if !status.IsReady() {
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]any{
				"status":              "not ready",
				"consecutiveFailures": status.ConsecutiveFailures,
				"lastError":           status.LastError,
			})
			return
		}
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

// SimulateGame runs a one-shot full game simulation.
func (h *Handler) SimulateGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req appgames.SimulateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.HomeTeam == nil || req.AwayTeam == nil {
		writeError(w, r, http.StatusBadRequest, "homeTeam and awayTeam are required")
		return
	}
	result, err := h.games.SimulateGame(r.Context(), req)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// Games handles the saved game collection: POST creates, GET lists.
func (h *Handler) Games(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req appgames.SimulateRequest
		if !h.decode(w, r, &req) {
			return
		}
		if req.HomeTeam == nil || req.AwayTeam == nil {
			writeError(w, r, http.StatusBadRequest, "homeTeam and awayTeam are required")
			return
		}
		state, err := h.games.CreateGame(r.Context(), req)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, r, http.StatusCreated, state)
	case http.MethodGet:
		states, err := h.games.ListGames(r.Context())
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "listing saved games failed")
			return
		}
		writeJSON(w, r, http.StatusOK, states)
	default:
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// GameByID routes /games/{id} and /games/{id}/quarter.
func (h *Handler) GameByID(w http.ResponseWriter, r *http.Request) {
	id, action, err := parseGamePath(r.URL.Path)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.getGame(w, r, id)
	case action == "" && r.Method == http.MethodDelete:
		h.deleteGame(w, r, id)
	case action == "quarter" && r.Method == http.MethodPost:
		h.simulateQuarter(w, r, id)
	case action == "":
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	default:
		writeError(w, r, http.StatusNotFound, "not found")
	}
}

func (h *Handler) getGame(w http.ResponseWriter, r *http.Request, id string) {
	state, ok, err := h.games.GetGame(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "loading saved game failed")
		return
	}
	if !ok {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("game %s not found", id))
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

func (h *Handler) deleteGame(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.games.DeleteGame(r.Context(), id); err != nil {
		writeError(w, r, http.StatusInternalServerError, "deleting saved game failed")
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (h *Handler) simulateQuarter(w http.ResponseWriter, r *http.Request, id string) {
	var req appgames.SimulateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.HomeTeam == nil || req.AwayTeam == nil {
		writeError(w, r, http.StatusBadRequest, "homeTeam and awayTeam are required")
		return
	}
	quarter, state, err := h.games.SimulateQuarter(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, appgames.ErrGameNotFound) {
			writeError(w, r, http.StatusNotFound, fmt.Sprintf("game %s not found", id))
			return
		}
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"quarter": quarter,
		"state":   state,
	})
}

// PostGame runs the per-game evolution pass.
func (h *Handler) PostGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req evolution.PostGameRequest
	if !h.decode(w, r, &req) {
		return
	}
	start := time.Now()
	out, err := h.evolution.PostGame(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	logging.Info(loggerFromRequest(r), "evolution pass served",
		slog.String("pass", appevolution.PassPostGame),
		slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
	)
	writeJSON(w, r, http.StatusOK, out)
}

// Weekly runs the weekly recovery and upgrade pass.
func (h *Handler) Weekly(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req evolution.WeeklyRequest
	if !h.decode(w, r, &req) {
		return
	}
	out, err := h.evolution.Weekly(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

// Monthly runs the monthly development pass.
func (h *Handler) Monthly(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req evolution.MonthlyRequest
	if !h.decode(w, r, &req) {
		return
	}
	out, err := h.evolution.Monthly(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

// SeasonEnd runs the offseason pass.
func (h *Handler) SeasonEnd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req evolution.SeasonEndRequest
	if !h.decode(w, r, &req) {
		return
	}
	out, err := h.evolution.SeasonEnd(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

// RestDay applies rest recovery to posted players.
func (h *Handler) RestDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req appevolution.RestDayRequest
	if !h.decode(w, r, &req) {
		return
	}
	out, err := h.evolution.RestDay(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

// Rosters manages the league roster registry backing the rest clock:
// POST registers rosters, GET lists them.
func (h *Handler) Rosters(w http.ResponseWriter, r *http.Request) {
	if h.rosters == nil {
		writeError(w, r, http.StatusNotFound, "league rosters are not enabled")
		return
	}
	switch r.Method {
	case http.MethodPost:
		var rosters []*teams.Team
		if !h.decode(w, r, &rosters) {
			return
		}
		if len(rosters) == 0 {
			writeError(w, r, http.StatusBadRequest, "at least one roster is required")
			return
		}
		if err := h.rosters.Register(rosters...); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		logging.Info(loggerFromRequest(r), "rosters registered",
			logging.FieldCount, len(rosters),
		)
		writeJSON(w, r, http.StatusCreated, map[string]int{"registered": len(rosters)})
	case http.MethodGet:
		rosters, err := h.rosters.Rosters(r.Context())
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "listing rosters failed")
			return
		}
		writeJSON(w, r, http.StatusOK, rosters)
	default:
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// parseGamePath extracts the game id and optional trailing action from a
// /games/{id}[/{action}] path.
func parseGamePath(path string) (id, action string, err error) {
	rest := strings.TrimPrefix(path, "/games/")
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return "", "", fmt.Errorf("game id required")
	}
	parts := strings.SplitN(rest, "/", 2)
	id, err = url.PathUnescape(parts[0])
	if err != nil || id == "" {
		return "", "", fmt.Errorf("invalid game id")
	}
	if len(id) > 128 {
		return "", "", fmt.Errorf("invalid game id")
	}
	if len(parts) == 2 {
		action = parts[1]
	}
	return id, action, nil
}
