// Package games is the application layer for simulations: it owns the saved
// game store, builds simulators from requests, and exports finished results.
package games

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/courtside/franchise-sim/internal/badges"
	domaingames "github.com/courtside/franchise-sim/internal/domain/games"
	"github.com/courtside/franchise-sim/internal/domain/teams"
	"github.com/courtside/franchise-sim/internal/logging"
	"github.com/courtside/franchise-sim/internal/metrics"
	"github.com/courtside/franchise-sim/internal/playbook"
	"github.com/courtside/franchise-sim/internal/rng"
	"github.com/courtside/franchise-sim/internal/saves"
	"github.com/courtside/franchise-sim/internal/sim"
	"github.com/courtside/franchise-sim/internal/store"
	"github.com/courtside/franchise-sim/internal/timeutil"
)

// GameOptions is the request-facing slice of simulator options.
type GameOptions struct {
	UserTeamID          string                          `json:"userTeamId,omitempty"`
	UserLineup          []string                        `json:"userLineup,omitempty"`
	GenerateAnimation   *bool                           `json:"generateAnimation,omitempty"`
	LiveGame            bool                            `json:"liveGame,omitempty"`
	TargetMinutes       map[string]map[string]float64   `json:"targetMinutes,omitempty"`
	CoachingAdjustments map[string]teams.CoachingScheme `json:"coachingAdjustments,omitempty"`
	Difficulty          string                          `json:"difficulty,omitempty"`

	// Seed pins the random source for reproducible simulations.
	Seed *int64 `json:"seed,omitempty"`
}

// SimulateRequest carries both rosters plus options for one game.
type SimulateRequest struct {
	HomeTeam *teams.Team `json:"homeTeam"`
	AwayTeam *teams.Team `json:"awayTeam"`
	Options  GameOptions `json:"options"`
}

// Defaults applied when a request leaves options unset.
type Defaults struct {
	Difficulty    string
	AnimationData bool
}

// Service coordinates simulations over the saved game store.
type Service struct {
	store    store.SavedGameStore
	saves    *saves.Writer
	catalog  *playbook.Catalog
	registry *badges.Registry
	logger   *slog.Logger
	metrics  *metrics.Recorder
	defaults Defaults

	// resultsMu guards the per-day accumulation exported to disk.
	resultsMu  sync.Mutex
	dayResults map[string][]domaingames.Result
}

// NewService constructs the game service. The store, catalog, and registry
// are required; the saves writer is optional.
func NewService(st store.SavedGameStore, writer *saves.Writer, catalog *playbook.Catalog, registry *badges.Registry, logger *slog.Logger, recorder *metrics.Recorder, defaults Defaults) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("game service needs a saved game store")
	}
	if catalog == nil || registry == nil {
		return nil, fmt.Errorf("game service needs a play catalog and badge registry")
	}
	return &Service{
		store:      st,
		saves:      writer,
		catalog:    catalog,
		registry:   registry,
		logger:     logger,
		metrics:    recorder,
		defaults:   defaults,
		dayResults: make(map[string][]domaingames.Result),
	}, nil
}

func (s *Service) simOptions(opts GameOptions) sim.Options {
	difficulty := opts.Difficulty
	if difficulty == "" {
		difficulty = s.defaults.Difficulty
	}
	animation := s.defaults.AnimationData
	if opts.GenerateAnimation != nil {
		animation = *opts.GenerateAnimation
	}
	return sim.Options{
		UserTeamID:          opts.UserTeamID,
		UserLineup:          opts.UserLineup,
		GenerateAnimation:   animation,
		LiveGame:            opts.LiveGame,
		TargetMinutes:       opts.TargetMinutes,
		CoachingAdjustments: opts.CoachingAdjustments,
		Difficulty:          difficulty,
	}
}

func (s *Service) simDeps(opts GameOptions) sim.Deps {
	var src rng.Source
	if opts.Seed != nil {
		src = rng.NewSeeded(*opts.Seed)
	}
	return sim.Deps{
		Catalog:  s.catalog,
		Registry: s.registry,
		RNG:      src,
		Logger:   s.logger,
	}
}

// SimulateGame runs a full game start to finish and exports the result.
func (s *Service) SimulateGame(ctx context.Context, req SimulateRequest) (*domaingames.Result, error) {
	simulator, err := sim.New(req.HomeTeam, req.AwayTeam, s.simOptions(req.Options), s.simDeps(req.Options))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := simulator.SimulateGame()
	if err != nil {
		return nil, err
	}
	snapshot := simulator.Snapshot()
	if s.metrics != nil {
		s.metrics.RecordGameSimulated(time.Since(start), snapshot.Possessions, result.OvertimePeriods)
		s.metrics.RecordSubstitutions(simulator.Substitutions())
	}
	s.exportResult(*result)
	return result, nil
}

// CreateGame initializes a resumable game and persists its state.
func (s *Service) CreateGame(ctx context.Context, req SimulateRequest) (domaingames.State, error) {
	simulator, err := sim.New(req.HomeTeam, req.AwayTeam, s.simOptions(req.Options), s.simDeps(req.Options))
	if err != nil {
		return domaingames.State{}, err
	}
	state := simulator.Snapshot()
	if err := s.persistState(ctx, state); err != nil {
		return domaingames.State{}, err
	}
	logging.Info(s.logger, "game created",
		logging.FieldGameID, state.GameID,
		logging.FieldTeamID, req.HomeTeam.ID,
	)
	return state, nil
}

// SimulateQuarter advances a saved game by one period.
func (s *Service) SimulateQuarter(ctx context.Context, gameID string, req SimulateRequest) (domaingames.QuarterResult, domaingames.State, error) {
	state, ok, err := s.store.Get(ctx, gameID)
	if err != nil {
		return domaingames.QuarterResult{}, domaingames.State{}, err
	}
	if !ok {
		return domaingames.QuarterResult{}, domaingames.State{}, ErrGameNotFound
	}

	simulator, err := sim.NewFromState(state, req.HomeTeam, req.AwayTeam, s.simOptions(req.Options), s.simDeps(req.Options))
	if err != nil {
		return domaingames.QuarterResult{}, domaingames.State{}, err
	}

	quarter, next, err := simulator.SimulateQuarter()
	if err != nil {
		return domaingames.QuarterResult{}, domaingames.State{}, err
	}
	if s.metrics != nil {
		s.metrics.RecordSubstitutions(simulator.Substitutions())
	}
	if err := s.persistState(ctx, next); err != nil {
		return domaingames.QuarterResult{}, domaingames.State{}, err
	}

	if quarter.Completed {
		if result, err := simulator.FinalResult(); err == nil {
			if s.metrics != nil {
				s.metrics.RecordGameSimulated(0, next.Possessions, result.OvertimePeriods)
			}
			s.exportResult(*result)
		}
	}
	return quarter, next, nil
}

// GetGame returns a saved game state.
func (s *Service) GetGame(ctx context.Context, gameID string) (domaingames.State, bool, error) {
	return s.store.Get(ctx, gameID)
}

// ListGames returns every saved game state.
func (s *Service) ListGames(ctx context.Context) ([]domaingames.State, error) {
	return s.store.List(ctx)
}

// DeleteGame removes a saved game and its exported file.
func (s *Service) DeleteGame(ctx context.Context, gameID string) error {
	if err := s.store.Delete(ctx, gameID); err != nil {
		return err
	}
	if s.saves != nil {
		if err := s.saves.RemoveSaveFile(gameID); err != nil {
			logging.Warn(s.logger, "save file removal failed",
				logging.FieldGameID, gameID,
				"error", err,
			)
		}
	}
	return nil
}

func (s *Service) persistState(ctx context.Context, state domaingames.State) error {
	if err := s.store.Put(ctx, state); err != nil {
		return err
	}
	if s.saves != nil {
		if err := s.saves.WriteSaveFile(state); err != nil {
			logging.Warn(s.logger, "save file export failed",
				logging.FieldGameID, state.GameID,
				"error", err,
			)
		}
	}
	return nil
}

// exportResult accumulates the day's finished games and rewrites the daily
// snapshot. Export failures are logged, never fatal.
func (s *Service) exportResult(result domaingames.Result) {
	if s.saves == nil {
		return
	}
	date := timeutil.FormatDate(time.Now().UTC())

	s.resultsMu.Lock()
	s.dayResults[date] = append(s.dayResults[date], result)
	day := append([]domaingames.Result(nil), s.dayResults[date]...)
	s.resultsMu.Unlock()

	if err := s.saves.WriteResultSnapshot(date, day); err != nil {
		logging.Warn(s.logger, "result snapshot export failed",
			logging.FieldGameID, result.GameID,
			"error", err,
		)
	}
}
