// Package evolution is the application layer over the player evolution
// pipeline: it times each pass and feeds the outcome into metrics.
package evolution

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/evolution"
	"github.com/courtside/franchise-sim/internal/metrics"
)

// Pass names used for metrics labels.
const (
	PassPostGame  = "post_game"
	PassWeekly    = "weekly"
	PassMonthly   = "monthly"
	PassSeasonEnd = "season_end"
	PassRestDay   = "rest_day"
)

// Service wraps the evolution pipeline with pass-level instrumentation.
type Service struct {
	pipeline *evolution.Pipeline
	logger   *slog.Logger
	metrics  *metrics.Recorder
}

// NewService constructs the evolution service around a pipeline.
func NewService(pipeline *evolution.Pipeline, logger *slog.Logger, recorder *metrics.Recorder) (*Service, error) {
	if pipeline == nil {
		return nil, fmt.Errorf("evolution service needs a pipeline")
	}
	return &Service{pipeline: pipeline, logger: logger, metrics: recorder}, nil
}

// PostGame runs the per-game pass.
func (s *Service) PostGame(req evolution.PostGameRequest) (evolution.PostGameResult, error) {
	start := time.Now()
	out, err := s.pipeline.ProcessPostGame(req)
	s.record(PassPostGame, start, out.Events, nil, err)
	return out, err
}

// Weekly runs the weekly recovery and upgrade pass.
func (s *Service) Weekly(req evolution.WeeklyRequest) (evolution.WeeklyResult, error) {
	start := time.Now()
	out, err := s.pipeline.ProcessWeekly(req)
	s.record(PassWeekly, start, out.Events, nil, err)
	return out, err
}

// Monthly runs the development pass.
func (s *Service) Monthly(req evolution.MonthlyRequest) (evolution.MonthlyResult, error) {
	start := time.Now()
	out, err := s.pipeline.ProcessMonthly(req)
	s.record(PassMonthly, start, out.Events, nil, err)
	return out, err
}

// SeasonEnd runs the offseason pass.
func (s *Service) SeasonEnd(req evolution.SeasonEndRequest) (evolution.SeasonEndResult, error) {
	start := time.Now()
	out, err := s.pipeline.ProcessSeasonEnd(req)
	s.record(PassSeasonEnd, start, out.Events, out.Retired, err)
	return out, err
}

// RestDayRequest rests a set of players for one or more days.
type RestDayRequest struct {
	Days    int               `json:"days"`
	Players []*players.Player `json:"players"`
}

// RestDayResult returns the rested copies keyed by player id.
type RestDayResult struct {
	Players map[string]*players.Player `json:"players"`
}

// RestDay applies rest-day recovery without advancing any other systems.
func (s *Service) RestDay(req RestDayRequest) (RestDayResult, error) {
	start := time.Now()
	if len(req.Players) == 0 {
		err := fmt.Errorf("rest-day pass needs at least one player")
		s.record(PassRestDay, start, nil, nil, err)
		return RestDayResult{}, err
	}
	days := req.Days
	if days <= 0 {
		days = 1
	}
	out := RestDayResult{Players: make(map[string]*players.Player, len(req.Players))}
	for _, pl := range req.Players {
		if pl == nil {
			continue
		}
		out.Players[pl.ID] = s.pipeline.ProcessMultiDayRest(pl, days)
	}
	s.record(PassRestDay, start, nil, nil, nil)
	return out, nil
}

func (s *Service) record(pass string, start time.Time, events []evolution.Event, retired []string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := metrics.EvolutionOutcome{
		Events:      len(events),
		Retirements: len(retired),
		Err:         err,
	}
	for _, ev := range events {
		if ev.EventType == evolution.EventInjury {
			outcome.Injuries++
		}
	}
	s.metrics.RecordEvolutionPass(pass, time.Since(start), outcome)
}
