// Package league runs the background league clock: a ticker that applies
// rest-day recovery across every registered roster between games.
package league

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/domain/teams"
	"github.com/courtside/franchise-sim/internal/evolution"
	"github.com/courtside/franchise-sim/internal/logging"
	"github.com/courtside/franchise-sim/internal/metrics"
)

const defaultInterval = time.Hour

// RosterStore supplies the rosters to rest and accepts the recovered copies.
type RosterStore interface {
	Rosters(ctx context.Context) ([]*teams.Team, error)
	UpdatePlayers(ctx context.Context, updated map[string]*players.Player) error
}

// Clock applies rest-day recovery on an interval.
type Clock struct {
	pipeline *evolution.Pipeline
	rosters  RosterStore
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the clock loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the clock has had a recent success and is not
// failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Clock with sane defaults.
func New(pipeline *evolution.Pipeline, rosters RosterStore, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Clock {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Clock{
		pipeline: pipeline,
		rosters:  rosters,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins ticking until the context is cancelled or Stop is called.
func (c *Clock) Start(ctx context.Context) {
	c.startMu.Lock()
	if c.started {
		c.startMu.Unlock()
		return
	}
	c.started = true
	c.startMu.Unlock()

	c.ticker = time.NewTicker(c.interval)

	go func() {
		logging.Info(c.logger, "league clock started",
			slog.Int64(logging.FieldDurationMS, c.interval.Milliseconds()))
		// Initial tick so fatigue starts recovering on boot.
		c.tickOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				c.stopTicker()
				logging.Info(c.logger, "league clock stopped")
				return
			case <-c.done:
				c.stopTicker()
				logging.Info(c.logger, "league clock stopped")
				return
			case <-c.ticker.C:
				c.tickOnce(ctx)
			}
		}
	}()
}

// Stop halts the clock loop.
func (c *Clock) Stop(ctx context.Context) error {
	_ = ctx
	c.stopOnce.Do(func() {
		close(c.done)
		c.stopTicker()
	})
	return nil
}

func (c *Clock) tickOnce(ctx context.Context) {
	start := time.Now()
	c.recordAttempt(start)

	err := c.restRosters(ctx)
	if c.metrics != nil {
		c.metrics.RecordClockCycle(time.Since(start), err)
	}
	if err != nil {
		logging.Error(c.logger, "league clock cycle failed", err,
			slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
		c.recordFailure(err, start)
		return
	}
	c.recordSuccess(start)
}

func (c *Clock) restRosters(ctx context.Context) error {
	rosters, err := c.rosters.Rosters(ctx)
	if err != nil {
		return err
	}

	updated := make(map[string]*players.Player)
	for _, team := range rosters {
		if team == nil {
			continue
		}
		for _, pl := range team.Players {
			if pl == nil {
				continue
			}
			updated[pl.ID] = c.pipeline.ProcessRestDay(pl)
		}
	}
	if len(updated) == 0 {
		return nil
	}
	if err := c.rosters.UpdatePlayers(ctx, updated); err != nil {
		return err
	}
	logging.Info(c.logger, "rest day applied",
		logging.FieldCount, len(updated),
	)
	return nil
}

func (c *Clock) stopTicker() {
	if c.ticker != nil {
		c.ticker.Stop()
	}
}

func (c *Clock) recordAttempt(at time.Time) {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	c.status.LastAttempt = at
}

func (c *Clock) recordSuccess(at time.Time) {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	c.status.ConsecutiveFailures = 0
	c.status.LastError = ""
	c.status.LastSuccess = at
}

func (c *Clock) recordFailure(err error, at time.Time) {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	c.status.ConsecutiveFailures++
	if err != nil {
		c.status.LastError = err.Error()
	}
	c.status.LastAttempt = at
}

// Status returns a snapshot of the clock's recent health.
func (c *Clock) Status() Status {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.status
}
