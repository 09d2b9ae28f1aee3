package metrics

import (
	"sync"
	"time"
)

type simStats struct {
	games         int
	possessions   int
	overtimes     int
	substitutions int
	lastDuration  time.Duration
}

type passStats struct {
	runs        int
	errors      int
	events      int
	injuries    int
	retirements int
	lastLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about simulations and
// evolution passes. It is intentionally simple so it can be swapped for a
// real backend later.
type Recorder struct {
	mu     sync.Mutex
	sim    simStats
	passes map[string]*passStats
	otel   *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		passes: make(map[string]*passStats),
		otel:   otel,
	}
}

// RecordGameSimulated tracks one completed simulation.
func (r *Recorder) RecordGameSimulated(duration time.Duration, possessions, overtimes int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.sim.games++
	r.sim.possessions += possessions
	r.sim.overtimes += overtimes
	r.sim.lastDuration = duration
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordGame(duration, possessions, overtimes)
	}
}

// RecordSubstitutions tracks lineup changes applied during a game.
func (r *Recorder) RecordSubstitutions(count int) {
	if r == nil || count <= 0 {
		return
	}
	r.mu.Lock()
	r.sim.substitutions += count
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSubstitutions(count)
	}
}

// EvolutionOutcome summarizes one pass for recording.
type EvolutionOutcome struct {
	Events      int
	Injuries    int
	Retirements int
	Err         error
}

// RecordEvolutionPass tracks one evolution pass of the named kind.
func (r *Recorder) RecordEvolutionPass(pass string, duration time.Duration, outcome EvolutionOutcome) {
	if r == nil {
		return
	}
	stats := r.ensurePass(pass)
	r.mu.Lock()
	stats.runs++
	stats.events += outcome.Events
	stats.injuries += outcome.Injuries
	stats.retirements += outcome.Retirements
	stats.lastLatency = duration
	if outcome.Err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordEvolutionPass(pass, duration, outcome)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordClockCycle tracks league-clock ticks and errors.
func (r *Recorder) RecordClockCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordClockCycle(duration, err)
}

// GamesSimulated returns the total games recorded.
func (r *Recorder) GamesSimulated() int {
	return r.SimSnapshot().Games
}

// Possessions returns the total possessions recorded.
func (r *Recorder) Possessions() int {
	return r.SimSnapshot().Possessions
}

// Substitutions returns the total lineup changes recorded.
func (r *Recorder) Substitutions() int {
	return r.SimSnapshot().Substitutions
}

// SimSnapshot is a copy of the current simulation counters.
type SimSnapshot struct {
	Games         int
	Possessions   int
	Overtimes     int
	Substitutions int
	LastDuration  time.Duration
}

func (r *Recorder) SimSnapshot() SimSnapshot {
	if r == nil {
		return SimSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return SimSnapshot{
		Games:         r.sim.games,
		Possessions:   r.sim.possessions,
		Overtimes:     r.sim.overtimes,
		Substitutions: r.sim.substitutions,
		LastDuration:  r.sim.lastDuration,
	}
}

// PassSnapshot is a copy of one evolution pass's counters.
type PassSnapshot struct {
	Runs        int
	Errors      int
	Events      int
	Injuries    int
	Retirements int
	LastLatency time.Duration
}

func (r *Recorder) PassSnapshot(pass string) PassSnapshot {
	if r == nil {
		return PassSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.passes[pass]; ok && stats != nil {
		return PassSnapshot{
			Runs:        stats.runs,
			Errors:      stats.errors,
			Events:      stats.events,
			Injuries:    stats.injuries,
			Retirements: stats.retirements,
			LastLatency: stats.lastLatency,
		}
	}
	return PassSnapshot{}
}

func (r *Recorder) ensurePass(pass string) *passStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.passes[pass]
	if !ok {
		stats = &passStats{}
		r.passes[pass] = stats
	}
	return stats
}
