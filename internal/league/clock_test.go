package league

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/courtside/franchise-sim/internal/badges"
	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/domain/teams"
	"github.com/courtside/franchise-sim/internal/evolution"
	"github.com/courtside/franchise-sim/internal/metrics"
	"github.com/courtside/franchise-sim/internal/testutil"
)

type stubRosterStore struct {
	teams   []*teams.Team
	listErr error
	saveErr error

	updated map[string]*players.Player
}

func (s *stubRosterStore) Rosters(context.Context) ([]*teams.Team, error) {
	return s.teams, s.listErr
}

func (s *stubRosterStore) UpdatePlayers(_ context.Context, updated map[string]*players.Player) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.updated = updated
	return nil
}

func newTestClock(t *testing.T, rosters RosterStore) *Clock {
	t.Helper()
	reg, err := badges.Load()
	if err != nil {
		t.Fatalf("load badge registry: %v", err)
	}
	pipeline, err := evolution.New(reg, &testutil.RNGScript{}, nil)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return New(pipeline, rosters, nil, metrics.NewRecorder(), time.Hour)
}

func TestTickAppliesRestRecovery(t *testing.T) {
	team := testutil.FixtureTeam("tm", 3)
	for _, pl := range team.Players {
		pl.Fatigue = 60
	}
	store := &stubRosterStore{teams: []*teams.Team{team}}
	clock := newTestClock(t, store)

	clock.tickOnce(context.Background())

	if len(store.updated) != 3 {
		t.Fatalf("expected 3 rested players, got %d", len(store.updated))
	}
	for id, pl := range store.updated {
		if pl.Fatigue >= 60 {
			t.Fatalf("player %s fatigue did not recover: %v", id, pl.Fatigue)
		}
	}
	// Originals are untouched; the store receives clones.
	if team.Players[0].Fatigue != 60 {
		t.Fatal("rest recovery mutated the original roster")
	}

	status := clock.Status()
	if !status.IsReady() {
		t.Fatalf("clock should be ready after a success, status %+v", status)
	}
}

func TestTickRecordsFailures(t *testing.T) {
	store := &stubRosterStore{listErr: errors.New("rosters unavailable")}
	clock := newTestClock(t, store)

	for i := 0; i < 3; i++ {
		clock.tickOnce(context.Background())
	}

	status := clock.Status()
	if status.ConsecutiveFailures != 3 {
		t.Fatalf("consecutive failures = %d, want 3", status.ConsecutiveFailures)
	}
	if status.LastError == "" {
		t.Fatal("expected a recorded error message")
	}
	if status.IsReady() {
		t.Fatal("clock should not report ready while failing")
	}
}

func TestStatusIsReady(t *testing.T) {
	var s Status
	if s.IsReady() {
		t.Fatal("zero status should not be ready")
	}
	s.LastSuccess = time.Now()
	if !s.IsReady() {
		t.Fatal("recent success should be ready")
	}
	s.ConsecutiveFailures = 3
	if s.IsReady() {
		t.Fatal("repeated failures should clear readiness")
	}
}

func TestStartAndStop(t *testing.T) {
	team := testutil.FixtureTeam("tm", 2)
	store := &stubRosterStore{teams: []*teams.Team{team}}
	clock := newTestClock(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock.Start(ctx)
	clock.Start(ctx) // second start is a no-op

	deadline := time.After(2 * time.Second)
	for clock.Status().LastSuccess.IsZero() {
		select {
		case <-deadline:
			t.Fatal("clock never completed its boot tick")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if err := clock.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := clock.Stop(context.Background()); err != nil {
		t.Fatalf("double stop should be a no-op, got %v", err)
	}
}
