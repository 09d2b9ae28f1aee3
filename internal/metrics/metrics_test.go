package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecorderTracksSimulations(t *testing.T) {
	rec := NewRecorder()
	rec.RecordGameSimulated(10*time.Millisecond, 198, 0)
	rec.RecordGameSimulated(15*time.Millisecond, 210, 1)
	rec.RecordSubstitutions(6)
	rec.RecordSubstitutions(0)

	snap := rec.SimSnapshot()
	if snap.Games != 2 {
		t.Fatalf("expected 2 games, got %d", snap.Games)
	}
	if snap.Possessions != 408 {
		t.Fatalf("expected 408 possessions, got %d", snap.Possessions)
	}
	if snap.Overtimes != 1 {
		t.Fatalf("expected 1 overtime, got %d", snap.Overtimes)
	}
	if snap.Substitutions != 6 {
		t.Fatalf("expected 6 substitutions, got %d", snap.Substitutions)
	}
	if snap.LastDuration != 15*time.Millisecond {
		t.Fatalf("expected last duration 15ms, got %s", snap.LastDuration)
	}
	if got := rec.GamesSimulated(); got != 2 {
		t.Fatalf("expected 2 from accessor, got %d", got)
	}
}

func TestRecorderTracksEvolutionPasses(t *testing.T) {
	rec := NewRecorder()
	rec.RecordEvolutionPass("post_game", 5*time.Millisecond, EvolutionOutcome{Events: 3, Injuries: 1})
	rec.RecordEvolutionPass("post_game", 8*time.Millisecond, EvolutionOutcome{Err: errors.New("boom")})
	rec.RecordEvolutionPass("season_end", time.Millisecond, EvolutionOutcome{Retirements: 2})

	snap := rec.PassSnapshot("post_game")
	if snap.Runs != 2 || snap.Errors != 1 {
		t.Fatalf("unexpected post_game snapshot %+v", snap)
	}
	if snap.Events != 3 || snap.Injuries != 1 {
		t.Fatalf("unexpected post_game totals %+v", snap)
	}
	if snap.LastLatency != 8*time.Millisecond {
		t.Fatalf("expected last latency 8ms, got %s", snap.LastLatency)
	}
	if got := rec.PassSnapshot("season_end").Retirements; got != 2 {
		t.Fatalf("expected 2 retirements, got %d", got)
	}
	if got := rec.PassSnapshot("weekly"); got.Runs != 0 {
		t.Fatalf("unknown pass should be empty, got %+v", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordGameSimulated(time.Millisecond, 100, 0)
	rec.RecordSubstitutions(2)
	rec.RecordEvolutionPass("weekly", time.Millisecond, EvolutionOutcome{})
	rec.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
	rec.RecordClockCycle(time.Millisecond, nil)
	if got := rec.SimSnapshot(); got.Games != 0 {
		t.Fatalf("nil recorder snapshot should be zero, got %+v", got)
	}
}
