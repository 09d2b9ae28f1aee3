package sim

import (
	"strings"
	"testing"

	"github.com/courtside/franchise-sim/internal/domain/games"
	"github.com/courtside/franchise-sim/internal/testutil"
)

func TestSimulateQuarterLifecycle(t *testing.T) {
	home := testutil.FixtureTeam("home", 10)
	away := testutil.FixtureTeam("away", 10)
	s, err := New(home, away, Options{}, testDeps(t, 11))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	var final games.QuarterResult
	var lastState games.State
	for i := 0; i < 10; i++ {
		qr, st, err := s.SimulateQuarter()
		if err != nil {
			t.Fatalf("quarter %d: %v", i+1, err)
		}
		if qr.Quarter != i+1 {
			t.Fatalf("expected quarter %d, got %d", i+1, qr.Quarter)
		}
		if qr.HomeScore != st.HomeScore || qr.AwayScore != st.AwayScore {
			t.Fatalf("quarter result and state disagree: %+v vs %d-%d", qr, st.HomeScore, st.AwayScore)
		}
		final, lastState = qr, st
		if qr.Completed {
			break
		}
	}
	if !final.Completed {
		t.Fatal("game never completed")
	}
	if final.HomeScore == final.AwayScore {
		t.Fatal("completed game must not be tied")
	}
	if lastState.Phase != games.PhaseComplete {
		t.Fatalf("final state phase should be complete, got %s", lastState.Phase)
	}

	result, err := s.FinalResult()
	if err != nil {
		t.Fatalf("final result: %v", err)
	}
	if result.HomeScore != final.HomeScore || result.AwayScore != final.AwayScore {
		t.Fatalf("final result scores %d-%d do not match last quarter %d-%d",
			result.HomeScore, result.AwayScore, final.HomeScore, final.AwayScore)
	}

	if _, _, err := s.SimulateQuarter(); err == nil {
		t.Fatal("completed games cannot simulate more quarters")
	}
}

func TestSimulateQuarterResumesFromSerializedState(t *testing.T) {
	home := testutil.FixtureTeam("home", 10)
	away := testutil.FixtureTeam("away", 10)
	deps := testDeps(t, 13)
	s, err := New(home, away, Options{}, deps)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	qr1, st1, err := s.SimulateQuarter()
	if err != nil {
		t.Fatalf("first quarter: %v", err)
	}

	// Round-trip the state through its wire format before resuming.
	raw, err := st1.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := games.DecodeState(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	resumed, err := NewFromState(decoded, home, away, Options{}, testDeps(t, 17))
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed.GameID() != s.GameID() {
		t.Fatalf("resumed game should keep its id, got %s vs %s", resumed.GameID(), s.GameID())
	}

	qr2, st2, err := resumed.SimulateQuarter()
	if err != nil {
		t.Fatalf("second quarter after resume: %v", err)
	}
	if qr2.Quarter != 2 {
		t.Fatalf("resume should continue at quarter 2, got %d", qr2.Quarter)
	}
	if st2.HomeScore < qr1.HomeScore || st2.AwayScore < qr1.AwayScore {
		t.Fatal("scores must be carried forward, never reduced")
	}
	if got := games.TotalPoints(st2.Home.BoxScore); got != st2.HomeScore {
		t.Fatalf("resumed home box sums to %d, score is %d", got, st2.HomeScore)
	}
}

func TestSnapshotRoundTripEquivalence(t *testing.T) {
	home := testutil.FixtureTeam("home", 10)
	away := testutil.FixtureTeam("away", 10)
	s, err := New(home, away, Options{}, testDeps(t, 19))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, _, err := s.SimulateQuarter(); err != nil {
		t.Fatalf("quarter: %v", err)
	}

	first := s.Snapshot()
	raw, err := first.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := games.DecodeState(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	resumed, err := NewFromState(decoded, home, away, Options{}, testDeps(t, 19))
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	second := resumed.Snapshot()

	if second.GameID != first.GameID || second.Quarter != first.Quarter ||
		second.HomeScore != first.HomeScore || second.AwayScore != first.AwayScore {
		t.Fatalf("snapshot round trip drifted: %+v vs %+v", first, second)
	}
	if len(second.Home.BoxScore) != len(first.Home.BoxScore) {
		t.Fatal("box score lines lost in round trip")
	}
	for i, line := range first.Home.BoxScore {
		if second.Home.BoxScore[i] != line {
			t.Fatalf("home box line %d drifted: %+v vs %+v", i, line, second.Home.BoxScore[i])
		}
	}
	for i, id := range first.Home.Lineup {
		if second.Home.Lineup[i] != id {
			t.Fatalf("lineup drifted: %v vs %v", first.Home.Lineup, second.Home.Lineup)
		}
	}
}

func TestSimulateQuarterLineupPrecondition(t *testing.T) {
	home := testutil.FixtureTeam("home", 3)
	away := testutil.FixtureTeam("away", 10)
	s, err := New(home, away, Options{}, testDeps(t, 23))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, _, err = s.SimulateQuarter()
	if err == nil {
		t.Fatal("a three-man lineup must not start a quarter")
	}
	if !strings.Contains(err.Error(), "home lineup has 3") || !strings.Contains(err.Error(), "away lineup has 5") {
		t.Fatalf("precondition error should name both lineup sizes, got: %v", err)
	}
}
