package games

import (
	"reflect"
	"testing"
)

func sampleState() State {
	return State{
		Version:   StateVersion,
		GameID:    "g1",
		Phase:     PhaseBetweenQuarters,
		Quarter:   2,
		HomeScore: 55,
		AwayScore: 51,
		QuarterScores: []QuarterScore{
			{Quarter: 1, Home: 28, Away: 24},
			{Quarter: 2, Home: 27, Away: 27},
		},
		Home: TeamState{
			TeamID:   "home",
			Lineup:   []string{"h1", "h2", "h3", "h4", "h5"},
			BoxScore: []BoxScoreLine{{PlayerID: "h1", Points: 18, Minutes: 20}},
			Scheme:   SchemeState{Offensive: "motion", Defensive: "man_to_man", Substitution: "staggered"},
			Substitution: SubstitutionState{
				Strategy:      "staggered",
				TargetMinutes: map[string]float64{"h1": 34},
				StarterIDs:    []string{"h1", "h2", "h3", "h4", "h5"},
			},
		},
		Away: TeamState{
			TeamID: "away",
			Lineup: []string{"a1", "a2", "a3", "a4", "a5"},
			Scheme: SchemeState{Offensive: "run_and_gun", Defensive: "zone_2_3"},
		},
		Possessions: 98,
		LastUpdated: "2026-02-01T19:30:00Z",
	}
}

func TestStateRoundTripIsIdempotent(t *testing.T) {
	original := sampleState()

	first, err := original.Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := DecodeState(first)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	second, err := decoded.Encode()
	if err != nil {
		t.Fatalf("re-encode failed: %v", err)
	}
	redecoded, err := DecodeState(second)
	if err != nil {
		t.Fatalf("re-decode failed: %v", err)
	}

	if !reflect.DeepEqual(decoded, redecoded) {
		t.Fatalf("round trip not idempotent:\nfirst:  %+v\nsecond: %+v", decoded, redecoded)
	}
	if decoded.HomeScore != 55 || decoded.AwayScore != 51 {
		t.Fatalf("scores lost in round trip: %+v", decoded)
	}
	if !reflect.DeepEqual(decoded.Home.Lineup, original.Home.Lineup) {
		t.Fatalf("lineup lost in round trip: %+v", decoded.Home.Lineup)
	}
}

func TestDecodeStateMigratesLegacyScheme(t *testing.T) {
	legacy := []byte(`{
		"version": 1,
		"gameId": "old",
		"quarter": 3,
		"homeScore": 70,
		"awayScore": 68,
		"homeScheme": "balanced",
		"awayScheme": "post_centric"
	}`)

	st, err := DecodeState(legacy)
	if err != nil {
		t.Fatalf("legacy decode failed: %v", err)
	}
	if st.Version != StateVersion {
		t.Fatalf("expected migration to v%d, got v%d", StateVersion, st.Version)
	}
	if st.Home.Scheme.Offensive != "balanced" || st.Home.Scheme.Defensive != "balanced" {
		t.Fatalf("legacy home scheme not mapped: %+v", st.Home.Scheme)
	}
	if st.Away.Scheme.Offensive != "post_centric" {
		t.Fatalf("legacy away scheme not mapped: %+v", st.Away.Scheme)
	}
	if st.Phase != PhaseBetweenQuarters {
		t.Fatalf("expected between-quarters phase, got %s", st.Phase)
	}
}

func TestDecodeStateRejectsUnknownVersion(t *testing.T) {
	if _, err := DecodeState([]byte(`{"version": 99}`)); err == nil {
		t.Fatal("expected error for unknown version")
	}
	if _, err := DecodeState([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestTotalPointsAndLineFor(t *testing.T) {
	lines := []BoxScoreLine{
		{PlayerID: "a", Points: 12},
		{PlayerID: "b", Points: 30},
	}
	if got := TotalPoints(lines); got != 42 {
		t.Fatalf("expected 42 points, got %d", got)
	}
	idx, ok := LineFor(lines, "b")
	if !ok || idx != 1 {
		t.Fatalf("expected to find b at index 1, got %d %v", idx, ok)
	}
	if _, ok := LineFor(lines, "zz"); ok {
		t.Fatal("unexpected match for absent player")
	}
}
