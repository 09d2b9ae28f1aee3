package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	appgames "github.com/courtside/franchise-sim/internal/app/games"
	"github.com/courtside/franchise-sim/internal/config"
	domaingames "github.com/courtside/franchise-sim/internal/domain/games"
	"github.com/courtside/franchise-sim/internal/testutil"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port: "0",
		Sim:  config.SimConfig{Difficulty: "normal"},
		Saves: config.SavesConfig{
			Backend:       "memory",
			Dir:           t.TempDir(),
			RetentionDays: 7,
		},
		Metrics: config.MetricsConfig{Enabled: false},
		Rest:    config.RestClockConfig{Enabled: false, Interval: time.Hour},
	}
}

func TestNewComposesServer(t *testing.T) {
	srv, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if srv.Handler() == nil {
		t.Fatal("handler should be wired")
	}
	if srv.metricsServer != nil {
		t.Fatal("metrics server should be absent when telemetry is disabled")
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Saves.Backend = "redis"
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected error for unknown save backend")
	}
}

func TestNewWithSQLiteBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Saves.Backend = "sqlite"
	cfg.Saves.SQLitePath = filepath.Join(t.TempDir(), "franchise.db")

	srv, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if err := srv.store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
}

func TestServerSimulatesGameEndToEnd(t *testing.T) {
	srv, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	seed := int64(21)
	payload := appgames.SimulateRequest{
		HomeTeam: testutil.FixtureTeam("home", 8),
		AwayTeam: testutil.FixtureTeam("away", 8),
		Options:  appgames.GameOptions{Seed: &seed},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/games/simulate", bytes.NewReader(data))
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("simulate status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result domaingames.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.HomeScore == result.AwayScore || result.WinnerID == "" {
		t.Fatalf("unexpected result %d-%d winner %q", result.HomeScore, result.AwayScore, result.WinnerID)
	}
	if got := srv.metrics.GamesSimulated(); got != 1 {
		t.Fatalf("games simulated metric = %d, want 1", got)
	}
}

func TestReadyRequiresClockWhenEnabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rest.Enabled = true

	srv, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	// The clock has not ticked yet, so readiness is withheld.
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready status = %d, want 503 before first tick", rec.Code)
	}
}
