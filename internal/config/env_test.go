package config

import (
	"testing"
	"time"
)

func TestEnvOrDefault(t *testing.T) {
	const key = "FRANCHISE_TEST_STRING"
	if got := envOrDefault(key, "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %s", got)
	}
	t.Setenv(key, "explicit")
	if got := envOrDefault(key, "fallback"); got != "explicit" {
		t.Fatalf("expected explicit, got %s", got)
	}
}

func TestDurationEnvOrDefault(t *testing.T) {
	const key = "FRANCHISE_TEST_DURATION"
	if got := durationEnvOrDefault(key, time.Minute); got != time.Minute {
		t.Fatalf("expected default, got %s", got)
	}
	t.Setenv(key, "bogus")
	if got := durationEnvOrDefault(key, time.Minute); got != time.Minute {
		t.Fatalf("invalid value should fall back, got %s", got)
	}
	t.Setenv(key, "-5s")
	if got := durationEnvOrDefault(key, time.Minute); got != time.Minute {
		t.Fatalf("non-positive value should fall back, got %s", got)
	}
	t.Setenv(key, "90s")
	if got := durationEnvOrDefault(key, time.Minute); got != 90*time.Second {
		t.Fatalf("expected parsed value, got %s", got)
	}
}

func TestIntEnvOrDefault(t *testing.T) {
	const key = "FRANCHISE_TEST_INT"
	if got := intEnvOrDefault(key, 7); got != 7 {
		t.Fatalf("expected default, got %d", got)
	}
	t.Setenv(key, "0")
	if got := intEnvOrDefault(key, 7); got != 7 {
		t.Fatalf("non-positive value should fall back, got %d", got)
	}
	t.Setenv(key, "12")
	if got := intEnvOrDefault(key, 7); got != 12 {
		t.Fatalf("expected parsed value, got %d", got)
	}
}

func TestBoolEnvOrDefault(t *testing.T) {
	const key = "FRANCHISE_TEST_BOOL"
	cases := []struct {
		raw  string
		def  bool
		want bool
	}{
		{"", true, true},
		{"1", false, true},
		{"yes", false, true},
		{"TRUE", false, true},
		{"0", true, false},
		{"no", true, false},
		{"maybe", true, true},
	}
	for _, tc := range cases {
		t.Setenv(key, tc.raw)
		if got := boolEnvOrDefault(key, tc.def); got != tc.want {
			t.Fatalf("raw %q default %v: expected %v, got %v", tc.raw, tc.def, tc.want, got)
		}
	}
}
