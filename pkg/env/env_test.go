package env

import "testing"

func TestGetPrefersPrefixedVariable(t *testing.T) {
	t.Setenv("DRPS_LOG_FORMAT", "console")
	t.Setenv("LOG_FORMAT", "json")
	if got := Get("LOG_FORMAT", "fallback"); got != "console" {
		t.Fatalf("expected console, got %q", got)
	}
}

func TestGetFallsBack(t *testing.T) {
	t.Setenv("DRPS_LOG_FORMAT", "")
	t.Setenv("LOG_FORMAT", "json")
	if got := Get("log_format", "fallback"); got != "json" {
		t.Fatalf("expected bare variable, got %q", got)
	}

	t.Setenv("LOG_FORMAT", "  ")
	if got := Get("LOG_FORMAT", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
