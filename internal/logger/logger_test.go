package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   zapcore.Level
		wantOK bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{" WARN ", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"", zapcore.InfoLevel, false},
		{"verbose", zapcore.InfoLevel, false},
	}

	for _, tt := range tests {
		got, ok := parseLevel(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNamedCarriesComponent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromCore(core).Named("registry")

	log.Info("channel registered", String("username", "tech_insider"), Int64("subscribers", 154000))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.LoggerName != "registry" {
		t.Errorf("LoggerName = %q, want registry", e.LoggerName)
	}
	if got := e.ContextMap()["username"]; got != "tech_insider" {
		t.Errorf("username field = %v", got)
	}
}
