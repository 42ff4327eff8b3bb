package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestGetLoggerReturnsSharedInstance(t *testing.T) {
	SetLevel(zerolog.Disabled)
	if GetLogger() != GetLogger() {
		t.Error("expected the same logger instance")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		"warn":     zerolog.WarnLevel,
		"":         zerolog.InfoLevel,
		"chatty":   zerolog.InfoLevel,
		"disabled": zerolog.Disabled,
	}
	for name, want := range tests {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", name, got, want)
		}
	}
}
