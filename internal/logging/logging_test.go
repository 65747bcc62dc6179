package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		mode, level string
		want        zapcore.Level
	}{
		{mode: "development", level: "", want: zapcore.InfoLevel},
		{mode: "production", level: "debug", want: zapcore.DebugLevel},
		{mode: "prod", level: "warn", want: zapcore.WarnLevel},
	}
	for _, tt := range tests {
		logger, err := New(tt.mode, tt.level)
		if err != nil {
			t.Fatalf("New(%q, %q): %v", tt.mode, tt.level, err)
		}
		if !logger.Core().Enabled(tt.want) {
			t.Fatalf("New(%q, %q) should enable %s", tt.mode, tt.level, tt.want)
		}
		if tt.want > zapcore.DebugLevel && logger.Core().Enabled(tt.want-1) {
			t.Fatalf("New(%q, %q) should not enable %s", tt.mode, tt.level, tt.want-1)
		}
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("development", "chatty"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
