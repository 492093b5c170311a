package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{name: "json info", level: "info", format: "json", enabled: zapcore.InfoLevel, muted: zapcore.DebugLevel},
		{name: "console debug", level: "debug", format: "console", enabled: zapcore.DebugLevel, muted: zapcore.DebugLevel - 1},
		{name: "default format", level: "warn", format: "", enabled: zapcore.WarnLevel, muted: zapcore.InfoLevel},
		{name: "bad level", level: "loud", format: "json", wantErr: true},
		{name: "bad format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := New(tt.level, tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !logger.Core().Enabled(tt.enabled) {
				t.Fatalf("expected %v enabled", tt.enabled)
			}
			if logger.Core().Enabled(tt.muted) {
				t.Fatalf("expected %v muted", tt.muted)
			}
		})
	}
}
