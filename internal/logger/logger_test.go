package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		level   string
		wantErr bool
		enabled zapcore.Level
	}{
		{"prod default info", "prod", "", false, zapcore.InfoLevel},
		{"local default debug", "local", "", false, zapcore.DebugLevel},
		{"override", "dev", "warn", false, zapcore.WarnLevel},
		{"unknown env", "staging", "", true, 0},
		{"bad level", "prod", "loud", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.env, tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !l.Core().Enabled(tt.enabled) {
				t.Errorf("level %s must be enabled", tt.enabled)
			}
			if tt.enabled > zapcore.DebugLevel && l.Core().Enabled(tt.enabled-1) {
				t.Errorf("level %s must be disabled", tt.enabled-1)
			}
		})
	}
}

func TestFromContext_Nop(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a nop logger")
	}
}

func TestWithFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))

	ctx = WithFields(ctx, zap.String("request_id", "abc"))
	FromContext(ctx).Info("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != "abc" {
		t.Errorf("request_id = %v", got)
	}

	if WithFields(ctx) != ctx {
		t.Error("no fields must return the same context")
	}
}
