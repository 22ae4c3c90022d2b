package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/pentyflix/pentyflix-api/pkg/config"
)

func TestInitLogger(t *testing.T) {
	oldLogger := Logger
	defer func() { Logger = oldLogger }()

	tests := []struct {
		name  string
		cfg   config.LoggingConfig
		level zapcore.Level
	}{
		{"json info", config.LoggingConfig{Level: "INFO", Format: "json"}, zapcore.InfoLevel},
		{"text debug", config.LoggingConfig{Level: "DEBUG", Format: "text"}, zapcore.DebugLevel},
		{"bad level falls back to info", config.LoggingConfig{Level: "bogus", Format: "json"}, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := InitLogger(&tt.cfg); err != nil {
				t.Fatalf("Failed to initialize logger: %v", err)
			}
			if Logger == nil {
				t.Fatal("Logger should be set after InitLogger")
			}
			if !Logger.Core().Enabled(tt.level) {
				t.Errorf("Expected level %v to be enabled", tt.level)
			}
		})
	}
}

func TestGetLoggerFallback(t *testing.T) {
	oldLogger := Logger
	defer func() { Logger = oldLogger }()

	Logger = nil
	if GetLogger() == nil {
		t.Error("GetLogger() should never return nil")
	}
}

func TestWithComponent(t *testing.T) {
	logger := WithComponent("reddit-client")
	if logger == nil {
		t.Error("WithComponent() should return a logger")
	}
}
