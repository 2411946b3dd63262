package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := New(tt.level, "json")
			assert.True(t, l.Core().Enabled(tt.expected))
			if tt.expected > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.expected-1))
			}
		})
	}
}

func TestZapAdapter_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "evaluate-clinical-score"})

	log.Info("score evaluated", map[string]interface{}{"score": 5, "tier": "high risk"})
	log.WithError(errors.New("boom")).Error("job failed", nil)
	log.Warn("unknown factor", map[string]interface{}{"error": errors.New("smoker")})

	entries := logs.All()
	assert.Len(t, entries, 3)

	first := entries[0].ContextMap()
	assert.Equal(t, "score evaluated", entries[0].Message)
	assert.Equal(t, "evaluate-clinical-score", first["taskType"])
	assert.EqualValues(t, 5, first["score"])
	assert.Equal(t, "high risk", first["tier"])

	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	assert.Equal(t, "smoker", entries[2].ContextMap()["error"])
}

func TestNoOpAndTestLoggers(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNoOpLogger().With(map[string]interface{}{"k": "v"}).Debug("quiet", nil)
		NewTestLogger(t).Info("visible in -v", map[string]interface{}{"k": "v"})
		NewStructured("debug", "console").Debug("console", nil)
	})
}
