package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapWrapper_FieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"component": "registry"})

	log.Debug("hidden", nil)
	log.Info("signed up", map[string]interface{}{"activity": "Chess Club", "email": "x@e.edu"})
	log.WithError(errors.New("boom")).Error("sink failed", map[string]interface{}{"cause": errors.New("timeout")})

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "signed up", entries[0].Message)
	assert.Equal(t, "registry", first["component"])
	assert.Equal(t, "Chess Club", first["activity"])

	second := entries[1].ContextMap()
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", second["error"])
	assert.Equal(t, "timeout", second["cause"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("anything"))
}

func TestNew_BadOutputFallsBack(t *testing.T) {
	l := New("info", "json", "/nonexistent-dir/for/sure/app.log")
	require.NotNil(t, l)
	l.Info("still works")
}
