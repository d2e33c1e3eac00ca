package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLevel("warn"))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
}

func TestZapLoggerWith(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := FromZap(zap.New(core))

	l.With("employer_id", "e-1").Info("clock-in for %s", "emp-1")
	l.Debug("dropped")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "clock-in for emp-1", entries[0].Message)
		assert.Equal(t, "e-1", entries[0].ContextMap()["employer_id"])
	}
}
