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

func TestErrorDetailIsAttachedAsZapError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &ZapLogger{logger: zap.New(core)}

	l.Warn("MessageService", "touch failed", map[string]interface{}{
		"channel_id": "c1",
		"error":      errors.New("connection reset"),
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "MessageService", ctx["module"])
	assert.Equal(t, "connection reset", ctx["error"])
	assert.Equal(t, map[string]interface{}{"channel_id": "c1"}, ctx["details"])
}

func TestNilDetailsAreAccepted(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &ZapLogger{logger: zap.New(core)}

	l.Info("Boot", "started", nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "started", logs.All()[0].Message)
}
