package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { require.NoError(t, SetLevel("info")) })

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	require.NoError(t, SetLevel("WARNING"))
	assert.Equal(t, zapcore.WarnLevel, level.Level())

	assert.Error(t, SetLevel("verbose"))
}

func TestSetFormat(t *testing.T) {
	t.Cleanup(func() { require.NoError(t, SetFormat(FormatConsole)) })

	require.NoError(t, SetFormat(FormatJSON))
	assert.NotNil(t, rootLogger())
	assert.Error(t, SetFormat("xml"))
}

func TestFieldsAreSortedAndCarried(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &zapLogger{base: zap.New(core)}

	l.WithFields(Fields{"component": "test"}).Error(errors.New("boom"), "failed", Fields{"b": 2, "a": 1, "": 3})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "failed", entries[0].Message)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "test", ctx["component"])
	assert.EqualValues(t, 1, ctx["a"])
	assert.EqualValues(t, 2, ctx["b"])
	assert.Equal(t, "boom", ctx["error"])
	assert.NotContains(t, ctx, "")

	keys := toZap([]Fields{{"z": 1, "m": 2, "a": 3}})
	require.Len(t, keys, 3)
	assert.Equal(t, "a", keys[0].Key)
	assert.Equal(t, "m", keys[1].Key)
	assert.Equal(t, "z", keys[2].Key)
}
