package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	log, err := New("debug")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = New("")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))

	_, err = New("loud")
	assert.Error(t, err)
}

func TestNamed(t *testing.T) {
	assert.NotNil(t, Named(nil, "svc"))

	base, err := New("warn")
	require.NoError(t, err)
	assert.NotNil(t, Named(base, "svc.estimation"))
}

func TestMustPanics(t *testing.T) {
	assert.Panics(t, func() { Must(New("loud")) })
}
