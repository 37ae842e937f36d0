package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestLevelMapping(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, DebugLevel.zapLevel())
	assert.Equal(t, zapcore.InfoLevel, InfoLevel.zapLevel())
	assert.Equal(t, zapcore.WarnLevel, WarnLevel.zapLevel())
	assert.Equal(t, zapcore.ErrorLevel, ErrorLevel.zapLevel())
	assert.Equal(t, zapcore.DebugLevel, LogLevel("verbose").zapLevel())
}

func TestNamedBeforeInit(t *testing.T) {
	l := Named("scrub")
	assert.NotNil(t, l)
	l.Info("dropped")
	Info("dropped too")
}

func TestBuildWithFile(t *testing.T) {
	dir := t.TempDir()
	l := build(Config{Level: InfoLevel, OutputPath: dir + "/logs/scrub.log", MaxSize: 1})
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	l.Info("hello")
	_ = l.Sync()
}
