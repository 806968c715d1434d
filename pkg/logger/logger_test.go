package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func resetLogger(t *testing.T) {
	t.Helper()
	log = nil
	once = sync.Once{}
	t.Cleanup(func() {
		log = nil
		once = sync.Once{}
	})
}

func TestInitAndContextLogging(t *testing.T) {
	resetLogger(t)
	Init("development")
	require.NotNil(t, GetLogger())

	ctx := context.WithValue(context.Background(), "request_id", "req-1")
	ctx = context.WithValue(ctx, UserIDKey, "user-1")
	require.NotNil(t, WithContext(ctx))

	Info(ctx, "info")
	Debug(ctx, "debug")
	Warn(ctx, "warn")
	Error(ctx, "error")
	LogRequest(ctx, "GET", "/health", 200, 10*time.Millisecond, "127.0.0.1")
}

func TestGetLogger_NopBeforeInit(t *testing.T) {
	resetLogger(t)
	assert.NotNil(t, GetLogger())
	assert.NotPanics(t, func() { Info(context.Background(), "before init") })
}

func TestWithContextNilAndTypedRequestID(t *testing.T) {
	resetLogger(t)
	Init("development")
	//nolint:staticcheck // nil context is handled explicitly
	assert.Equal(t, GetLogger(), WithContext(nil))

	ctx := context.WithValue(context.Background(), RequestIDKey, "typed-req-id")
	assert.NotNil(t, WithContext(ctx))
	assert.Equal(t, GetLogger(), WithContext(context.Background()))
}

func TestSetLevel(t *testing.T) {
	resetLogger(t)
	Init("production")

	SetLevel("error")
	assert.Equal(t, zapcore.ErrorLevel, atom.Level())

	SetLevel("not-a-level")
	assert.Equal(t, zapcore.ErrorLevel, atom.Level())

	SetLevel("DEBUG")
	assert.Equal(t, zapcore.DebugLevel, atom.Level())
}

func TestInit_PanicWhenLoggerBuildFails(t *testing.T) {
	resetLogger(t)
	origBuild := buildLogger
	t.Cleanup(func() { buildLogger = origBuild })

	buildLogger = func(zap.Config) (*zap.Logger, error) {
		return nil, errors.New("build failed")
	}

	assert.Panics(t, func() { Init("production") })
}
