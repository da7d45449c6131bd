package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func resetLogger(t *testing.T) {
	t.Helper()
	log = zap.NewNop()
	once = sync.Once{}
	t.Cleanup(func() {
		log = zap.NewNop()
		once = sync.Once{}
	})
}

func TestNoopBeforeInit(t *testing.T) {
	resetLogger(t)
	assert.NotPanics(t, func() {
		Info(context.Background(), "before init")
	})
}

func TestInitAndContextLogging(t *testing.T) {
	resetLogger(t)
	Init("development")
	assert.NotNil(t, GetLogger())

	ctx := context.WithValue(context.Background(), "request_id", "req-1")
	assert.NotNil(t, WithContext(ctx))

	Info(ctx, "info")
	Debug(ctx, "debug")
	Warn(ctx, "warn")
	Error(ctx, "error")
	LogRequest(ctx, "GET", "/health", 200, 10*time.Millisecond, "127.0.0.1")
	SetLevel(zapcore.WarnLevel)
}

func TestWithContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	resetLogger(t)
	log = zap.New(core)

	ctx := context.WithValue(context.Background(), RequestIDKey, "typed-req-id")
	ctx = context.WithValue(ctx, UserIDKey, "user-1")
	Info(ctx, "hello")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "typed-req-id", fields["request_id"])
		assert.Equal(t, "user-1", fields["user_id"])
	}

	//nolint:staticcheck // nil context is tolerated
	assert.Equal(t, log, WithContext(nil))
	assert.Equal(t, log, WithContext(context.Background()))
}

func TestInit_Production(t *testing.T) {
	resetLogger(t)
	Init("production")
	assert.NotNil(t, GetLogger())
	Sync()
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
