package bootstrap_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"ymph-crud/internal/bootstrap"
	"ymph-crud/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingAuditLogger struct {
	mu      sync.Mutex
	entries []bootstrap.AuditLog
}

func (r *recordingAuditLogger) Log(_ context.Context, entry bootstrap.AuditLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func TestStartHTTPServer_GracefulShutdown(t *testing.T) {
	audit := &recordingAuditLogger{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- bootstrap.StartHTTPServer(ctx, http.NotFoundHandler(), config.ServerConfig{Port: "0"}, audit)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	audit.mu.Lock()
	defer audit.mu.Unlock()
	if assert.Len(t, audit.entries, 1) {
		assert.Equal(t, "SERVER_SHUTDOWN", audit.entries[0].Action)
		assert.Equal(t, "context canceled", audit.entries[0].Meta["reason"])
	}
}

func TestStartHTTPServer_ListenError(t *testing.T) {
	err := bootstrap.StartHTTPServer(context.Background(), http.NotFoundHandler(),
		config.ServerConfig{Port: "not-a-port"}, &recordingAuditLogger{})

	assert.Error(t, err)
}

func TestNewHTTPServer(t *testing.T) {
	srv := bootstrap.NewHTTPServer(http.NotFoundHandler(), config.ServerConfig{
		Port:        "8080",
		ReadTimeout: 3 * time.Second,
	})

	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 3*time.Second, srv.ReadTimeout)
}

func TestNewLogger(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	logger, err := bootstrap.NewLogger(bootstrap.LogConfig{Level: "warn", Environment: "production", ServiceName: "crud"})

	assert.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	assert.Same(t, logger, zap.L())

	dev, err := bootstrap.NewLogger(bootstrap.LogConfig{Level: "debug", Environment: "development"})
	assert.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))
}

func TestStdoutAuditLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	bootstrap.NewStdoutAuditLogger(zap.New(core)).Log(context.Background(), bootstrap.AuditLog{
		Action:  "SERVER_SHUTDOWN",
		Message: "bye",
	})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "audit", entries[0].LoggerName)
		assert.Equal(t, "SERVER_SHUTDOWN", entries[0].ContextMap()["action"])
	}
}
