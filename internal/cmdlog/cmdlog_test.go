package cmdlog

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"twittermcp/internal/logging"
	"twittermcp/internal/metrics"
)

func TestRunRecordsOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := logging.L()
	logging.Set(zap.New(core))
	t.Cleanup(func() { logging.Set(prev) })

	require.NoError(t, Run("cmdlog_test", func() error { return nil }))
	boom := errors.New("boom")
	assert.ErrorIs(t, Run("cmdlog_test", func() error { return boom }), boom)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "tool_ok", entries[0].Message)
	assert.Equal(t, "tool_error", entries[1].Message)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	assert.NotEqual(t, entries[0].ContextMap()["call_id"], entries[1].ContextMap()["call_id"])

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `twittermcp_tool_calls_total{tool="cmdlog_test"} 2`), body)
	assert.True(t, strings.Contains(body, `twittermcp_tool_errors_total{tool="cmdlog_test"} 1`), body)
}
