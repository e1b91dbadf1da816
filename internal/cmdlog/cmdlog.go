package cmdlog

import (
	"time"

	"github.com/google/uuid"

	"twittermcp/internal/logging"
	"twittermcp/internal/metrics"
)

// Run executes one tool invocation, counting it and logging the outcome
// under a fresh call id. The error from f is returned unchanged.
func Run(tool string, f func() error) error {
	id := uuid.NewString()
	start := time.Now()
	metrics.IncToolCall(tool)
	logging.Debug("tool_call", map[string]any{"tool": tool, "call_id": id})
	err := f()
	fields := map[string]any{"tool": tool, "call_id": id, "ms": time.Since(start).Milliseconds()}
	if err != nil {
		metrics.IncToolError(tool)
		fields["error"] = err.Error()
		logging.Error("tool_error", fields)
	} else {
		logging.Info("tool_ok", fields)
	}
	return err
}
