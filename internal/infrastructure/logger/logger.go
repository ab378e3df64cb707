package logger

import (
	"browser-harness/internal/application/port/output"
	"browser-harness/internal/domain/entity"
)

var _ output.QueryObserver = (*QueryLogger)(nil)

// QueryLogger writes one structured entry per element query.
type QueryLogger struct {
	logger output.LoggerPort
}

func NewQueryLogger(l output.LoggerPort) *QueryLogger {
	return &QueryLogger{logger: l.Named("query")}
}

func (q *QueryLogger) ObserveQuery(r entity.QueryRecord) {
	args := []any{
		"locator", r.Locator.String(),
		"wait", r.WaitEnabled,
		"check_visibility", r.CheckVisibility,
		"check_enabled", r.CheckEnabled,
		"expected_count", r.ExpectedCount,
		"timeout_ms", r.Timeout.Milliseconds(),
		"duration_ms", r.Elapsed.Milliseconds(),
		"found", r.Found,
	}
	if len(r.IgnoredKinds) > 0 {
		args = append(args, "ignored", r.IgnoredKinds)
	}
	if r.Conditions > 0 {
		args = append(args, "conditions", r.Conditions)
	}

	if r.Err != nil {
		q.logger.Warn("element query failed", append(args, "error", r.Err.Error())...)
		return
	}
	q.logger.Info("element query", args...)
}
