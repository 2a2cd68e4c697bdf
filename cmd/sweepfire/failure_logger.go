package main

import (
	"errors"

	"go.uber.org/zap"

	"github.com/torosent/sweepfire/internal/runner"
)

// zapFailureLogger reports failed requests. Failures never affect the sweep.
type zapFailureLogger struct {
	logger *zap.Logger
}

func newFailureLogger(logger *zap.Logger) *zapFailureLogger {
	return &zapFailureLogger{logger: logger}
}

func (l *zapFailureLogger) LogFailure(err error) {
	if err == nil {
		return
	}
	var httpErr *runner.HTTPError
	if errors.As(err, &httpErr) {
		l.logger.Warn("request failed",
			zap.Int("status", httpErr.StatusCode),
			zap.String("body", httpErr.Body),
		)
		return
	}
	l.logger.Warn("request failed", zap.Error(err))
}
