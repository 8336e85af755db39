package obs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey string

const (
	RequestIDKey ctxKey = "req_id"
	loggerKey    ctxKey = "logger"
)

// WithRequestID stores the request id used to correlate log lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// WithLogger stores the base logger for everything downstream of ctx.
func WithLogger(ctx context.Context, l logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// Logger returns the request-scoped log entry, tagged with req_id when set.
// Without a stored logger it falls back to the logrus standard logger.
func Logger(ctx context.Context) logrus.FieldLogger {
	l, ok := ctx.Value(loggerKey).(logrus.FieldLogger)
	if !ok {
		l = logrus.StandardLogger()
	}

	if reqID, _ := ctx.Value(RequestIDKey).(string); reqID != "" {
		return l.WithField("req_id", reqID)
	}
	return l
}

// Time logs the duration of an operation when the returned func is called,
// typically as `defer obs.Time(ctx, "op")(&err)`.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		entry := Logger(ctx).WithFields(logrus.Fields{
			"op":     name,
			"dur_ms": time.Since(start).Milliseconds(),
		})

		if errp != nil && *errp != nil {
			entry.WithError(*errp).Warn("operation failed")
			return
		}
		entry.Debug("operation finished")
	}
}
