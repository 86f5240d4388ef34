package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/shinshu-solutions/shinshu-web/internal/auth"
	jobmetrics "github.com/shinshu-solutions/shinshu-web/internal/jobs"
)

// SessionSweepCron removes expired session rows nightly. Correctness does not
// depend on it; expired sessions already fail to resolve.
const SessionSweepCron = "0 3 * * *"

// NewSessionSweepHandler returns the handler processing TaskTypeSessionSweep
// tasks.
func NewSessionSweepHandler(sessions *auth.SessionManager, metrics *jobmetrics.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track("session_sweep")
		removed, err := sessions.SweepExpired(ctx)
		if err != nil {
			logger.Error("session sweep", slog.Any("error", err))
			return tracker.End(err)
		}
		metrics.AddSweptSessions(removed)
		logger.Info("session sweep complete", slog.Int64("removed", removed))
		return tracker.End(nil)
	}
}
