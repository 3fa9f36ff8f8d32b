// Package requestlog appends routed requests to the log store on a best-effort basis.
package requestlog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/metrics"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/models"
)

// DefaultWriteTimeout bounds a single insert
const DefaultWriteTimeout = 5 * time.Second

// Store is the append side of the log store
type Store interface {
	InsertRequestLog(ctx context.Context, log *models.RequestLog) error
}

// Recorder writes request logs and swallows storage faults
type Recorder struct {
	store   Store
	log     *zap.SugaredLogger
	timeout time.Duration
	now     func() time.Time
}

// NewRecorder creates a recorder over store
func NewRecorder(store Store, log *zap.SugaredLogger) *Recorder {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Recorder{
		store:   store,
		log:     log,
		timeout: DefaultWriteTimeout,
		now:     time.Now,
	}
}

// Record appends entry. A missing ID or timestamp is filled in. Failures are logged, never returned.
// The write outlives a cancelled request context but not the write timeout.
func (r *Recorder) Record(ctx context.Context, entry *models.RequestLog) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.now().UTC()
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	if err := r.store.InsertRequestLog(writeCtx, entry); err != nil {
		metrics.LogWriteFailures.Inc()
		r.log.Warnw("Database logging failed",
			"id", entry.ID,
			"tier", entry.Tier,
			"model", entry.ModelUsed,
			"error", err,
		)
		return
	}

	r.log.Debugw("Request logged",
		"id", entry.ID,
		"tier", entry.Tier,
		"model", entry.ModelUsed,
		"tokens", entry.TokenCount,
		"saved_usd", entry.Savings.String(),
	)
}
