package auditlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/hrms/hrms/internal/platform/auth"
	"github.com/hrms/hrms/internal/platform/middleware"
)

// Entry is one mutating operation to be logged. UserID is taken from the
// request identity when left zero; set it explicitly for operations without
// an authenticated context yet, such as login.
type Entry struct {
	UserID   int64
	Module   string
	Action   string
	TargetID int64
	Details  map[string]any
}

// Recorder is the fire-and-forget audit sink used by every mutating service
// method. Implementations must never return; failures are swallowed.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// DBRecorder persists entries through the Repository, filling in the acting
// user and client metadata from the request context.
type DBRecorder struct {
	repo   Repository
	logger zerolog.Logger
}

func NewRecorder(repo Repository, logger zerolog.Logger) *DBRecorder {
	return &DBRecorder{repo: repo, logger: logger}
}

func (r *DBRecorder) Record(ctx context.Context, e Entry) {
	log := &OperationLog{
		Module: e.Module,
		Action: e.Action,
	}
	if e.UserID > 0 {
		log.UserID = &e.UserID
	} else if id, ok := auth.IdentityFromContext(ctx); ok {
		log.UserID = &id.UserID
	}
	if e.TargetID > 0 {
		log.TargetID = &e.TargetID
	}
	if m, ok := middleware.ClientMetaFromContext(ctx); ok {
		log.IPAddress = m.IP
		log.UserAgent = m.UserAgent
	}
	if len(e.Details) > 0 {
		b, err := json.Marshal(e.Details)
		if err != nil {
			r.logger.Error().Err(err).Str("module", e.Module).Str("action", e.Action).
				Msg("audit details marshal failed")
		} else {
			log.Details = b
		}
	}

	// Outlive the request so a client disconnect cannot drop the entry.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := r.repo.Insert(wctx, log); err != nil {
		r.logger.Error().Err(err).Str("module", e.Module).Str("action", e.Action).
			Msg("audit log write failed")
	}
}

// NopRecorder discards every entry.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Entry) {}
