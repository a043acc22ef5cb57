package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/audit"
	"go-jobmatch-backend/pkg/logger"

	"github.com/google/uuid"
)

var ErrSyncInProgress = errors.New("sync already in progress")

// SyncRunner performs one reconciliation pass; implemented by jobsync.Engine.
type SyncRunner interface {
	SyncAll(ctx context.Context) domain.SyncResult
}

type syncUsecase struct {
	engine SyncRunner
	logs   domain.SyncLogRepository
	locker domain.SyncLocker
	audit  *audit.Logger
	now    func() time.Time
}

func NewSyncUsecase(engine SyncRunner, logs domain.SyncLogRepository, locker domain.SyncLocker, auditLog *audit.Logger) domain.SyncUsecase {
	if locker == nil {
		locker = NewLocalSyncLocker()
	}
	return &syncUsecase{
		engine: engine,
		logs:   logs,
		locker: locker,
		audit:  auditLog,
		now:    time.Now,
	}
}

// Run executes a sync unless another run holds the lock, then persists the outcome.
func (u *syncUsecase) Run(ctx context.Context, trigger string) (*domain.SyncResult, error) {
	runID := uuid.NewString()
	actor := ctxString(ctx, domain.KeyUserID)
	if actor == "" {
		actor = "system"
	}
	requestID := ctxString(ctx, domain.KeyRequestID)

	acquired, err := u.locker.TryLock(ctx, runID)
	if err != nil {
		logger.Log.Error("Failed to acquire sync lock", "error", err, "run_id", runID)
		return nil, apperror.Unavailable("Sync lock is unavailable", err)
	}
	if !acquired {
		u.audit.Log(ctx, audit.Event{Type: audit.EventSyncSkipped, ActorID: actor, RequestID: requestID,
			Details: map[string]any{"trigger": trigger}})
		return nil, apperror.New(http.StatusConflict, "A job sync is already in progress", ErrSyncInProgress)
	}
	defer func() {
		// The caller's ctx may already be cancelled; release regardless
		unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := u.locker.Unlock(unlockCtx, runID); err != nil {
			logger.Log.Warn("Failed to release sync lock", "error", err, "run_id", runID)
		}
	}()

	u.audit.Log(ctx, audit.Event{Type: audit.EventSyncStarted, ActorID: actor, RequestID: requestID,
		Details: map[string]any{"trigger": trigger, "run_id": runID}})
	logger.Log.Info("Job sync started", "run_id", runID, "trigger", trigger)

	started := u.now()
	result := u.engine.SyncAll(ctx)
	result.RunID = runID
	finished := u.now()

	entry := &domain.SyncLog{
		Trigger:    trigger,
		StartedAt:  started,
		FinishedAt: &finished,
		SyncResult: result,
	}
	if actor != "system" {
		entry.TriggeredBy = &actor
	}
	if err := u.logs.Create(ctx, entry); err != nil {
		logger.Log.Error("Failed to persist sync log", "error", err, "run_id", runID)
	}

	eventType := audit.EventSyncFinished
	if result.TotalProcessed == 0 && len(result.Errors) > 0 {
		eventType = audit.EventSyncFailed
	}
	u.audit.Log(ctx, audit.Event{Type: eventType, ActorID: actor, RequestID: requestID, Details: map[string]any{
		"run_id":      runID,
		"trigger":     trigger,
		"added":       result.Added,
		"updated":     result.Updated,
		"unchanged":   result.Unchanged,
		"deactivated": result.Deactivated,
		"errors":      len(result.Errors),
		"duration_ms": finished.Sub(started).Milliseconds(),
	}})
	logger.Log.Info("Job sync finished",
		"run_id", runID,
		"added", result.Added,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"deactivated", result.Deactivated,
		"errors", len(result.Errors),
	)

	return &result, nil
}

func (u *syncUsecase) ListLogs(ctx context.Context, page, pageSize int) ([]domain.SyncLog, int64, error) {
	page, pageSize = normalizePage(page, pageSize, 20, 100)
	return u.logs.List(ctx, pageSize, (page-1)*pageSize)
}

// localLocker guards a single process when Redis is not configured.
type localLocker struct {
	mu     sync.Mutex
	holder string
	guard  sync.Mutex
}

func NewLocalSyncLocker() domain.SyncLocker {
	return &localLocker{}
}

func (l *localLocker) TryLock(_ context.Context, token string) (bool, error) {
	if !l.mu.TryLock() {
		return false, nil
	}
	l.guard.Lock()
	l.holder = token
	l.guard.Unlock()
	return true, nil
}

func (l *localLocker) Unlock(_ context.Context, token string) error {
	l.guard.Lock()
	defer l.guard.Unlock()
	if l.holder != token || token == "" {
		return nil
	}
	l.holder = ""
	l.mu.Unlock()
	return nil
}
