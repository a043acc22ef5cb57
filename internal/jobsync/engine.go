package jobsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/logger"
)

// AckStatusSynced is written back to the source for every processed record.
const AckStatusSynced = "Synced"

// DefaultFetchDelay spends one request slot of a 5 req/s budget after the bulk fetch.
const DefaultFetchDelay = 200 * time.Millisecond

// JobSource is the external job source (Airtable).
type JobSource interface {
	ListActive(ctx context.Context) ([]domain.ExternalJobRecord, error)
	AcknowledgeSync(ctx context.Context, externalID, status string) error
}

// JobStore is the write side of the job repository used by the engine.
// FindByExternalID returns (nil, nil) when no row exists.
type JobStore interface {
	FindByExternalID(ctx context.Context, externalID string) (*domain.Job, error)
	Insert(ctx context.Context, job *domain.Job) error
	UpdateByExternalID(ctx context.Context, job *domain.Job) error
	DeactivateMissing(ctx context.Context, dataSource string, activeExternalIDs []string) (int64, error)
}

type outcome int

const (
	outcomeUnchanged outcome = iota
	outcomeAdded
	outcomeUpdated
)

// Engine runs one sequential reconciliation pass. It holds no state between runs.
type Engine struct {
	source     JobSource
	store      JobStore
	fetchDelay time.Duration
	now        func() time.Time
	log        *slog.Logger
}

type Option func(*Engine)

func WithFetchDelay(d time.Duration) Option {
	return func(e *Engine) { e.fetchDelay = d }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func NewEngine(source JobSource, store JobStore, opts ...Option) *Engine {
	e := &Engine{
		source:     source,
		store:      store,
		fetchDelay: DefaultFetchDelay,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) logger() *slog.Logger {
	if e.log != nil {
		return e.log
	}
	return logger.Log
}

// SyncAll fetches every active source record and applies inserts, updates and
// deactivations. Failures are collected into the result; SyncAll never returns
// an error of its own.
func (e *Engine) SyncAll(ctx context.Context) domain.SyncResult {
	result := domain.SyncResult{
		Errors:   []string{},
		SyncDate: e.now(),
	}
	log := e.logger()

	records, err := e.source.ListActive(ctx)
	if err != nil {
		log.Error("Failed to fetch jobs from source", "error", err)
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to fetch jobs from Airtable: %v", err))
		return result
	}
	result.TotalProcessed = len(records)
	log.Info("Fetched active jobs from source", "count", len(records))

	if e.fetchDelay > 0 {
		select {
		case <-time.After(e.fetchDelay):
		case <-ctx.Done():
			result.Errors = append(result.Errors, fmt.Sprintf("Sync cancelled: %v", ctx.Err()))
			return result
		}
	}

	fetchedIDs := make([]string, 0, len(records))
	for _, rec := range records {
		fetchedIDs = append(fetchedIDs, rec.ID)

		job := Transform(rec)
		if v := ValidateRequired(job); !v.IsValid {
			msg := fmt.Sprintf("Record %s: validation failed: %s", rec.ID, strings.Join(v.Errors, "; "))
			log.Warn("Skipping invalid job record", "external_id", rec.ID, "errors", v.Errors)
			result.Errors = append(result.Errors, msg)
			continue
		}

		out, err := e.syncRecord(ctx, &job)
		if err != nil {
			log.Error("Failed to sync job record", "external_id", rec.ID, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("Record %s: %v", rec.ID, err))
			continue
		}
		switch out {
		case outcomeAdded:
			result.Added++
		case outcomeUpdated:
			result.Updated++
		default:
			result.Unchanged++
		}
	}

	deactivated, err := e.store.DeactivateMissing(ctx, domain.DataSourceAirtable, fetchedIDs)
	if err != nil {
		log.Error("Failed to deactivate missing jobs", "error", err)
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to deactivate removed jobs: %v", err))
	}
	result.Deactivated = int(deactivated)

	log.Info("Job sync finished",
		"added", result.Added,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"deactivated", result.Deactivated,
		"errors", len(result.Errors),
	)
	return result
}

// syncRecord looks the job up, writes it when new or changed, and acknowledges
// it back to the source. A panic in a collaborator is reported as this record's error.
func (e *Engine) syncRecord(ctx context.Context, job *domain.Job) (out outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	existing, err := e.store.FindByExternalID(ctx, job.ExternalID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return outcomeUnchanged, fmt.Errorf("lookup failed: %w", err)
	}

	switch {
	case existing == nil:
		if err := e.write(ctx, job, e.store.Insert); err != nil {
			return outcomeUnchanged, fmt.Errorf("insert failed: %w", err)
		}
		out = outcomeAdded
	case AreDifferent(*existing, *job):
		job.ID = existing.ID
		job.CreatedAt = existing.CreatedAt
		if err := e.write(ctx, job, e.store.UpdateByExternalID); err != nil {
			return outcomeUnchanged, fmt.Errorf("update failed: %w", err)
		}
		out = outcomeUpdated
	default:
		*job = *existing
		out = outcomeUnchanged
	}

	if err := e.source.AcknowledgeSync(ctx, job.ExternalID, AckStatusSynced); err != nil {
		e.logger().Warn("Failed to acknowledge sync to source", "external_id", job.ExternalID, "error", err)
	}
	return out, nil
}

// write persists job as synced. The in-memory job only becomes synced once
// the store accepted the row; otherwise it is marked error.
func (e *Engine) write(ctx context.Context, job *domain.Job, persist func(context.Context, *domain.Job) error) error {
	syncedAt := e.now()
	row := *job
	row.SyncStatus = domain.SyncStatusSynced
	row.LastSyncDate = &syncedAt

	if err := persist(ctx, &row); err != nil {
		job.SyncStatus = domain.SyncStatusError
		return err
	}
	*job = row
	return nil
}
