package domain

import (
	"context"
	"time"
)

// Sync triggers
const (
	SyncTriggerSchedule = "schedule"
	SyncTriggerManual   = "manual"
	SyncTriggerStartup  = "startup"
)

// SyncResult aggregates one reconciliation pass of the job source into the store.
type SyncResult struct {
	RunID          string    `json:"run_id,omitempty"`
	Added          int       `json:"added"`
	Updated        int       `json:"updated"`
	Unchanged      int       `json:"unchanged"`
	Deactivated    int       `json:"deactivated"`
	Errors         []string  `json:"errors"`
	TotalProcessed int       `json:"total_processed"`
	SyncDate       time.Time `json:"sync_date"`
}

// SyncLog is a persisted SyncResult for the admin dashboard.
type SyncLog struct {
	ID          int64      `json:"id"`
	Trigger     string     `json:"trigger"`
	TriggeredBy *string    `json:"triggered_by,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	SyncResult
}

type SyncLogRepository interface {
	Create(ctx context.Context, log *SyncLog) error
	List(ctx context.Context, limit, offset int) ([]SyncLog, int64, error)
	Latest(ctx context.Context) (*SyncLog, error)
}

// SyncLocker guards against overlapping sync runs.
type SyncLocker interface {
	TryLock(ctx context.Context, token string) (bool, error)
	Unlock(ctx context.Context, token string) error
}

type SyncUsecase interface {
	Run(ctx context.Context, trigger string) (*SyncResult, error)
	ListLogs(ctx context.Context, page, pageSize int) ([]SyncLog, int64, error)
}
