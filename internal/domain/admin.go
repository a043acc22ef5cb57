package domain

import (
	"context"
	"io"
)

// AdminStats feeds the sync management dashboard
type AdminStats struct {
	TotalJobs     int64            `json:"totalJobs"`
	ActiveJobs    int64            `json:"activeJobs"`
	JobsByStatus  map[string]int64 `json:"jobsByStatus"`
	TotalProfiles int64            `json:"totalProfiles"`
	LastSync      *SyncLog         `json:"lastSync,omitempty"`
	SystemHealth  SystemHealth     `json:"systemHealth"`
}

type SystemHealth struct {
	Status      string `json:"status"`      // "healthy", "degraded"
	LastChecked string `json:"lastChecked"` // ISO8601 timestamp
}

// PaginatedResult is a generic paginated response
type PaginatedResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

type AdminUsecase interface {
	GetStats(ctx context.Context) (*AdminStats, error)
	TriggerSync(ctx context.Context) (*SyncResult, error)
	ListSyncLogs(ctx context.Context, page, pageSize int) (*PaginatedResult[SyncLog], error)
	ExportJobs(ctx context.Context, w io.Writer) error
	SendDigests(ctx context.Context) (*DigestReport, error)
}
