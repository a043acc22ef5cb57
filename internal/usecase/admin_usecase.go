package usecase

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/audit"
	"go-jobmatch-backend/pkg/export"
)

// maxExportRows bounds a single XLSX export
const maxExportRows = 50000

type adminUsecase struct {
	jobs     domain.JobRepository
	profiles domain.ProfileRepository
	logs     domain.SyncLogRepository
	sync     domain.SyncUsecase
	notify   domain.NotificationUsecase
	audit    *audit.Logger
	now      func() time.Time
}

func NewAdminUsecase(
	jobs domain.JobRepository,
	profiles domain.ProfileRepository,
	logs domain.SyncLogRepository,
	syncUC domain.SyncUsecase,
	notifyUC domain.NotificationUsecase,
	auditLog *audit.Logger,
) domain.AdminUsecase {
	return &adminUsecase{
		jobs:     jobs,
		profiles: profiles,
		logs:     logs,
		sync:     syncUC,
		notify:   notifyUC,
		audit:    auditLog,
		now:      time.Now,
	}
}

// GetStats returns dashboard statistics
func (u *adminUsecase) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	if err := u.requireAdmin(ctx); err != nil {
		return nil, err
	}

	byStatus, err := u.jobs.CountByStatus(ctx)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("count jobs: %w", err))
	}
	var total int64
	for _, n := range byStatus {
		total += n
	}

	profiles, err := u.profiles.CountProfiles(ctx)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("count profiles: %w", err))
	}

	latest, err := u.logs.Latest(ctx)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("latest sync: %w", err))
	}

	health := "healthy"
	// A run that fetched nothing and reported errors means the source is unreachable
	if latest != nil && latest.TotalProcessed == 0 && len(latest.Errors) > 0 {
		health = "degraded"
	}

	return &domain.AdminStats{
		TotalJobs:     total,
		ActiveJobs:    byStatus[domain.JobStatusActive],
		JobsByStatus:  byStatus,
		TotalProfiles: profiles,
		LastSync:      latest,
		SystemHealth: domain.SystemHealth{
			Status:      health,
			LastChecked: u.now().UTC().Format(time.RFC3339),
		},
	}, nil
}

func (u *adminUsecase) TriggerSync(ctx context.Context) (*domain.SyncResult, error) {
	if err := u.requireAdmin(ctx); err != nil {
		return nil, err
	}
	return u.sync.Run(ctx, domain.SyncTriggerManual)
}

func (u *adminUsecase) ListSyncLogs(ctx context.Context, page, pageSize int) (*domain.PaginatedResult[domain.SyncLog], error) {
	if err := u.requireAdmin(ctx); err != nil {
		return nil, err
	}

	page, pageSize = normalizePage(page, pageSize, 20, 100)
	logs, total, err := u.sync.ListLogs(ctx, page, pageSize)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("list sync logs: %w", err))
	}

	return &domain.PaginatedResult[domain.SyncLog]{
		Data:       logs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// ExportJobs writes every stored job, whatever its status, as XLSX.
func (u *adminUsecase) ExportJobs(ctx context.Context, w io.Writer) error {
	if err := u.requireAdmin(ctx); err != nil {
		return err
	}

	jobs, _, err := u.jobs.List(ctx, domain.JobListParams{Limit: maxExportRows})
	if err != nil {
		return apperror.Internal(fmt.Errorf("list jobs for export: %w", err))
	}
	if err := export.WriteJobsXLSX(w, jobs); err != nil {
		return apperror.Internal(fmt.Errorf("write xlsx: %w", err))
	}

	u.audit.Log(ctx, audit.Event{
		Type:      audit.EventJobsExported,
		ActorID:   ctxString(ctx, domain.KeyUserID),
		RequestID: ctxString(ctx, domain.KeyRequestID),
		Details:   map[string]any{"rows": len(jobs)},
	})
	return nil
}

func (u *adminUsecase) SendDigests(ctx context.Context) (*domain.DigestReport, error) {
	if err := u.requireAdmin(ctx); err != nil {
		return nil, err
	}
	return u.notify.SendDigests(ctx)
}

func (u *adminUsecase) requireAdmin(ctx context.Context) error {
	if err := requireAdmin(ctx); err != nil {
		u.audit.Log(ctx, audit.Event{
			Type:      audit.EventAdminDenied,
			ActorID:   ctxString(ctx, domain.KeyUserID),
			RequestID: ctxString(ctx, domain.KeyRequestID),
		})
		return err
	}
	return nil
}
