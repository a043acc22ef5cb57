package postgres

import (
	"context"
	"errors"

	"go-jobmatch-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type syncLogRepo struct {
	db *pgxpool.Pool
}

func NewSyncLogRepository(db *pgxpool.Pool) domain.SyncLogRepository {
	return &syncLogRepo{db: db}
}

const syncLogColumns = `
	id, run_id::text, trigger, triggered_by, added, updated, unchanged, deactivated,
	total_processed, errors, sync_date, started_at, finished_at`

func scanSyncLog(row pgx.Row) (*domain.SyncLog, error) {
	var l domain.SyncLog
	var errs []string
	err := row.Scan(
		&l.ID, &l.RunID, &l.Trigger, &l.TriggeredBy, &l.Added, &l.Updated, &l.Unchanged, &l.Deactivated,
		&l.TotalProcessed, pq.Array(&errs), &l.SyncDate, &l.StartedAt, &l.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Errors = nonNil(errs)
	return &l, nil
}

func (r *syncLogRepo) Create(ctx context.Context, l *domain.SyncLog) error {
	query := `
		INSERT INTO sync_logs (
			run_id, trigger, triggered_by, added, updated, unchanged, deactivated,
			total_processed, errors, sync_date, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	return r.db.QueryRow(ctx, query,
		l.RunID, l.Trigger, l.TriggeredBy, l.Added, l.Updated, l.Unchanged, l.Deactivated,
		l.TotalProcessed, pq.Array(l.Errors), l.SyncDate, l.StartedAt, l.FinishedAt,
	).Scan(&l.ID)
}

func (r *syncLogRepo) List(ctx context.Context, limit, offset int) ([]domain.SyncLog, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sync_logs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + syncLogColumns + ` FROM sync_logs ORDER BY started_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	logs := []domain.SyncLog{}
	for rows.Next() {
		l, err := scanSyncLog(rows)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, *l)
	}
	return logs, total, rows.Err()
}

// Latest returns (nil, nil) before the first run.
func (r *syncLogRepo) Latest(ctx context.Context) (*domain.SyncLog, error) {
	query := `SELECT ` + syncLogColumns + ` FROM sync_logs ORDER BY started_at DESC LIMIT 1`
	l, err := scanSyncLog(r.db.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}
