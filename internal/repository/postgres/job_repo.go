package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-jobmatch-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

// Dates are read back as canonical YYYY-MM-DD strings; empty enums are stored as NULL.
const jobColumns = `
	id, external_id, title, company, location,
	COALESCE(job_type, ''), COALESCE(experience_level, ''), COALESCE(priority, ''), status,
	salary_min::float8, salary_max::float8, salary_notes, description, requirements,
	to_char(posted_date, 'YYYY-MM-DD'), to_char(expires_date, 'YYYY-MM-DD'),
	is_remote, skills_required, last_sync_date, sync_status, data_source, created_at, updated_at`

func scanJob(row pgx.Row) (*domain.Job, error) {
	var j domain.Job
	var skills []string
	err := row.Scan(
		&j.ID, &j.ExternalID, &j.Title, &j.Company, &j.Location,
		&j.JobType, &j.ExperienceLevel, &j.Priority, &j.Status,
		&j.SalaryMin, &j.SalaryMax, &j.SalaryNotes, &j.Description, &j.Requirements,
		&j.PostedDate, &j.ExpiresDate,
		&j.IsRemote, pq.Array(&skills), &j.LastSyncDate, &j.SyncStatus, &j.DataSource, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if skills == nil {
		skills = []string{}
	}
	j.SkillsRequired = skills
	return &j, nil
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	job, err := scanJob(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// FindByExternalID returns (nil, nil) when the source record has never been stored.
func (r *jobRepo) FindByExternalID(ctx context.Context, externalID string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE external_id = $1`
	job, err := scanJob(r.db.QueryRow(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return job, nil
}

func (r *jobRepo) Insert(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (
			external_id, title, company, location, job_type, experience_level, priority, status,
			salary_min, salary_max, salary_notes, description, requirements, posted_date, expires_date,
			is_remote, skills_required, last_sync_date, sync_status, data_source, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8,
			$9, $10, $11, $12, $13, $14::date, $15::date,
			$16, $17, $18, $19, $20, NOW(), NOW()
		) RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		job.ExternalID, job.Title, job.Company, job.Location, job.JobType, job.ExperienceLevel, job.Priority, job.Status,
		job.SalaryMin, job.SalaryMax, job.SalaryNotes, job.Description, job.Requirements, job.PostedDate, job.ExpiresDate,
		job.IsRemote, pq.Array(job.SkillsRequired), job.LastSyncDate, job.SyncStatus, job.DataSource,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
}

// UpdateByExternalID rewrites every source-owned column plus the sync stamp in one statement.
func (r *jobRepo) UpdateByExternalID(ctx context.Context, job *domain.Job) error {
	query := `
		UPDATE jobs SET
			title = $2, company = $3, location = $4,
			job_type = NULLIF($5, ''), experience_level = NULLIF($6, ''), priority = NULLIF($7, ''), status = $8,
			salary_min = $9, salary_max = $10, salary_notes = $11, description = $12, requirements = $13,
			posted_date = $14::date, expires_date = $15::date, is_remote = $16, skills_required = $17,
			last_sync_date = $18, sync_status = $19, data_source = $20, updated_at = NOW()
		WHERE external_id = $1
		RETURNING id, updated_at`

	err := r.db.QueryRow(ctx, query,
		job.ExternalID, job.Title, job.Company, job.Location, job.JobType, job.ExperienceLevel, job.Priority, job.Status,
		job.SalaryMin, job.SalaryMax, job.SalaryNotes, job.Description, job.Requirements, job.PostedDate, job.ExpiresDate,
		job.IsRemote, pq.Array(job.SkillsRequired), job.LastSyncDate, job.SyncStatus, job.DataSource,
	).Scan(&job.ID, &job.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// DeactivateMissing expires every active row of dataSource whose external id was not fetched.
func (r *jobRepo) DeactivateMissing(ctx context.Context, dataSource string, activeExternalIDs []string) (int64, error) {
	query := `
		UPDATE jobs
		SET status = $1, sync_status = $2, updated_at = NOW()
		WHERE data_source = $3
		  AND status = $4
		  AND NOT (external_id = ANY($5))`

	tag, err := r.db.Exec(ctx, query,
		domain.JobStatusExpired, domain.SyncStatusInactive, dataSource, domain.JobStatusActive,
		pq.Array(activeExternalIDs),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// List returns matching jobs newest-posted first plus the unpaged total.
func (r *jobRepo) List(ctx context.Context, params domain.JobListParams) ([]domain.Job, int64, error) {
	where, args := buildJobFilter(params)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + jobColumns + ` FROM jobs` + where + ` ORDER BY posted_date DESC NULLS LAST, id DESC`
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func buildJobFilter(p domain.JobListParams) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if p.Status != "" {
		add("status = $%d", p.Status)
	}
	if p.Search != "" {
		args = append(args, "%"+escapeLike(p.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(title ILIKE $%[1]d OR company ILIKE $%[1]d OR description ILIKE $%[1]d OR requirements ILIKE $%[1]d)", n))
	}
	if p.Location != "" {
		add("location ILIKE $%d", "%"+escapeLike(p.Location)+"%")
	}
	if p.JobType != "" {
		add("job_type = $%d", p.JobType)
	}
	if p.ExperienceLevel != "" {
		add("experience_level = $%d", p.ExperienceLevel)
	}
	if p.RemoteOnly {
		conds = append(conds, "is_remote")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *jobRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
