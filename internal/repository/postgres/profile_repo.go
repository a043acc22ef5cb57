package postgres

import (
	"context"
	"errors"

	"go-jobmatch-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

const profileColumns = `
	id, user_id::text, email, full_name, role, skills, location, experience_level,
	preferred_job_types, preferred_locations, salary_min::float8, salary_max::float8,
	remote_preference, resume_url, resume_summary, email_notifications, created_at, updated_at`

func scanProfile(row pgx.Row) (*domain.UserProfile, error) {
	var p domain.UserProfile
	var skills, jobTypes, locations []string
	err := row.Scan(
		&p.ID, &p.UserID, &p.Email, &p.FullName, &p.Role, pq.Array(&skills), &p.Location, &p.ExperienceLevel,
		pq.Array(&jobTypes), pq.Array(&locations), &p.SalaryMin, &p.SalaryMax,
		&p.RemotePreference, &p.ResumeURL, &p.ResumeSummary, &p.EmailNotifications, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Skills = nonNil(skills)
	p.PreferredJobTypes = nonNil(jobTypes)
	p.PreferredLocations = nonNil(locations)
	return &p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE user_id = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Upsert writes the user-editable fields. Role and resume data are left untouched on update.
func (r *profileRepo) Upsert(ctx context.Context, p *domain.UserProfile) error {
	query := `
		INSERT INTO user_profiles (
			user_id, email, full_name, skills, location, experience_level,
			preferred_job_types, preferred_locations, salary_min, salary_max,
			remote_preference, email_notifications, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name,
			skills = EXCLUDED.skills,
			location = EXCLUDED.location,
			experience_level = EXCLUDED.experience_level,
			preferred_job_types = EXCLUDED.preferred_job_types,
			preferred_locations = EXCLUDED.preferred_locations,
			salary_min = EXCLUDED.salary_min,
			salary_max = EXCLUDED.salary_max,
			remote_preference = EXCLUDED.remote_preference,
			email_notifications = EXCLUDED.email_notifications,
			updated_at = NOW()
		RETURNING id, role, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		p.UserID, p.Email, p.FullName, pq.Array(p.Skills), p.Location, p.ExperienceLevel,
		pq.Array(p.PreferredJobTypes), pq.Array(p.PreferredLocations), p.SalaryMin, p.SalaryMax,
		p.RemotePreference, p.EmailNotifications,
	).Scan(&p.ID, &p.Role, &p.CreatedAt, &p.UpdatedAt)
}

func (r *profileRepo) UpdateResume(ctx context.Context, userID, resumeURL, summary string, skills []string) error {
	query := `
		INSERT INTO user_profiles (user_id, resume_url, resume_summary, skills, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			resume_url = EXCLUDED.resume_url,
			resume_summary = EXCLUDED.resume_summary,
			skills = EXCLUDED.skills,
			updated_at = NOW()`

	_, err := r.db.Exec(ctx, query, userID, resumeURL, summary, pq.Array(skills))
	return err
}

// ListNotifiable returns profiles opted in to digests that have an address to send to.
func (r *profileRepo) ListNotifiable(ctx context.Context) ([]domain.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles
		WHERE email_notifications AND email <> '' ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.UserProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (r *profileRepo) CountProfiles(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_profiles`).Scan(&n)
	return n, err
}
