package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

// Job type values accepted from the source. Anything else is dropped.
const (
	JobTypeFullTime = "Full-time"
	JobTypePartTime = "Part-time"
	JobTypeContract = "Contract"
	JobTypeRemote   = "Remote"
)

const (
	ExperienceEntry     = "Entry"
	ExperienceMid       = "Mid"
	ExperienceSenior    = "Senior"
	ExperienceExecutive = "Executive"
)

const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Job lifecycle status
const (
	JobStatusDraft   = "Draft"
	JobStatusActive  = "Active"
	JobStatusPaused  = "Paused"
	JobStatusExpired = "Expired"
	JobStatusFilled  = "Filled"
)

// Sync status of a stored job: pending → synced | error, inactive once gone from the source.
const (
	SyncStatusSynced   = "synced"
	SyncStatusPending  = "pending"
	SyncStatusError    = "error"
	SyncStatusInactive = "inactive"
)

// DataSourceAirtable tags rows owned by the Airtable sync.
const DataSourceAirtable = "airtable"

// DateLayout is the canonical calendar-date form of posted/expires dates.
const DateLayout = "2006-01-02"

// ExternalJobRecord is a raw record as returned by the job source.
type ExternalJobRecord struct {
	ID          string         `json:"id"`
	Fields      map[string]any `json:"fields"`
	CreatedTime string         `json:"createdTime,omitempty"`
}

// Job is the normalized, persisted job entity. Empty enum strings mean "undefined".
type Job struct {
	ID              int64      `json:"id"`
	ExternalID      string     `json:"external_id"`
	Title           string     `json:"title"`
	Company         string     `json:"company"`
	Location        string     `json:"location"`
	JobType         string     `json:"job_type,omitempty"`
	ExperienceLevel string     `json:"experience_level,omitempty"`
	Priority        string     `json:"priority,omitempty"`
	Status          string     `json:"status"`
	SalaryMin       *float64   `json:"salary_min,omitempty"`
	SalaryMax       *float64   `json:"salary_max,omitempty"`
	SalaryNotes     string     `json:"salary_notes,omitempty"`
	Description     string     `json:"description"`
	Requirements    string     `json:"requirements"`
	PostedDate      *string    `json:"posted_date,omitempty"`
	ExpiresDate     *string    `json:"expires_date,omitempty"`
	IsRemote        bool       `json:"is_remote"`
	SkillsRequired  []string   `json:"skills_required"`
	LastSyncDate    *time.Time `json:"last_sync_date,omitempty"`
	SyncStatus      string     `json:"sync_status"`
	DataSource      string     `json:"data_source"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// JobQuery narrows a candidate pool. Zero values mean "no filter".
type JobQuery struct {
	Search          string `json:"search,omitempty"`
	Location        string `json:"location,omitempty"`
	JobType         string `json:"job_type,omitempty"`
	ExperienceLevel string `json:"experience_level,omitempty"`
	RemoteOnly      bool   `json:"remote_only,omitempty"`
}

// JobListParams is a store read: filters plus status, newest posted first.
type JobListParams struct {
	JobQuery
	Status string
	Limit  int
	Offset int
}

type JobRepository interface {
	GetByID(ctx context.Context, id int64) (*Job, error)
	FindByExternalID(ctx context.Context, externalID string) (*Job, error)
	Insert(ctx context.Context, job *Job) error
	UpdateByExternalID(ctx context.Context, job *Job) error
	DeactivateMissing(ctx context.Context, dataSource string, activeExternalIDs []string) (int64, error)
	List(ctx context.Context, params JobListParams) ([]Job, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type JobUsecase interface {
	GetJob(ctx context.Context, id int64) (*Job, error)
	ListActiveJobs(ctx context.Context, query JobQuery, page, pageSize int) ([]Job, int64, error)
}
