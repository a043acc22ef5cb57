package domain

import (
	"context"
	"time"
)

const (
	RoleCandidate = "candidate"
	RoleAdmin     = "admin"
)

const (
	RemotePreferenceRemote   = "Remote"
	RemotePreferenceHybrid   = "Hybrid"
	RemotePreferenceOnsite   = "On-site"
	RemotePreferenceFlexible = "Flexible"
)

// UserProfile is owned by the user-management side; matching only reads it.
type UserProfile struct {
	ID                 int64     `json:"id"`
	UserID             string    `json:"user_id" validate:"required"`
	Email              string    `json:"email" validate:"omitempty,email"`
	FullName           string    `json:"full_name" validate:"max=120,no_emoji"`
	Role               string    `json:"role"`
	Skills             []string  `json:"skills" validate:"max=100,dive,required,max=60"`
	Location           string    `json:"location" validate:"max=120"`
	ExperienceLevel    string    `json:"experience_level" validate:"omitempty,experience_level"`
	PreferredJobTypes  []string  `json:"preferred_job_types" validate:"dive,job_type"`
	PreferredLocations []string  `json:"preferred_locations" validate:"max=20,dive,max=120"`
	SalaryMin          *float64  `json:"salary_min,omitempty" validate:"omitempty,gte=0"`
	SalaryMax          *float64  `json:"salary_max,omitempty" validate:"omitempty,gte=0"`
	RemotePreference   string    `json:"remote_preference" validate:"omitempty,remote_preference"`
	ResumeURL          *string   `json:"resume_url,omitempty"`
	ResumeSummary      string    `json:"resume_summary,omitempty"`
	EmailNotifications bool      `json:"email_notifications"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*UserProfile, error)
	Upsert(ctx context.Context, profile *UserProfile) error
	UpdateResume(ctx context.Context, userID, resumeURL, summary string, skills []string) error
	ListNotifiable(ctx context.Context) ([]UserProfile, error)
	CountProfiles(ctx context.Context) (int64, error)
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	UpdateProfile(ctx context.Context, profile *UserProfile) error
}
