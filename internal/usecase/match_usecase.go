package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/internal/matching"
	"go-jobmatch-backend/pkg/apperror"
)

// maxPoolSize bounds how many active jobs are scored per request.
const maxPoolSize = 2000

type matchUsecase struct {
	profiles domain.ProfileRepository
	jobs     domain.JobRepository
	scorer   *matching.Scorer
}

func NewMatchUsecase(profiles domain.ProfileRepository, jobs domain.JobRepository, scorer *matching.Scorer) domain.MatchUsecase {
	return &matchUsecase{profiles: profiles, jobs: jobs, scorer: scorer}
}

// FindMatches ranks the active jobs for userID. Profile or store failures abort the request.
func (u *matchUsecase) FindMatches(ctx context.Context, userID string, filters domain.MatchFilters) (*domain.MatchResult, error) {
	if err := requireOwner(ctx, userID); err != nil {
		return nil, err
	}

	profile, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Profile not found. Complete your profile to see matches.")
		}
		return nil, apperror.Internal(fmt.Errorf("load profile: %w", err))
	}

	pool, err := loadActivePool(ctx, u.jobs, filters.JobQuery)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	result := u.scorer.FindMatches(*profile, pool, filters)
	return &result, nil
}

// loadActivePool pushes the pool filters down to the store; the scorer reapplies them.
func loadActivePool(ctx context.Context, jobs domain.JobRepository, q domain.JobQuery) ([]domain.Job, error) {
	pool, _, err := jobs.List(ctx, domain.JobListParams{
		JobQuery: q,
		Status:   domain.JobStatusActive,
		Limit:    maxPoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("load active jobs: %w", err)
	}
	return pool, nil
}
