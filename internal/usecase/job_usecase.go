package usecase

import (
	"context"
	"errors"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
)

type jobUsecase struct {
	jobRepo domain.JobRepository
}

func NewJobUsecase(jobRepo domain.JobRepository) domain.JobUsecase {
	return &jobUsecase{jobRepo: jobRepo}
}

func (u *jobUsecase) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	if id <= 0 {
		return nil, apperror.BadRequest("Invalid job ID")
	}
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal(err)
	}
	return job, nil
}

// ListActiveJobs returns one page of active jobs, newest posted first.
func (u *jobUsecase) ListActiveJobs(ctx context.Context, query domain.JobQuery, page, pageSize int) ([]domain.Job, int64, error) {
	page, pageSize = normalizePage(page, pageSize, 20, 100)

	jobs, total, err := u.jobRepo.List(ctx, domain.JobListParams{
		JobQuery: query,
		Status:   domain.JobStatusActive,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	})
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return jobs, total, nil
}
