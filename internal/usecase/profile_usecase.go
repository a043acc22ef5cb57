package usecase

import (
	"context"
	"errors"
	"strings"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/resume"
	"go-jobmatch-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type profileUsecase struct {
	repo     domain.ProfileRepository
	validate *validator.Validate
}

func NewProfileUsecase(repo domain.ProfileRepository, validate *validator.Validate) domain.ProfileUsecase {
	return &profileUsecase{repo: repo, validate: validate}
}

func (u *profileUsecase) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if err := requireOwner(ctx, userID); err != nil {
		return nil, err
	}

	profile, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Profile not found")
		}
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

func (u *profileUsecase) UpdateProfile(ctx context.Context, profile *domain.UserProfile) error {
	ctxUserID := ctxString(ctx, domain.KeyUserID)
	if ctxUserID == "" {
		return apperror.Unauthorized("User not authenticated")
	}

	// Always the caller's own row, whatever the body says
	profile.UserID = ctxUserID
	if profile.Email == "" {
		profile.Email = ctxString(ctx, domain.KeyUserEmail)
	}
	profile.FullName = strings.TrimSpace(profile.FullName)
	profile.Location = strings.TrimSpace(profile.Location)
	profile.Skills = resume.DedupeFold(profile.Skills)
	profile.PreferredLocations = resume.DedupeFold(profile.PreferredLocations)

	if err := u.validate.Struct(profile); err != nil {
		return apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}
	if profile.SalaryMin != nil && profile.SalaryMax != nil && *profile.SalaryMin > *profile.SalaryMax {
		return apperror.BadRequest("Minimum salary cannot be greater than maximum salary")
	}

	if err := u.repo.Upsert(ctx, profile); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
