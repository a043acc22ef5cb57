package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/audit"
	"go-jobmatch-backend/pkg/logger"
	"go-jobmatch-backend/pkg/resume"

	"github.com/google/uuid"
)

type resumeUsecase struct {
	profiles domain.ProfileRepository
	store    domain.FileStore
	analyzer domain.ResumeAnalyzer
	audit    *audit.Logger
}

// NewResumeUsecase wires the upload flow. A nil analyzer stores resumes without AI analysis.
func NewResumeUsecase(profiles domain.ProfileRepository, store domain.FileStore, analyzer domain.ResumeAnalyzer, auditLog *audit.Logger) domain.ResumeUsecase {
	return &resumeUsecase{profiles: profiles, store: store, analyzer: analyzer, audit: auditLog}
}

// Upload validates and stores a resume, then merges the analyzed skills into the profile.
// Analysis failures are logged and do not fail the upload.
func (u *resumeUsecase) Upload(ctx context.Context, userID, filename string, data []byte) (*domain.ResumeUpload, error) {
	if err := requireOwner(ctx, userID); err != nil {
		return nil, err
	}
	if len(data) > resume.MaxFileSize {
		return nil, apperror.TooLarge("Resume exceeds the 5 MB limit")
	}

	check := resume.ValidateFile(filename, data)
	if !check.Valid {
		logger.Log.Warn("Resume rejected", "user_id", userID, "reason", check.Error, "mime", check.DetectedMIME)
		return nil, apperror.BadRequest("Invalid resume: " + check.Error)
	}
	if u.store == nil {
		return nil, apperror.Unavailable("Resume storage is not configured", nil)
	}

	key := fmt.Sprintf("%s/%s%s", userID, uuid.NewString(), check.Extension)
	url, err := u.store.Upload(ctx, key, resume.ContentType(check.Extension), data)
	if err != nil {
		return nil, apperror.Unavailable("Failed to store resume", err)
	}

	analysis := u.analyze(ctx, userID, check.Extension, data)

	profile, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if profile == nil {
		profile = &domain.UserProfile{UserID: userID}
	}

	skills := profile.Skills
	summary := profile.ResumeSummary
	if analysis != nil {
		skills = resume.DedupeFold(append(append([]string{}, profile.Skills...), analysis.Skills...))
		if analysis.Summary != "" {
			summary = analysis.Summary
		}
	}
	if err := u.profiles.UpdateResume(ctx, userID, url, summary, skills); err != nil {
		return nil, apperror.Internal(err)
	}

	updated, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	u.audit.Log(ctx, audit.Event{
		Type:      audit.EventResumeUploaded,
		ActorID:   userID,
		RequestID: ctxString(ctx, domain.KeyRequestID),
		Details:   map[string]any{"key": key, "analyzed": analysis != nil, "size": len(data)},
	})

	return &domain.ResumeUpload{ResumeURL: url, Analysis: analysis, Profile: updated}, nil
}

func (u *resumeUsecase) analyze(ctx context.Context, userID, ext string, data []byte) *domain.ResumeAnalysis {
	if u.analyzer == nil {
		return nil
	}
	text, err := resume.ExtractText(ext, data)
	if err != nil {
		logger.Log.Warn("Resume text extraction failed", "user_id", userID, "error", err)
		return nil
	}
	analysis, err := u.analyzer.Analyze(ctx, text)
	if err != nil {
		logger.Log.Warn("Resume analysis failed", "user_id", userID, "error", err)
		return nil
	}
	return analysis
}
