package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/internal/matching"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/audit"
	"go-jobmatch-backend/pkg/email"
	"go-jobmatch-backend/pkg/logger"
)

type NotificationConfig struct {
	MinScore    int
	MaxJobs     int
	FrontendURL string
}

type notificationUsecase struct {
	profiles domain.ProfileRepository
	jobs     domain.JobRepository
	scorer   *matching.Scorer
	mailer   domain.Mailer
	audit    *audit.Logger
	cfg      NotificationConfig
}

// NewNotificationUsecase builds the digest sender. A nil mailer makes every send fail as unavailable.
func NewNotificationUsecase(profiles domain.ProfileRepository, jobs domain.JobRepository, scorer *matching.Scorer, mailer domain.Mailer, auditLog *audit.Logger, cfg NotificationConfig) domain.NotificationUsecase {
	if cfg.MinScore <= 0 {
		cfg.MinScore = 70
	}
	if cfg.MaxJobs <= 0 {
		cfg.MaxJobs = 10
	}
	return &notificationUsecase{profiles: profiles, jobs: jobs, scorer: scorer, mailer: mailer, audit: auditLog, cfg: cfg}
}

// SendMatchDigest mails userID their top matches. It reports false when nothing was sent.
func (u *notificationUsecase) SendMatchDigest(ctx context.Context, userID string) (bool, error) {
	if u.mailer == nil {
		return false, apperror.Unavailable("Email delivery is not configured", nil)
	}

	profile, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, apperror.NotFound("Profile not found")
		}
		return false, apperror.Internal(err)
	}
	if !profile.EmailNotifications || profile.Email == "" {
		return false, nil
	}

	pool, err := loadActivePool(ctx, u.jobs, domain.JobQuery{})
	if err != nil {
		return false, apperror.Internal(err)
	}
	return u.send(ctx, *profile, pool)
}

// SendDigests mails every opted-in profile. Per-profile failures are collected, never fatal.
func (u *notificationUsecase) SendDigests(ctx context.Context) (*domain.DigestReport, error) {
	if u.mailer == nil {
		return nil, apperror.Unavailable("Email delivery is not configured", nil)
	}

	profiles, err := u.profiles.ListNotifiable(ctx)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("list notifiable profiles: %w", err))
	}
	pool, err := loadActivePool(ctx, u.jobs, domain.JobQuery{})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	report := &domain.DigestReport{Profiles: len(profiles), Errors: []string{}}
	for _, p := range profiles {
		if ctx.Err() != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Digest run cancelled: %v", ctx.Err()))
			break
		}
		sent, err := u.send(ctx, p, pool)
		switch {
		case err != nil:
			report.Errors = append(report.Errors, fmt.Sprintf("User %s: %v", p.UserID, err))
		case sent:
			report.Sent++
		default:
			report.Skipped++
		}
	}

	u.audit.Log(ctx, audit.Event{
		Type:      audit.EventDigestSent,
		ActorID:   actorOrSystem(ctx),
		RequestID: ctxString(ctx, domain.KeyRequestID),
		Details:   map[string]any{"profiles": report.Profiles, "sent": report.Sent, "skipped": report.Skipped, "errors": len(report.Errors)},
	})
	logger.Log.Info("Match digests processed", "profiles", report.Profiles, "sent", report.Sent, "skipped", report.Skipped, "errors", len(report.Errors))
	return report, nil
}

func (u *notificationUsecase) send(ctx context.Context, profile domain.UserProfile, pool []domain.Job) (bool, error) {
	result := u.scorer.FindMatches(profile, pool, domain.MatchFilters{MinScore: u.cfg.MinScore, Limit: u.cfg.MaxJobs})
	if len(result.Matches) == 0 {
		return false, nil
	}

	subject, html, text, err := email.RenderDigest(email.DigestData{
		Name:        profile.FullName,
		Matches:     result.Matches,
		FrontendURL: u.cfg.FrontendURL,
	})
	if err != nil {
		return false, fmt.Errorf("render digest: %w", err)
	}

	id, err := u.mailer.Send(ctx, domain.MatchEmail{To: profile.Email, Subject: subject, HTML: html, Text: text})
	if err != nil {
		return false, fmt.Errorf("send digest: %w", err)
	}
	logger.Log.Info("Match digest sent", "user_id", profile.UserID, "matches", len(result.Matches), "email_id", id)
	return true, nil
}

func actorOrSystem(ctx context.Context) string {
	if id := ctxString(ctx, domain.KeyUserID); id != "" {
		return id
	}
	return "system"
}
