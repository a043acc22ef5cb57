package domain

import "context"

// MatchEmail is the payload handed to the mail collaborator.
type MatchEmail struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a rendered email; implemented over the Resend API.
type Mailer interface {
	Send(ctx context.Context, msg MatchEmail) (string, error)
}

// DigestReport summarises a batch of digest sends.
type DigestReport struct {
	Profiles int      `json:"profiles"`
	Sent     int      `json:"sent"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

type NotificationUsecase interface {
	SendMatchDigest(ctx context.Context, userID string) (bool, error)
	SendDigests(ctx context.Context) (*DigestReport, error)
}
