package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"go-jobmatch-backend/internal/domain"

	"github.com/resend/resend-go/v2"
)

var ErrNotConfigured = errors.New("email: RESEND_API_KEY not configured")

// ResendMailer delivers mail through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) (*ResendMailer, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	return &ResendMailer{client: resend.NewClient(apiKey), from: from}, nil
}

// Send returns the provider message id.
func (m *ResendMailer) Send(ctx context.Context, msg domain.MatchEmail) (string, error) {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return sent.Id, nil
}

// DigestData holds the data for the job match digest
type DigestData struct {
	Name        string
	Matches     []domain.JobMatch
	FrontendURL string
}

const digestTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Your job matches</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .job { background: #f9f9f9; padding: 15px; border-left: 4px solid #0066cc; margin-bottom: 12px; }
        .score { float: right; font-weight: bold; color: #0066cc; }
        .meta { color: #666; font-size: 14px; }
        .reasons { margin: 8px 0 0 0; padding-left: 18px; font-size: 13px; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{len .Matches}} new job match{{if ne (len .Matches) 1}}es{{end}}</h1>
        </div>
        <p>Hi {{if .Name}}{{.Name}}{{else}}there{{end}},</p>
        <p>These roles fit your profile best right now:</p>
        {{range .Matches}}
        <div class="job">
            <span class="score">{{.MatchScore}}%</span>
            <strong>{{.Title}}</strong>
            <div class="meta">{{.Company}} &middot; {{.Location}}{{if .JobType}} &middot; {{.JobType}}{{end}}</div>
            <ul class="reasons">{{range .MatchReasons}}<li>{{.}}</li>{{end}}</ul>
        </div>
        {{end}}
        <div class="footer">
            <p><a href="{{.FrontendURL}}/matches">See all matches</a></p>
            <p>You receive this email because job alerts are enabled in your profile.</p>
        </div>
    </div>
</body>
</html>`

var digestTmpl = template.Must(template.New("digest").Parse(digestTemplate))

// RenderDigest builds the subject, HTML body and plain-text fallback of a match digest.
func RenderDigest(data DigestData) (subject, html, text string, err error) {
	var body bytes.Buffer
	if err := digestTmpl.Execute(&body, data); err != nil {
		return "", "", "", fmt.Errorf("failed to execute email template: %w", err)
	}

	n := len(data.Matches)
	subject = fmt.Sprintf("%d new job matches for you", n)
	if n == 1 {
		subject = "1 new job match for you"
	}

	var sb strings.Builder
	for _, m := range data.Matches {
		fmt.Fprintf(&sb, "%s at %s (%s) - %d%% match\n", m.Title, m.Company, m.Location, m.MatchScore)
	}
	fmt.Fprintf(&sb, "\nSee all matches: %s/matches\n", data.FrontendURL)

	return subject, body.String(), sb.String(), nil
}
