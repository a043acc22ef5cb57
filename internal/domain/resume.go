package domain

import "context"

// ResumeAnalysis is what the AI extracts from a resume's text.
type ResumeAnalysis struct {
	Skills          []string `json:"skills"`
	ExperienceLevel string   `json:"experience_level"`
	Summary         string   `json:"summary"`
	JobTitles       []string `json:"job_titles"`
}

// ResumeUpload is the outcome returned to the client after upload + analysis.
type ResumeUpload struct {
	ResumeURL string          `json:"resume_url"`
	Analysis  *ResumeAnalysis `json:"analysis,omitempty"`
	Profile   *UserProfile    `json:"profile"`
}

// ResumeAnalyzer extracts structured data from plain resume text.
type ResumeAnalyzer interface {
	Analyze(ctx context.Context, resumeText string) (*ResumeAnalysis, error)
}

// FileStore persists uploaded files and returns their public location.
type FileStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type ResumeUsecase interface {
	Upload(ctx context.Context, userID, filename string, data []byte) (*ResumeUpload, error)
}
