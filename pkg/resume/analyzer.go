package resume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go-jobmatch-backend/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
)

// maxPromptChars bounds the resume text sent to the model.
const maxPromptChars = 20000

const analysisPrompt = `
You are an expert technical recruiter. Analyze the resume below and extract structured data.

### INSTRUCTIONS:
1. Extract concrete skills (languages, frameworks, tools, platforms, methodologies). Use their common names.
2. Estimate the overall experience level as exactly one of: Entry, Mid, Senior, Executive.
3. Write a two or three sentence professional summary.
4. List job titles the candidate has held or is suited for.
5. Format the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "skills": ["Go", "PostgreSQL"],
    "experience_level": "Mid",
    "summary": "Backend engineer with ...",
    "job_titles": ["Backend Engineer"]
}

### RESUME:
%s
`

// Analyzer implements domain.ResumeAnalyzer over any langchaingo model.
type Analyzer struct {
	model llms.Model
}

func NewAnalyzer(model llms.Model) *Analyzer {
	return &Analyzer{model: model}
}

// NewAnthropicAnalyzer builds an Analyzer backed by Claude.
func NewAnthropicAnalyzer(apiKey, model string) (*Analyzer, error) {
	if apiKey == "" {
		return nil, errors.New("resume: ANTHROPIC_API_KEY not configured")
	}
	llm, err := anthropic.New(anthropic.WithToken(apiKey), anthropic.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic client: %w", err)
	}
	return NewAnalyzer(llm), nil
}

func (a *Analyzer) Analyze(ctx context.Context, resumeText string) (*domain.ResumeAnalysis, error) {
	if r := []rune(resumeText); len(r) > maxPromptChars {
		resumeText = string(r[:maxPromptChars])
	}

	resp, err := llms.GenerateFromSinglePrompt(ctx, a.model, fmt.Sprintf(analysisPrompt, resumeText),
		llms.WithTemperature(0),
		llms.WithMaxTokens(1024),
	)
	if err != nil {
		return nil, fmt.Errorf("resume analysis failed: %w", err)
	}
	return ParseAnalysis(resp)
}

// ParseAnalysis decodes the model's JSON answer, tolerating code fences and
// surrounding prose, and normalizes the result.
func ParseAnalysis(raw string) (*domain.ResumeAnalysis, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, errors.New("resume analysis returned no JSON object")
	}

	var out domain.ResumeAnalysis
	if err := json.Unmarshal([]byte(raw[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("failed to decode resume analysis: %w", err)
	}

	out.Skills = DedupeFold(out.Skills)
	out.JobTitles = DedupeFold(out.JobTitles)
	out.Summary = strings.TrimSpace(out.Summary)
	out.ExperienceLevel = normalizeLevel(out.ExperienceLevel)
	return &out, nil
}

// DedupeFold trims values and drops empties and case-insensitive repeats, keeping first spelling.
func DedupeFold(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func normalizeLevel(level string) string {
	for _, l := range []string{domain.ExperienceEntry, domain.ExperienceMid, domain.ExperienceSenior, domain.ExperienceExecutive} {
		if strings.EqualFold(strings.TrimSpace(level), l) {
			return l
		}
	}
	return ""
}
