package resume

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func TestValidateFile(t *testing.T) {
	pdfData := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
	txtData := []byte("Jane Doe\nGo developer with 5 years of experience.\n")

	cases := []struct {
		name     string
		filename string
		data     []byte
		valid    bool
		errPart  string
	}{
		{"pdf", "CV.PDF", pdfData, true, ""},
		{"txt", "cv.txt", txtData, true, ""},
		{"empty", "cv.txt", nil, false, "empty"},
		{"no extension", "cv", txtData, false, "no extension"},
		{"docx not allowed", "cv.docx", []byte("PK\x03\x04rest"), false, "not allowed"},
		{"spoofed pdf", "cv.pdf", txtData, false, "spoofing"},
		{"binary txt", "cv.txt", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}, false, "MIME type not allowed"},
		{"too large", "cv.txt", []byte(strings.Repeat("a", MaxFileSize+1)), false, "5 MB"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := ValidateFile(c.filename, c.data)
			assert.Equal(t, c.valid, res.Valid, res.Error)
			if c.errPart != "" {
				assert.Contains(t, res.Error, c.errPart)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType(".PDF"))
	assert.Equal(t, "text/plain", ContentType(".txt"))
	assert.Empty(t, ContentType(".exe"))
}

func TestExtractTextPlain(t *testing.T) {
	text, err := ExtractText(".txt", []byte("  Go, SQL \n"))
	require.NoError(t, err)
	assert.Equal(t, "Go, SQL", text)

	_, err = ExtractText(".txt", []byte("   "))
	assert.ErrorIs(t, err, ErrNoText)

	_, err = ExtractText(".txt", []byte{0xff, 0xfe, 0xfd})
	assert.Error(t, err)
}

func TestExtractTextBrokenPDF(t *testing.T) {
	_, err := ExtractText(".pdf", []byte("%PDF-1.4 truncated"))
	assert.Error(t, err)
}

type fakeModel struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeModel) GenerateContent(ctx context.Context, msgs []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, m := range msgs {
		for _, p := range m.Parts {
			if tc, ok := p.(llms.TextContent); ok {
				f.prompt += tc.Text
			}
		}
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, opts...)
}

func TestAnalyze(t *testing.T) {
	model := &fakeModel{reply: "```json\n" + `{
		"skills": ["Go", " go ", "PostgreSQL", ""],
		"experience_level": "senior",
		"summary": " Backend engineer. ",
		"job_titles": ["Backend Engineer"]
	}` + "\n```"}

	out, err := NewAnalyzer(model).Analyze(context.Background(), "Jane Doe, Go developer")
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "PostgreSQL"}, out.Skills)
	assert.Equal(t, "Senior", out.ExperienceLevel)
	assert.Equal(t, "Backend engineer.", out.Summary)
	assert.Equal(t, []string{"Backend Engineer"}, out.JobTitles)
	assert.Contains(t, model.prompt, "Jane Doe, Go developer")
}

func TestAnalyzeModelError(t *testing.T) {
	_, err := NewAnalyzer(&fakeModel{err: errors.New("overloaded")}).Analyze(context.Background(), "text")
	assert.ErrorContains(t, err, "overloaded")
}

func TestParseAnalysisRejectsProse(t *testing.T) {
	_, err := ParseAnalysis("I cannot help with that.")
	assert.Error(t, err)

	out, err := ParseAnalysis(`{"experience_level": "Wizard"}`)
	require.NoError(t, err)
	assert.Empty(t, out.ExperienceLevel)
	assert.Empty(t, out.Skills)
}

func TestNewAnthropicAnalyzerRequiresKey(t *testing.T) {
	_, err := NewAnthropicAnalyzer("", "claude-3-5-haiku-latest")
	assert.Error(t, err)
}
