package resume

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

var ErrNoText = errors.New("resume contains no extractable text")

// ExtractText returns the plain text of a validated resume.
func ExtractText(ext string, data []byte) (text string, err error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		text, err = extractPDF(data)
	case ".txt":
		if !utf8.Valid(data) {
			return "", errors.New("text resume is not valid UTF-8")
		}
		text = string(data)
	default:
		return "", fmt.Errorf("unsupported resume type %q", ext)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func extractPDF(data []byte) (text string, err error) {
	// The PDF parser panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	return string(b), nil
}
