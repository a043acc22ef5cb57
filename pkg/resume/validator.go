// Package resume validates uploaded resumes, extracts their text and
// analyzes it with an LLM.
package resume

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxFileSize caps resume uploads at 5 MB.
const MaxFileSize = 5 << 20

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool
	Extension    string
	DetectedMIME string
	Error        string
}

var pdfMagic = []byte("%PDF")

// Allowed file extensions and the MIME type each must be detected as
var allowedTypes = map[string]string{
	".pdf": "application/pdf",
	".txt": "text/plain",
}

// ValidateFile checks, in order: size, extension whitelist, magic bytes, detected MIME type.
func ValidateFile(filename string, data []byte) FileValidationResult {
	detected := mimetype.Detect(data)
	result := FileValidationResult{DetectedMIME: detected.String()}

	if len(data) == 0 {
		result.Error = "file is empty"
		return result
	}
	if len(data) > MaxFileSize {
		result.Error = "file exceeds the 5 MB limit"
		return result
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	want, ok := allowedTypes[ext]
	if !ok {
		result.Error = "file extension not allowed: " + ext
		return result
	}

	if ext == ".pdf" && !bytes.HasPrefix(data, pdfMagic) {
		result.Error = "file content does not match extension (potential file spoofing detected)"
		return result
	}

	if !detected.Is(want) {
		result.Error = "MIME type not allowed: " + detected.String()
		return result
	}

	result.Valid = true
	return result
}

// ContentType is the canonical upload content type for a validated extension.
func ContentType(ext string) string {
	return allowedTypes[strings.ToLower(ext)]
}
