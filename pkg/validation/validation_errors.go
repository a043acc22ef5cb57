package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	"UserID":             "User",
	"FullName":           "Full name",
	"Skills":             "Skills",
	"ExperienceLevel":    "Experience level",
	"PreferredJobTypes":  "Preferred job types",
	"PreferredLocations": "Preferred locations",
	"SalaryMin":          "Minimum salary",
	"SalaryMax":          "Maximum salary",
	"RemotePreference":   "Remote preference",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.StructField())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", label)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: at most %s characters", label, param)
		}
		return fmt.Sprintf("%s: at most %s items", label, param)
	case "gte":
		return fmt.Sprintf("%s: must be at least %s", label, param)
	case "email":
		return fmt.Sprintf("%s: invalid email format", label)
	case "no_emoji":
		return fmt.Sprintf("%s: must not contain emoji or special symbols", label)
	case "job_type":
		return fmt.Sprintf("%s: must be one of %s", label, strings.Join(jobTypes, ", "))
	case "experience_level":
		return fmt.Sprintf("%s: must be one of %s", label, strings.Join(experienceLevels, ", "))
	case "remote_preference":
		return fmt.Sprintf("%s: must be one of %s", label, strings.Join(remotePreferences, ", "))
	default:
		return fmt.Sprintf("%s: failed validation (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	// Slice elements are reported as Field[i]
	if i := strings.IndexByte(fieldName, '['); i > 0 {
		fieldName = fieldName[:i]
	}
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
