// Package jobsync reconciles the external job source (Airtable) into the job store.
//
// The transformer half is pure: it turns loosely typed source records into
// normalized jobs, validates them and diffs them against stored rows. The
// engine half drives the per-record insert/update/deactivate pass.
package jobsync

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"go-jobmatch-backend/internal/domain"
)

// Source field names of the Airtable jobs table
const (
	FieldTitle           = "Title"
	FieldCompany         = "Company"
	FieldLocation        = "Location"
	FieldJobType         = "Job Type"
	FieldExperienceLevel = "Experience Level"
	FieldSalaryMin       = "Salary Min"
	FieldSalaryMax       = "Salary Max"
	FieldSalaryNotes     = "Salary Notes"
	FieldDescription     = "Description"
	FieldRequirements    = "Requirements"
	FieldStatus          = "Status"
	FieldPostedDate      = "Posted Date"
	FieldExpiresDate     = "Expires Date"
	FieldRemote          = "Remote"
	FieldSkills          = "Skills"
	FieldPriority        = "Priority"
)

var (
	validJobTypes = []string{
		domain.JobTypeFullTime, domain.JobTypePartTime, domain.JobTypeContract, domain.JobTypeRemote,
	}
	validExperienceLevels = []string{
		domain.ExperienceEntry, domain.ExperienceMid, domain.ExperienceSenior, domain.ExperienceExecutive,
	}
	validStatuses = []string{
		domain.JobStatusDraft, domain.JobStatusActive, domain.JobStatusPaused, domain.JobStatusExpired, domain.JobStatusFilled,
	}
	validPriorities = []string{
		domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow,
	}
)

// Accepted input date layouts, tried in order
var dateLayouts = []string{
	domain.DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
}

// ValidationResult lists every required-field or cross-field violation of a job.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// Transform normalizes a raw source record. It never fails: bad enum values
// are dropped, bad numbers and dates become absent, and an unknown status
// falls back to Active. The job leaves here as sync_status=pending; only the
// engine marks it synced once the store accepted it.
func Transform(rec domain.ExternalJobRecord) domain.Job {
	f := rec.Fields

	return domain.Job{
		ExternalID:      rec.ID,
		Title:           SanitizeText(f[FieldTitle]),
		Company:         SanitizeText(f[FieldCompany]),
		Location:        SanitizeText(f[FieldLocation]),
		JobType:         oneOf(f[FieldJobType], validJobTypes),
		ExperienceLevel: oneOf(f[FieldExperienceLevel], validExperienceLevels),
		Priority:        oneOf(f[FieldPriority], validPriorities),
		Status:          parseStatus(f[FieldStatus]),
		SalaryMin:       parseSalary(f[FieldSalaryMin]),
		SalaryMax:       parseSalary(f[FieldSalaryMax]),
		SalaryNotes:     SanitizeText(f[FieldSalaryNotes]),
		Description:     SanitizeText(f[FieldDescription]),
		Requirements:    SanitizeText(f[FieldRequirements]),
		PostedDate:      parseDate(f[FieldPostedDate]),
		ExpiresDate:     parseDate(f[FieldExpiresDate]),
		IsRemote:        truthy(f[FieldRemote]),
		SkillsRequired:  ParseSkills(f[FieldSkills]),
		SyncStatus:      domain.SyncStatusPending,
		DataSource:      domain.DataSourceAirtable,
	}
}

// ValidateRequired checks title/company/location and the salary and date orderings.
func ValidateRequired(job domain.Job) ValidationResult {
	var errs []string

	if strings.TrimSpace(job.Title) == "" {
		errs = append(errs, "Title is required")
	}
	if strings.TrimSpace(job.Company) == "" {
		errs = append(errs, "Company is required")
	}
	if strings.TrimSpace(job.Location) == "" {
		errs = append(errs, "Location is required")
	}
	if job.SalaryMin != nil && job.SalaryMax != nil && *job.SalaryMin > *job.SalaryMax {
		errs = append(errs, fmt.Sprintf("Salary minimum (%.2f) cannot be greater than salary maximum (%.2f)", *job.SalaryMin, *job.SalaryMax))
	}
	// Canonical YYYY-MM-DD strings order lexicographically
	if job.PostedDate != nil && job.ExpiresDate != nil && *job.PostedDate > *job.ExpiresDate {
		errs = append(errs, fmt.Sprintf("Posted date (%s) cannot be after expiry date (%s)", *job.PostedDate, *job.ExpiresDate))
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// AreDifferent compares the source-owned fields of two jobs. IDs, timestamps
// and sync metadata are ignored; skills are compared as a multiset.
func AreDifferent(a, b domain.Job) bool {
	if a.Title != b.Title ||
		a.Company != b.Company ||
		a.Location != b.Location ||
		a.JobType != b.JobType ||
		a.ExperienceLevel != b.ExperienceLevel ||
		a.Priority != b.Priority ||
		a.Status != b.Status ||
		a.SalaryNotes != b.SalaryNotes ||
		a.Description != b.Description ||
		a.Requirements != b.Requirements ||
		a.IsRemote != b.IsRemote {
		return true
	}
	if !floatPtrEqual(a.SalaryMin, b.SalaryMin) || !floatPtrEqual(a.SalaryMax, b.SalaryMax) {
		return true
	}
	if !stringPtrEqual(a.PostedDate, b.PostedDate) || !stringPtrEqual(a.ExpiresDate, b.ExpiresDate) {
		return true
	}
	return !sameSkills(a.SkillsRequired, b.SkillsRequired)
}

// SanitizeText trims a value and collapses inner whitespace runs to one space.
func SanitizeText(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		s = t.String()
	case bool:
		s = strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if p := SanitizeText(item); p != "" {
				parts = append(parts, p)
			}
		}
		s = strings.Join(parts, ", ")
	default:
		s = fmt.Sprint(t)
	}
	return strings.Join(strings.Fields(s), " ")
}

// ParseSkills splits a comma-separated skills field. Order and duplicates are kept.
func ParseSkills(v any) []string {
	skills := []string{}
	switch t := v.(type) {
	case string:
		for _, token := range strings.Split(t, ",") {
			if s := strings.TrimSpace(token); s != "" {
				skills = append(skills, s)
			}
		}
	case []any:
		// Airtable multi-select
		for _, item := range t {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					skills = append(skills, s)
				}
			}
		}
	case []string:
		for _, item := range t {
			if s := strings.TrimSpace(item); s != "" {
				skills = append(skills, s)
			}
		}
	}
	return skills
}

func oneOf(v any, allowed []string) string {
	s := SanitizeText(v)
	if slices.Contains(allowed, s) {
		return s
	}
	return ""
}

func parseStatus(v any) string {
	if s := oneOf(v, validStatuses); s != "" {
		return s
	}
	return domain.JobStatusActive
}

func parseSalary(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return nil
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		f = n
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	rounded := math.Round(f*100) / 100
	return &rounded
}

func parseDate(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if layout != domain.DateLayout {
			t = t.UTC()
		}
		out := t.Format(domain.DateLayout)
		return &out
	}
	return nil
}

// truthy mirrors loose boolean coercion: nil, false, 0 and "" are false, anything else true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case string:
		return t != ""
	default:
		return true
	}
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameSkills(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa := slices.Clone(a)
	sb := slices.Clone(b)
	slices.Sort(sa)
	slices.Sort(sb)
	return slices.Equal(sa, sb)
}
