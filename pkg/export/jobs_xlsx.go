// Package export renders job listings as spreadsheets for the admin dashboard.
package export

import (
	"fmt"
	"io"
	"strings"

	"go-jobmatch-backend/internal/domain"

	"github.com/xuri/excelize/v2"
)

const jobsSheet = "Jobs"

var jobHeaders = []string{
	"ID", "External ID", "Title", "Company", "Location", "Job Type", "Experience Level",
	"Priority", "Status", "Salary Min", "Salary Max", "Salary Notes", "Remote",
	"Skills", "Posted Date", "Expires Date", "Sync Status", "Last Synced",
}

// WriteJobsXLSX writes one header row plus one row per job.
func WriteJobsXLSX(w io.Writer, jobs []domain.Job) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", jobsSheet); err != nil {
		return err
	}

	for i, h := range jobHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(jobsSheet, cell, h); err != nil {
			return err
		}
	}
	boldID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(jobHeaders), 1)
	if err := f.SetCellStyle(jobsSheet, "A1", lastHeader, boldID); err != nil {
		return err
	}

	for r, j := range jobs {
		row := []any{
			j.ID, j.ExternalID, j.Title, j.Company, j.Location, j.JobType, j.ExperienceLevel,
			j.Priority, j.Status, floatOrBlank(j.SalaryMin), floatOrBlank(j.SalaryMax), j.SalaryNotes, j.IsRemote,
			strings.Join(j.SkillsRequired, ", "), strOrBlank(j.PostedDate), strOrBlank(j.ExpiresDate), j.SyncStatus, "",
		}
		if j.LastSyncDate != nil {
			row[len(row)-1] = j.LastSyncDate.UTC().Format("2006-01-02 15:04:05")
		}

		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(jobsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	if err := f.SetPanes(jobsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func floatOrBlank(f *float64) any {
	if f == nil {
		return ""
	}
	return *f
}

func strOrBlank(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
