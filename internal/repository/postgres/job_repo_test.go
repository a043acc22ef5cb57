package postgres

import (
	"testing"

	"go-jobmatch-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestBuildJobFilterEmpty(t *testing.T) {
	where, args := buildJobFilter(domain.JobListParams{Limit: 10})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildJobFilterAll(t *testing.T) {
	where, args := buildJobFilter(domain.JobListParams{
		JobQuery: domain.JobQuery{
			Search:          "50%_go",
			Location:        "Berlin",
			JobType:         domain.JobTypeFullTime,
			ExperienceLevel: domain.ExperienceMid,
			RemoteOnly:      true,
		},
		Status: domain.JobStatusActive,
	})

	assert.Equal(t,
		" WHERE status = $1"+
			" AND (title ILIKE $2 OR company ILIKE $2 OR description ILIKE $2 OR requirements ILIKE $2)"+
			" AND location ILIKE $3 AND job_type = $4 AND experience_level = $5 AND is_remote",
		where)
	assert.Equal(t, []any{"Active", `%50\%\_go%`, "%Berlin%", "Full-time", "Mid"}, args)
}
