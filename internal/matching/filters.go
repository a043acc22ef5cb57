package matching

import (
	"strings"

	"go-jobmatch-backend/internal/domain"
)

// ApplyFilters narrows the candidate pool. Empty fields mean "no filter";
// the order of the pool is kept.
func ApplyFilters(pool []domain.Job, q domain.JobQuery) []domain.Job {
	if q == (domain.JobQuery{}) {
		return pool
	}

	out := make([]domain.Job, 0, len(pool))
	for _, job := range pool {
		if matchesQuery(job, q) {
			out = append(out, job)
		}
	}
	return out
}

func matchesQuery(job domain.Job, q domain.JobQuery) bool {
	if q.Search != "" {
		term := strings.ToLower(q.Search)
		if !containsFold(job.Title, term) &&
			!containsFold(job.Company, term) &&
			!containsFold(job.Description, term) &&
			!containsFold(job.Requirements, term) {
			return false
		}
	}
	if q.Location != "" && !containsFold(job.Location, strings.ToLower(q.Location)) {
		return false
	}
	if q.JobType != "" && job.JobType != q.JobType {
		return false
	}
	if q.ExperienceLevel != "" && job.ExperienceLevel != q.ExperienceLevel {
		return false
	}
	if q.RemoteOnly && !job.IsRemote {
		return false
	}
	return true
}

// containsFold reports whether s contains the already lowercased term.
func containsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}
