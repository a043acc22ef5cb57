// Package matching scores stored jobs against a user profile.
//
// Scoring is an additive point budget capped at 100. Every factor is
// computed independently and appends a reason when it fires, in the order
// the factors are listed below. Nothing here performs I/O.
package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go-jobmatch-backend/internal/domain"
)

// Factor weights
const (
	MaxSkillsPoints     = 50
	LocationExactPoints = 25
	LocationNearPoints  = 20
	LocationRemotePts   = 15
	ExperienceExactPts  = 15
	ExperienceOverPts   = 10
	ExperienceUnderPts  = 5
	RemoteBonusPoints   = 10
	RecentWeekPoints    = 5
	RecentMonthPoints   = 3
	SalarySignalPoints  = 5
	JobTypePoints       = 8
	MaxScore            = 100
)

// Score buckets for MatchStats
const (
	HighMatchThreshold   = 80
	MediumMatchThreshold = 50
)

var experienceRank = map[string]int{
	"entry":     0,
	"mid":       1,
	"senior":    2,
	"lead":      3,
	"executive": 4,
}

// Scorer is stateless apart from its clock, which only feeds the recency bonus.
type Scorer struct {
	now func() time.Time
}

func NewScorer(now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{now: now}
}

// FindMatches filters the pool, scores every remaining job, ranks them and
// applies MinScore and Limit. TotalJobs is the size of the filtered pool;
// Stats describe the returned matches.
func (s *Scorer) FindMatches(profile domain.UserProfile, pool []domain.Job, f domain.MatchFilters) domain.MatchResult {
	candidates := ApplyFilters(pool, f.JobQuery)
	now := s.now()

	matches := make([]domain.JobMatch, 0, len(candidates))
	for _, job := range candidates {
		matches = append(matches, s.score(profile, job, now))
	}

	// Ties keep pool order
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	if f.MinScore > 0 {
		kept := matches[:0]
		for _, m := range matches {
			if m.MatchScore >= f.MinScore {
				kept = append(kept, m)
			}
		}
		matches = kept
	}
	if f.Limit > 0 && len(matches) > f.Limit {
		matches = matches[:f.Limit]
	}

	return domain.MatchResult{
		Matches:   matches,
		TotalJobs: len(candidates),
		Stats:     Stats(matches),
	}
}

// Score rates a single job against the profile.
func (s *Scorer) Score(profile domain.UserProfile, job domain.Job) domain.JobMatch {
	return s.score(profile, job, s.now())
}

func (s *Scorer) score(profile domain.UserProfile, job domain.Job, now time.Time) domain.JobMatch {
	var (
		total   float64
		reasons = []string{}
	)

	matched, overlap := skillOverlap(profile.Skills, job.SkillsRequired)
	if len(matched) > 0 {
		total += math.Min(MaxSkillsPoints, overlap*0.5)
		reasons = append(reasons, fmt.Sprintf("Matching skills: %s", strings.Join(matched, ", ")))
	}

	if pts, reason := locationPoints(profile.Location, job.Location); pts > 0 {
		total += pts
		reasons = append(reasons, reason)
	}

	if pts, reason := experiencePoints(profile.ExperienceLevel, job.ExperienceLevel); pts > 0 {
		total += pts
		reasons = append(reasons, reason)
	}

	if isRemoteFriendly(job) && strings.EqualFold(strings.TrimSpace(profile.RemotePreference), domain.RemotePreferenceRemote) {
		total += RemoteBonusPoints
		reasons = append(reasons, "Remote work available")
	}

	if pts, reason := recencyPoints(job.PostedDate, now); pts > 0 {
		total += pts
		reasons = append(reasons, reason)
	}

	notes := strings.ToLower(job.SalaryNotes)
	if strings.Contains(notes, "competitive") || strings.Contains(notes, "market") {
		total += SalarySignalPoints
		reasons = append(reasons, "Competitive salary")
	}

	if job.JobType != "" && containsFoldAny(profile.PreferredJobTypes, job.JobType) {
		total += JobTypePoints
		reasons = append(reasons, fmt.Sprintf("Preferred job type: %s", job.JobType))
	}

	score := int(math.Round(total))
	if score > MaxScore {
		score = MaxScore
	}

	if matched == nil {
		matched = []string{}
	}
	return domain.JobMatch{
		Job:                     job,
		MatchScore:              score,
		MatchReasons:            reasons,
		MatchingSkills:          matched,
		SkillsOverlapPercentage: math.Round(overlap*100) / 100,
	}
}

// Stats aggregates the given matches into average and bucket counts.
func Stats(matches []domain.JobMatch) domain.MatchStats {
	var st domain.MatchStats
	if len(matches) == 0 {
		return st
	}

	sum := 0
	for _, m := range matches {
		sum += m.MatchScore
		switch {
		case m.MatchScore >= HighMatchThreshold:
			st.HighMatches++
		case m.MatchScore >= MediumMatchThreshold:
			st.MediumMatches++
		default:
			st.LowMatches++
		}
	}
	st.AverageScore = int(math.Round(float64(sum) / float64(len(matches))))
	return st
}

// skillOverlap returns the job skills the profile has, in job order, and the
// matched share of the job's skills as a percentage.
func skillOverlap(profileSkills, jobSkills []string) ([]string, float64) {
	if len(profileSkills) == 0 || len(jobSkills) == 0 {
		return nil, 0
	}

	have := make(map[string]struct{}, len(profileSkills))
	for _, s := range profileSkills {
		if k := normalize(s); k != "" {
			have[k] = struct{}{}
		}
	}

	var matched []string
	for _, s := range jobSkills {
		if _, ok := have[normalize(s)]; ok {
			matched = append(matched, strings.TrimSpace(s))
		}
	}
	return matched, float64(len(matched)) / float64(len(jobSkills)) * 100
}

// locationPoints applies the first matching rule only.
func locationPoints(profileLoc, jobLoc string) (float64, string) {
	p := normalize(profileLoc)
	j := normalize(jobLoc)

	switch {
	case p != "" && j != "" && p == j:
		return LocationExactPoints, fmt.Sprintf("Location match: %s", jobLoc)
	case p != "" && j != "" && (strings.Contains(j, p) || strings.Contains(p, j)):
		return LocationNearPoints, fmt.Sprintf("Nearby location: %s", jobLoc)
	case strings.Contains(j, "remote") || strings.Contains(j, "anywhere"):
		return LocationRemotePts, "Remote-friendly location"
	}
	return 0, ""
}

func experiencePoints(profileLevel, jobLevel string) (float64, string) {
	p, okP := experienceRank[normalize(profileLevel)]
	j, okJ := experienceRank[normalize(jobLevel)]
	if !okP || !okJ {
		return 0, ""
	}

	switch diff := p - j; {
	case diff == 0:
		return ExperienceExactPts, fmt.Sprintf("Experience level match: %s", jobLevel)
	case diff > 0:
		return ExperienceOverPts, "Experience exceeds requirements"
	case diff == -1:
		return ExperienceUnderPts, "Close to required experience level"
	}
	return 0, ""
}

func recencyPoints(posted *string, now time.Time) (float64, string) {
	if posted == nil {
		return 0, ""
	}
	t, err := time.Parse(domain.DateLayout, *posted)
	if err != nil {
		return 0, ""
	}

	days := now.Sub(t).Hours() / 24
	switch {
	case days < 7:
		return RecentWeekPoints, "Recently posted"
	case days < 30:
		return RecentMonthPoints, "Posted this month"
	}
	return 0, ""
}

func isRemoteFriendly(job domain.Job) bool {
	return job.IsRemote ||
		job.JobType == domain.JobTypeRemote ||
		strings.Contains(strings.ToLower(job.Location), "remote")
}

func containsFoldAny(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
