package domain

import "context"

// JobMatch is a job scored against one profile. Computed per request, never stored.
type JobMatch struct {
	Job
	MatchScore              int      `json:"match_score"`
	MatchReasons            []string `json:"match_reasons"`
	MatchingSkills          []string `json:"matching_skills"`
	SkillsOverlapPercentage float64  `json:"skills_overlap_percentage"`
}

// MatchFilters narrows the pool before scoring (JobQuery) and trims the ranked list after.
type MatchFilters struct {
	JobQuery
	MinScore int `json:"min_score,omitempty"`
	Limit    int `json:"limit,omitempty"`
}

type MatchStats struct {
	AverageScore  int `json:"average_score"`
	HighMatches   int `json:"high_matches"`
	MediumMatches int `json:"medium_matches"`
	LowMatches    int `json:"low_matches"`
}

type MatchResult struct {
	Matches   []JobMatch `json:"matches"`
	TotalJobs int        `json:"total_jobs"`
	Stats     MatchStats `json:"match_stats"`
}

type MatchUsecase interface {
	FindMatches(ctx context.Context, userID string, filters MatchFilters) (*MatchResult, error)
}
