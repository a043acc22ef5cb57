package matching

import (
	"fmt"
	"testing"
	"time"

	"go-jobmatch-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) *string {
	s := testNow.AddDate(0, 0, -n).Format(domain.DateLayout)
	return &s
}

func newTestScorer() *Scorer {
	return NewScorer(func() time.Time { return testNow })
}

func TestScoreConcreteScenario(t *testing.T) {
	profile := domain.UserProfile{
		Skills:          []string{"React", "Node.js"},
		Location:        "Remote",
		ExperienceLevel: "mid",
	}
	job := domain.Job{
		Title:           "Frontend Engineer",
		Location:        "Remote",
		ExperienceLevel: domain.ExperienceMid,
		SkillsRequired:  []string{"React", "TypeScript"},
		PostedDate:      daysAgo(2),
	}

	m := newTestScorer().Score(profile, job)

	// skills 25 + exact location 25 + experience 15 + recency 5
	assert.Equal(t, 70, m.MatchScore)
	assert.Equal(t, []string{"React"}, m.MatchingSkills)
	assert.Equal(t, 50.0, m.SkillsOverlapPercentage)
	assert.Equal(t, []string{
		"Matching skills: React",
		"Location match: Remote",
		"Experience level match: Mid",
		"Recently posted",
	}, m.MatchReasons)
}

func TestScoreIsCappedAt100(t *testing.T) {
	profile := domain.UserProfile{
		Skills:            []string{"go", "sql"},
		Location:          "Berlin",
		ExperienceLevel:   "Senior",
		RemotePreference:  "remote",
		PreferredJobTypes: []string{"full-time"},
	}
	job := domain.Job{
		Location:        "berlin",
		ExperienceLevel: domain.ExperienceSenior,
		JobType:         domain.JobTypeFullTime,
		IsRemote:        true,
		SkillsRequired:  []string{" Go", "SQL "},
		PostedDate:      daysAgo(0),
		SalaryNotes:     "Market rate",
	}

	m := newTestScorer().Score(profile, job)
	assert.Equal(t, 100, m.MatchScore)
	assert.Len(t, m.MatchReasons, 7)
}

func TestScoreLocationRulesAreExclusive(t *testing.T) {
	s := newTestScorer()
	cases := []struct {
		profile, job string
		want         int
	}{
		{"Berlin", "BERLIN", LocationExactPoints},
		{"Berlin", "Berlin, Germany", LocationNearPoints},
		{"Berlin, Germany", "Berlin", LocationNearPoints},
		{"Berlin", "Remote (EU)", LocationRemotePts},
		{"", "Work from anywhere", LocationRemotePts},
		{"Berlin", "Paris", 0},
		{"", "", 0},
	}
	for _, c := range cases {
		m := s.Score(domain.UserProfile{Location: c.profile}, domain.Job{Location: c.job})
		assert.Equal(t, c.want, m.MatchScore, "%q vs %q", c.profile, c.job)
	}
}

func TestScoreExperience(t *testing.T) {
	s := newTestScorer()
	cases := []struct {
		profile, job string
		want         int
	}{
		{"Senior", domain.ExperienceSenior, ExperienceExactPts},
		{"executive", domain.ExperienceMid, ExperienceOverPts},
		{"lead", domain.ExperienceSenior, ExperienceOverPts},
		{"Mid", domain.ExperienceSenior, ExperienceUnderPts},
		{"Entry", domain.ExperienceSenior, 0},
		{"Wizard", domain.ExperienceSenior, 0},
		{"Senior", "", 0},
	}
	for _, c := range cases {
		m := s.Score(domain.UserProfile{ExperienceLevel: c.profile}, domain.Job{ExperienceLevel: c.job})
		assert.Equal(t, c.want, m.MatchScore, "%q vs %q", c.profile, c.job)
	}
}

func TestScoreRecency(t *testing.T) {
	s := newTestScorer()
	assert.Equal(t, RecentWeekPoints, s.Score(domain.UserProfile{}, domain.Job{PostedDate: daysAgo(6)}).MatchScore)
	assert.Equal(t, RecentMonthPoints, s.Score(domain.UserProfile{}, domain.Job{PostedDate: daysAgo(8)}).MatchScore)
	assert.Equal(t, 0, s.Score(domain.UserProfile{}, domain.Job{PostedDate: daysAgo(45)}).MatchScore)
	assert.Equal(t, 0, s.Score(domain.UserProfile{}, domain.Job{}).MatchScore)
}

func TestScoreRemoteBonusNeedsRemotePreference(t *testing.T) {
	s := newTestScorer()
	job := domain.Job{JobType: domain.JobTypeRemote}

	assert.Equal(t, RemoteBonusPoints, s.Score(domain.UserProfile{RemotePreference: "Remote"}, job).MatchScore)
	assert.Equal(t, 0, s.Score(domain.UserProfile{RemotePreference: "Hybrid"}, job).MatchScore)
	assert.Equal(t, 0, s.Score(domain.UserProfile{RemotePreference: "Remote"}, domain.Job{JobType: domain.JobTypeContract}).MatchScore)
}

func TestScoreZeroSkills(t *testing.T) {
	s := newTestScorer()

	m := s.Score(domain.UserProfile{Skills: []string{"Go"}}, domain.Job{})
	assert.Equal(t, 0, m.MatchScore)
	assert.Equal(t, 0.0, m.SkillsOverlapPercentage)
	assert.NotNil(t, m.MatchingSkills)
	assert.Empty(t, m.MatchReasons)

	m = s.Score(domain.UserProfile{}, domain.Job{SkillsRequired: []string{"Go"}})
	assert.Equal(t, 0, m.MatchScore)
}

func TestScoreBounds(t *testing.T) {
	s := newTestScorer()
	levels := []string{"", "Entry", "Mid", "Senior", "Lead", "Executive"}
	skillSets := [][]string{nil, {"Go"}, {"Go", "SQL"}, {"Go", "SQL", "AWS", "Docker"}}

	for _, pl := range levels {
		for _, jl := range levels {
			for _, ps := range skillSets {
				for _, js := range skillSets {
					profile := domain.UserProfile{Skills: ps, ExperienceLevel: pl, Location: "Remote", RemotePreference: "Remote", PreferredJobTypes: []string{"Remote"}}
					job := domain.Job{SkillsRequired: js, ExperienceLevel: jl, Location: "Remote", JobType: domain.JobTypeRemote, PostedDate: daysAgo(1), SalaryNotes: "competitive"}
					score := s.Score(profile, job).MatchScore
					assert.GreaterOrEqual(t, score, 0)
					assert.LessOrEqual(t, score, 100)
				}
			}
		}
	}
}

func TestScoreMonotonicInSkills(t *testing.T) {
	s := newTestScorer()
	job := domain.Job{SkillsRequired: []string{"Go", "SQL", "Kafka", "Docker", "AWS"}, Location: "Lisbon"}
	all := []string{"Rust", "docker", "GO", "aws", "Kafka", "sql"}

	prev := -1
	for i := 0; i <= len(all); i++ {
		score := s.Score(domain.UserProfile{Skills: all[:i], Location: "Lisbon"}, job).MatchScore
		assert.GreaterOrEqual(t, score, prev, "after adding %d skills", i)
		prev = score
	}
}

func pool() []domain.Job {
	return []domain.Job{
		{ID: 1, Title: "Go Developer", Company: "Acme", Location: "Berlin", SkillsRequired: []string{"Go", "SQL"}, ExperienceLevel: domain.ExperienceMid},
		{ID: 2, Title: "Frontend", Company: "Initech", Location: "Remote", IsRemote: true, SkillsRequired: []string{"React"}},
		{ID: 3, Title: "Data Engineer", Company: "Acme", Location: "Munich", SkillsRequired: []string{"SQL", "Spark"}, Description: "Go is a plus"},
		{ID: 4, Title: "Platform", Company: "Globex", Location: "Berlin", SkillsRequired: []string{"Go"}, ExperienceLevel: domain.ExperienceMid, PostedDate: daysAgo(1), Requirements: "Go services"},
		{ID: 5, Title: "Barista", Company: "Cafe", Location: "Paris"},
	}
}

func TestFindMatchesRanksAndIsDeterministic(t *testing.T) {
	s := newTestScorer()
	profile := domain.UserProfile{Skills: []string{"Go", "SQL"}, Location: "Berlin", ExperienceLevel: "Mid"}

	first := s.FindMatches(profile, pool(), domain.MatchFilters{})
	second := s.FindMatches(profile, pool(), domain.MatchFilters{})

	assert.Equal(t, first, second)
	require.Len(t, first.Matches, 5)
	assert.Equal(t, 5, first.TotalJobs)
	for i := 1; i < len(first.Matches); i++ {
		assert.GreaterOrEqual(t, first.Matches[i-1].MatchScore, first.Matches[i].MatchScore)
	}
	// 1 and 4 both score 90 before recency; 4 gets the recency bonus.
	assert.Equal(t, int64(4), first.Matches[0].ID)
	assert.Equal(t, int64(1), first.Matches[1].ID)
}

func TestFindMatchesStableTies(t *testing.T) {
	s := newTestScorer()
	jobs := []domain.Job{{ID: 10, Title: "a"}, {ID: 11, Title: "b"}, {ID: 12, Title: "c"}}

	res := s.FindMatches(domain.UserProfile{}, jobs, domain.MatchFilters{})
	ids := []int64{res.Matches[0].ID, res.Matches[1].ID, res.Matches[2].ID}
	assert.Equal(t, []int64{10, 11, 12}, ids)
}

func TestFindMatchesMinScoreAndStats(t *testing.T) {
	s := newTestScorer()
	profile := domain.UserProfile{Skills: []string{"Go", "SQL"}, Location: "Berlin", ExperienceLevel: "Mid"}

	res := s.FindMatches(profile, pool(), domain.MatchFilters{MinScore: 80})
	require.NotEmpty(t, res.Matches)
	for _, m := range res.Matches {
		assert.GreaterOrEqual(t, m.MatchScore, 80)
	}
	assert.Equal(t, len(res.Matches), res.Stats.HighMatches)
	assert.Zero(t, res.Stats.MediumMatches)
	assert.Zero(t, res.Stats.LowMatches)
	assert.Equal(t, 5, res.TotalJobs, "total counts the pool, not the returned matches")
}

func TestFindMatchesLimit(t *testing.T) {
	s := newTestScorer()
	profile := domain.UserProfile{Skills: []string{"Go"}}

	res := s.FindMatches(profile, pool(), domain.MatchFilters{Limit: 2})
	assert.Len(t, res.Matches, 2)
	assert.Equal(t, 2, res.Stats.HighMatches+res.Stats.MediumMatches+res.Stats.LowMatches)
}

func TestFindMatchesPoolFilters(t *testing.T) {
	s := newTestScorer()
	profile := domain.UserProfile{Skills: []string{"Go"}}

	cases := []struct {
		name string
		q    domain.JobQuery
		want []int64
	}{
		{"search spans description", domain.JobQuery{Search: "go"}, []int64{1, 3, 4}},
		{"search company", domain.JobQuery{Search: "ACME"}, []int64{1, 3}},
		{"location substring", domain.JobQuery{Location: "berl"}, []int64{1, 4}},
		{"experience exact", domain.JobQuery{ExperienceLevel: domain.ExperienceMid}, []int64{1, 4}},
		{"remote only", domain.JobQuery{RemoteOnly: true}, []int64{2}},
		{"no hits", domain.JobQuery{JobType: domain.JobTypeContract}, []int64{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := s.FindMatches(profile, pool(), domain.MatchFilters{JobQuery: c.q})
			got := []int64{}
			for _, m := range res.Matches {
				got = append(got, m.ID)
			}
			assert.ElementsMatch(t, c.want, got)
			assert.Equal(t, len(c.want), res.TotalJobs)
		})
	}
}

func TestFilterDoesNotChangeScores(t *testing.T) {
	s := newTestScorer()
	profile := domain.UserProfile{Skills: []string{"Go", "SQL"}, Location: "Berlin"}

	all := s.FindMatches(profile, pool(), domain.MatchFilters{})
	filtered := s.FindMatches(profile, pool(), domain.MatchFilters{JobQuery: domain.JobQuery{Location: "Berlin"}})

	byID := map[int64]int{}
	for _, m := range all.Matches {
		byID[m.ID] = m.MatchScore
	}
	for _, m := range filtered.Matches {
		assert.Equal(t, byID[m.ID], m.MatchScore, fmt.Sprint(m.ID))
	}
}

func TestStats(t *testing.T) {
	assert.Equal(t, domain.MatchStats{}, Stats(nil))

	st := Stats([]domain.JobMatch{{MatchScore: 80}, {MatchScore: 79}, {MatchScore: 50}, {MatchScore: 49}, {MatchScore: 0}})
	assert.Equal(t, 52, st.AverageScore) // 258 / 5 = 51.6
	assert.Equal(t, 1, st.HighMatches)
	assert.Equal(t, 2, st.MediumMatches)
	assert.Equal(t, 2, st.LowMatches)
}
