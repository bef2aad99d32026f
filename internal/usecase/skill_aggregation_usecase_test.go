package usecase

import (
	"context"
	"errors"
	"testing"

	"skillsync/internal/domain/job"
	"skillsync/internal/domain/matching"
	"skillsync/internal/domain/skill"
	"skillsync/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type aggregationFixture struct {
	jobIDs []uuid.UUID
	goID   uuid.UUID
	sqlID  uuid.UUID

	crosswalk mockCrosswalkRepo
	jobs      *mockJobRepo
	jobSkills mockJobSkillRepo
}

func newAggregationFixture() aggregationFixture {
	f := aggregationFixture{jobIDs: orderedIDs(3), goID: uuid.New(), sqlID: uuid.New()}

	f.crosswalk = mockCrosswalkRepo{entries: map[string][]job.CrosswalkEntry{
		"11.0701": {{CIPCode: "11.0701", SOCCode: "15-1252.00", MatchStrength: "primary"}},
	}}

	jobs := make([]job.Job, 0, 3)
	for _, id := range f.jobIDs {
		jobs = append(jobs, job.Job{ID: id, Title: "Software Developer", SOCCode: "15-1252"})
	}
	// an unrelated occupation that must never be counted
	jobs = append(jobs, job.Job{ID: uuid.New(), Title: "Nurse", SOCCode: "29-1141"})
	f.jobs = &mockJobRepo{jobs: jobs}

	link := func(jobID, skillID uuid.UUID, name string, w float64, origin string) repository.JobSkillRow {
		return repository.JobSkillRow{
			OccupationLink: skill.OccupationLink{JobID: jobID, SkillID: skillID, Weight: f64(w), OriginData: []byte(origin)},
			SkillName:      name,
		}
	}
	f.jobSkills = mockJobSkillRepo{rows: []repository.JobSkillRow{
		link(f.jobIDs[0], f.goID, "Go", 1, `{"importance": 5}`),
		link(f.jobIDs[1], f.goID, "Go", 1, `{"importance": 5}`),
		link(f.jobIDs[2], f.goID, "Go", 1, `[1]`),
		link(f.jobIDs[0], f.sqlID, "SQL", 0.5, ``),
	}}
	return f
}

func (f aggregationFixture) usecase(cache Cache, pageSize int) *SkillAggregation {
	return NewSkillAggregationUsecase(f.crosswalk, f.jobs, f.jobSkills, cache, AggregationOptions{JobPageSize: pageSize}, nil)
}

func TestSkillAggregation_EducationCodeAcrossPages(t *testing.T) {
	f := newAggregationFixture()
	uc := f.usecase(nil, 2)

	res, err := uc.AggregateForClassification(context.Background(), " 11.0701 ")
	require.NoError(t, err)

	assert.Equal(t, "11.0701", res.Code)
	assert.Equal(t, matching.CodeKindEducation, res.Kind)
	assert.Equal(t, []string{"15-1252"}, res.SOCCodes)
	assert.Equal(t, 3, res.TotalJobs)
	assert.Equal(t, 1, res.InvalidRows)
	assert.Equal(t, 2, f.jobs.calls, "3 jobs with page size 2 take two pages")

	require.Len(t, res.Skills, 2)
	goSkill, sqlSkill := res.Skills[0], res.Skills[1]
	assert.Equal(t, f.goID, goSkill.SkillID)
	assert.Equal(t, 3, goSkill.Frequency)
	assert.InDelta(t, 10.0/3, goSkill.Importance, 1e-9)
	assert.InDelta(t, 0.4+0.4*(10.0/3)/5+0.2, goSkill.CompositeScore, 1e-9)

	assert.Equal(t, f.sqlID, sqlSkill.SkillID)
	assert.Equal(t, 1, sqlSkill.Frequency)
	assert.InDelta(t, 0.4/3+0.1, sqlSkill.CompositeScore, 1e-9)
}

func TestSkillAggregation_OccupationCodeSkipsCrosswalk(t *testing.T) {
	f := newAggregationFixture()
	f.crosswalk = mockCrosswalkRepo{err: errors.New("must not be called")}

	res, err := f.usecase(nil, 0).AggregateForClassification(context.Background(), "15-1252")
	require.NoError(t, err)
	assert.Equal(t, matching.CodeKindOccupation, res.Kind)
	assert.Empty(t, res.Crosswalk)
	assert.Equal(t, 3, res.TotalJobs)
}

func TestSkillAggregation_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid code", func(t *testing.T) {
		f := newAggregationFixture()
		_, err := f.usecase(nil, 0).AggregateForClassification(ctx, "11-07")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("no mapping", func(t *testing.T) {
		f := newAggregationFixture()
		_, err := f.usecase(nil, 0).AggregateForClassification(ctx, "52.0201")
		assert.ErrorIs(t, err, ErrNoMapping)
		assert.NotErrorIs(t, err, ErrNoJobs)
	})

	t.Run("no jobs", func(t *testing.T) {
		f := newAggregationFixture()
		f.crosswalk.entries["52.0201"] = []job.CrosswalkEntry{{CIPCode: "52.0201", SOCCode: "11-1021"}}
		_, err := f.usecase(nil, 0).AggregateForClassification(ctx, "52.0201")
		assert.ErrorIs(t, err, ErrNoJobs)
		assert.NotErrorIs(t, err, ErrNoMapping)
	})

	t.Run("storage failure is not empty", func(t *testing.T) {
		f := newAggregationFixture()
		f.jobs.err = errors.New("connection reset")
		_, err := f.usecase(nil, 0).AggregateForClassification(ctx, "11.0701")
		assert.ErrorIs(t, err, ErrDataUnavailable)
		assert.NotErrorIs(t, err, ErrNoJobs)
	})
}

func TestSkillAggregation_CacheHit(t *testing.T) {
	f := newAggregationFixture()
	cache := newMemCache()
	uc := f.usecase(cache, 0)

	first, err := uc.AggregateForClassification(context.Background(), "11.0701")
	require.NoError(t, err)
	calls := f.jobs.calls

	second, err := uc.AggregateForClassification(context.Background(), "11.0701")
	require.NoError(t, err)
	assert.Equal(t, calls, f.jobs.calls, "second call is served from cache")
	assert.Equal(t, first.TotalJobs, second.TotalJobs)
	require.Len(t, second.Skills, len(first.Skills))
	assert.Equal(t, first.Skills[0].SkillID, second.Skills[0].SkillID)
}

func TestSkillAggregation_ExcludeGeneric(t *testing.T) {
	f := newAggregationFixture()
	readingID := uuid.New()
	f.jobSkills.rows = append(f.jobSkills.rows, repository.JobSkillRow{
		OccupationLink: skill.OccupationLink{JobID: f.jobIDs[0], SkillID: readingID, Weight: f64(1)},
		SkillName:      "Reading Comprehension",
	})

	uc := NewSkillAggregationUsecase(f.crosswalk, f.jobs, f.jobSkills, nil, AggregationOptions{ExcludeGenericSkills: true}, nil)
	res, err := uc.AggregateForClassification(context.Background(), "11.0701")
	require.NoError(t, err)
	for _, s := range res.Skills {
		assert.NotEqual(t, readingID, s.SkillID)
	}
}
