package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateSkills_DedupAcrossOccupations(t *testing.T) {
	jobA, jobB := uuid.New(), uuid.New()
	goSkill, sqlSkill := uuid.New(), uuid.New()

	links := []SkillLink{
		{JobID: jobA, SkillID: goSkill, SkillName: "Go", Weight: f64(0.8), Importance: f64(4)},
		{JobID: jobB, SkillID: goSkill, SkillName: "Go", Weight: f64(0.6), Importance: f64(5)},
		{JobID: jobA, SkillID: sqlSkill, SkillName: "SQL", Weight: f64(0.5), Importance: f64(3)},
	}

	got := AggregateSkills(links, 2)
	require.Len(t, got, 2)

	assert.Equal(t, goSkill, got[0].SkillID)
	assert.Equal(t, 2, got[0].Frequency)
	assert.InDelta(t, 0.7, got[0].Weight, 1e-9)
	assert.InDelta(t, 4.5, got[0].Importance, 1e-9)
	assert.InDelta(t, 0.4*1+0.4*0.9+0.2*0.7, got[0].CompositeScore, 1e-9)

	assert.Equal(t, 1, got[1].Frequency)
	assert.InDelta(t, 0.4*0.5+0.4*0.6+0.2*0.5, got[1].CompositeScore, 1e-9)
}

func TestAggregateSkills_DuplicateRowsSameJobCountOnce(t *testing.T) {
	job := uuid.New()
	skill := uuid.New()
	links := []SkillLink{
		{JobID: job, SkillID: skill, SkillName: "Go", Weight: f64(1)},
		{JobID: job, SkillID: skill, SkillName: "Go", Weight: f64(0)},
	}

	got := AggregateSkills(links, 1)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Frequency)
	assert.InDelta(t, 0.5, got[0].Weight, 1e-9)
}

func TestAggregateSkills_TrueMeanIsOrderIndependent(t *testing.T) {
	skill := uuid.New()
	mk := func(ws ...float64) []SkillLink {
		out := make([]SkillLink, 0, len(ws))
		for _, w := range ws {
			out = append(out, SkillLink{JobID: uuid.New(), SkillID: skill, SkillName: "X", Weight: f64(w)})
		}
		return out
	}

	a := AggregateSkills(mk(0.9, 0.3, 0.3), 3)
	b := AggregateSkills(mk(0.3, 0.3, 0.9), 3)
	assert.InDelta(t, 0.5, a[0].Weight, 1e-9)
	assert.InDelta(t, a[0].Weight, b[0].Weight, 1e-12)
}

func TestAggregateSkills_MissingDataRanksWithPenalty(t *testing.T) {
	job := uuid.New()
	full, partial := uuid.New(), uuid.New()
	links := []SkillLink{
		{JobID: job, SkillID: partial, SkillName: "Partial"},
		{JobID: job, SkillID: full, SkillName: "Full", Weight: f64(0.5), Importance: f64(5)},
	}

	got := AggregateSkills(links, 1)
	require.Len(t, got, 2)
	assert.Equal(t, full, got[0].SkillID)
	assert.Equal(t, partial, got[1].SkillID)
	assert.InDelta(t, 0.4, got[1].CompositeScore, 1e-9)
}

func TestAggregateSkills_ClampsOutOfRangeValuesBeforeMerging(t *testing.T) {
	jobA, jobB := uuid.New(), uuid.New()
	id := uuid.New()

	got := AggregateSkills([]SkillLink{
		{JobID: jobA, SkillID: id, SkillName: "Go", Weight: f64(1.6), Importance: f64(7)},
		{JobID: jobB, SkillID: id, SkillName: "Go"},
	}, 2)
	require.Len(t, got, 1)

	assert.InDelta(t, 2.5, got[0].Importance, 1e-9, "importance 7 counts as 5")
	assert.InDelta(t, 0.5, got[0].Weight, 1e-9, "weight 1.6 counts as 1")
	assert.InDelta(t, 0.4*1+0.4*0.5+0.2*0.5, got[0].CompositeScore, 1e-9)
}

func TestAggregateSkills_DeterministicTieBreak(t *testing.T) {
	job := uuid.New()
	links := []SkillLink{
		{JobID: job, SkillID: uuid.New(), SkillName: "beta"},
		{JobID: job, SkillID: uuid.New(), SkillName: "Alpha"},
	}
	got := AggregateSkills(links, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha", got[0].SkillName)
	assert.Equal(t, "beta", got[1].SkillName)
	assert.InDelta(t, 0.4, got[0].CompositeScore, 1e-9)
}

func TestAggregateSkills_Empty(t *testing.T) {
	assert.Empty(t, AggregateSkills(nil, 3))
}

func TestTopSkills(t *testing.T) {
	ranked := make([]RankedSkill, 10)
	assert.Len(t, TopSkills(ranked, 8), 8)
	assert.Len(t, TopSkills(ranked, 0), 10)
	assert.Len(t, TopSkills(ranked, 20), 10)
}

func TestFilterGenericSkills(t *testing.T) {
	links := []SkillLink{
		{SkillID: uuid.New(), SkillName: "Active Listening"},
		{SkillID: uuid.New(), SkillName: "programming"},
		{SkillID: uuid.New(), SkillName: "critical thinking"},
	}
	got := FilterGenericSkills(links)
	require.Len(t, got, 1)
	assert.Equal(t, "programming", got[0].SkillName)
}
