package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func scenarioInputs() []ScoreInput {
	return []ScoreInput{
		{SkillID: uuid.MustParse("00000000-0000-0000-0000-0000000000a1"), SkillName: "Networking", ScorePct: 90, Weight: f64(0.5), Importance: ImportanceCritical},
		{SkillID: uuid.MustParse("00000000-0000-0000-0000-0000000000a2"), SkillName: "Scripting", ScorePct: 60, Weight: f64(0.3), Importance: ImportanceImportant},
		{SkillID: uuid.MustParse("00000000-0000-0000-0000-0000000000a3"), SkillName: "Documentation", ScorePct: 40, Weight: f64(0.2), Importance: ""},
	}
}

func TestScoreAssessment_ConcreteScenario(t *testing.T) {
	res := ScoreAssessment(scenarioInputs(), ScoringConfig{RequiredProficiency: 75})

	want := 100 * (0.9*0.5*1.5 + 0.6*0.3*1.2 + 0.4*0.2*1.0) / (0.5*1.5 + 0.3*1.2 + 0.2*1.0)
	assert.InDelta(t, want, res.OverallPct, 1e-9)
	assert.InDelta(t, 74.12, res.OverallPct, 0.01)
	assert.Equal(t, StatusCloseGaps, res.StatusTag)

	require.Len(t, res.Skills, 3)
	assert.False(t, res.Skills[0].IsGap)
	assert.True(t, res.Skills[1].IsGap)
	assert.True(t, res.Skills[2].IsGap)

	require.Len(t, res.Gaps, 2)
	assert.Equal(t, "Scripting", res.Gaps[0].SkillName)
	assert.Equal(t, "Documentation", res.Gaps[1].SkillName)
	assert.InDelta(t, 15.0, res.Gaps[0].Gap, 1e-9)

	assert.Equal(t, BandExceeds, res.Skills[0].Band)
	assert.Equal(t, BandDeveloping, res.Skills[1].Band)
	assert.Equal(t, BandGap, res.Skills[2].Band)
	assert.Equal(t, []string{"Networking"}, res.StrengthAreas)
	assert.Empty(t, res.CriticalGaps)
}

func TestScoreAssessment_Idempotent(t *testing.T) {
	cfg := ScoringConfig{RequiredProficiency: 75, Thresholds: StatusThresholds{RoleReady: 85, CloseGaps: 70}}
	a := ScoreAssessment(scenarioInputs(), cfg)
	b := ScoreAssessment(scenarioInputs(), cfg)

	assert.Equal(t, a.OverallPct, b.OverallPct)
	assert.Equal(t, a.StatusTag, b.StatusTag)
	assert.Equal(t, a.Gaps, b.Gaps)
}

func TestScoreAssessment_Monotonic(t *testing.T) {
	base := scenarioInputs()
	prev := ScoreAssessment(base, ScoringConfig{}).OverallPct

	for i := range base {
		for bump := 0.0; bump <= 60; bump += 5 {
			in := scenarioInputs()
			in[i].ScorePct += bump
			got := ScoreAssessment(in, ScoringConfig{}).OverallPct
			assert.GreaterOrEqual(t, got, prev-1e-12, "skill %d bump %.0f", i, bump)
		}
	}
}

func TestScoreAssessment_Defaults(t *testing.T) {
	in := []ScoreInput{
		{SkillID: uuid.New(), SkillName: "A", ScorePct: 74},
		{SkillID: uuid.New(), SkillName: "B", ScorePct: 140},
	}
	res := ScoreAssessment(in, ScoringConfig{})

	assert.Equal(t, DefaultRequiredProficiency, res.RequiredProficiency)
	assert.True(t, res.Skills[0].IsGap)
	assert.Equal(t, 100.0, res.Skills[1].ScorePct)
	assert.InDelta(t, 87.0, res.OverallPct, 1e-9)
	assert.Equal(t, StatusRoleReady, res.StatusTag)
}

func TestScoreAssessment_EmptyAndZeroWeights(t *testing.T) {
	res := ScoreAssessment(nil, ScoringConfig{})
	assert.Equal(t, 0.0, res.OverallPct)
	assert.Equal(t, StatusNeedsDevelopment, res.StatusTag)
	assert.Empty(t, res.Gaps)

	res = ScoreAssessment([]ScoreInput{{SkillID: uuid.New(), ScorePct: 100, Weight: f64(0)}}, ScoringConfig{})
	assert.Equal(t, 0.0, res.OverallPct)
}

func TestScoreAssessment_CustomThresholds(t *testing.T) {
	in := []ScoreInput{{SkillID: uuid.New(), ScorePct: 80}}

	res := ScoreAssessment(in, ScoringConfig{Thresholds: StatusThresholds{RoleReady: 80, CloseGaps: 60}})
	assert.Equal(t, StatusRoleReady, res.StatusTag)

	res = ScoreAssessment(in, ScoringConfig{Thresholds: StatusThresholds{RoleReady: 95, CloseGaps: 90}})
	assert.Equal(t, StatusNeedsDevelopment, res.StatusTag)

	// inverted cutoffs are rejected and replaced by defaults
	res = ScoreAssessment(in, ScoringConfig{Thresholds: StatusThresholds{RoleReady: 50, CloseGaps: 90}})
	assert.Equal(t, StatusCloseGaps, res.StatusTag)
}

func TestStatusThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultStatusThresholds().Validate())
	assert.ErrorIs(t, StatusThresholds{RoleReady: 60, CloseGaps: 70}.Validate(), ErrInvalidThresholds)
	assert.ErrorIs(t, StatusThresholds{RoleReady: 120, CloseGaps: 70}.Validate(), ErrInvalidThresholds)
	assert.ErrorIs(t, StatusThresholds{RoleReady: 70, CloseGaps: 70}.Validate(), ErrInvalidThresholds, "equal cutoffs leave close_gaps unreachable")
}

func TestSortGaps_ImportanceThenSize(t *testing.T) {
	gaps := []SkillScore{
		{SkillID: uuid.New(), Importance: ImportanceHelpful, Gap: 50},
		{SkillID: uuid.New(), Importance: ImportanceCritical, Gap: 5},
		{SkillID: uuid.New(), Importance: ImportanceImportant, Gap: 10},
		{SkillID: uuid.New(), Importance: ImportanceCritical, Gap: 20},
	}
	SortGaps(gaps)

	assert.Equal(t, ImportanceCritical, gaps[0].Importance)
	assert.Equal(t, 20.0, gaps[0].Gap)
	assert.Equal(t, 5.0, gaps[1].Gap)
	assert.Equal(t, ImportanceImportant, gaps[2].Importance)
	assert.Equal(t, ImportanceHelpful, gaps[3].Importance)
}

func TestParseImportanceLevel(t *testing.T) {
	assert.Equal(t, ImportanceCritical, ParseImportanceLevel(" Critical "))
	assert.Equal(t, ImportanceImportant, ParseImportanceLevel("IMPORTANT"))
	assert.Equal(t, ImportanceHelpful, ParseImportanceLevel(""))
	assert.Equal(t, 1.0, ParseImportanceLevel("nice to have").Multiplier())
}
