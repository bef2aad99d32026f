package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankProgramsForGaps(t *testing.T) {
	crit, imp, help := uuid.New(), uuid.New(), uuid.New()
	gaps := []SkillScore{
		{SkillID: crit, SkillName: "Security", Gap: 50, Importance: ImportanceCritical},
		{SkillID: imp, SkillName: "Scripting", Gap: 0, Importance: ImportanceImportant},
		{SkillID: help, SkillName: "Docs", Gap: 0, Importance: ImportanceHelpful},
	}
	// total weight = 3*1.5 + 2 + 1 = 7.5

	critOnly := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	all := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	helpOnly := uuid.MustParse("00000000-0000-0000-0000-000000000003")
	programs := []ProgramSkills{
		{ProgramID: critOnly, Name: "Cyber Cert", Skills: NewSkillSet(crit)},
		{ProgramID: all, Name: "IT Degree", Skills: NewSkillSet(crit, imp, help, uuid.New())},
		{ProgramID: helpOnly, Name: "Writing", Skills: NewSkillSet(help)},
		{ProgramID: uuid.New(), Name: "Empty"},
	}

	got := RankProgramsForGaps(gaps, programs, GapProgramOptions{})
	require.Len(t, got, 2)

	assert.Equal(t, all, got[0].ProgramID)
	assert.Equal(t, 100.0, got[0].MatchScore)
	assert.Equal(t, 100.0, got[0].CoveragePct)
	assert.InDelta(t, 0.75, got[0].Similarity, 1e-9)
	assert.Empty(t, got[0].NotCovered)

	assert.Equal(t, critOnly, got[1].ProgramID)
	assert.InDelta(t, 60.0, got[1].MatchScore, 1e-9)
	assert.InDelta(t, 33.33, got[1].CoveragePct, 1e-9)
	assert.ElementsMatch(t, []uuid.UUID{imp, help}, got[1].NotCovered)

	lenient := RankProgramsForGaps(gaps, programs, GapProgramOptions{MinMatch: 1, MaxResults: 2})
	require.Len(t, lenient, 2)
}

func TestRankProgramsForGaps_NoGaps(t *testing.T) {
	got := RankProgramsForGaps(nil, []ProgramSkills{{ProgramID: uuid.New(), Skills: NewSkillSet(uuid.New())}}, GapProgramOptions{})
	assert.Empty(t, got)
}
