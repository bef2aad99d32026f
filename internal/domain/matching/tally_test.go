package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTallyResponses(t *testing.T) {
	s1, s2 := uuid.MustParse("00000000-0000-0000-0000-000000000001"), uuid.MustParse("00000000-0000-0000-0000-000000000002")
	responses := []QuestionResponse{
		{QuestionID: uuid.New(), SkillID: s1, IsCorrect: true, Difficulty: "hard"},
		{QuestionID: uuid.New(), SkillID: s1, IsCorrect: false, Difficulty: "easy"},
		{QuestionID: uuid.New(), SkillID: s2, IsCorrect: true, Importance: f64(5)},
		{QuestionID: uuid.New(), SkillID: uuid.Nil, IsCorrect: true},
	}

	got := TallyResponses(responses)
	require.Len(t, got, 2)

	assert.Equal(t, s1, got[0].SkillID)
	assert.Equal(t, 2, got[0].QuestionsAnswered)
	assert.Equal(t, 1, got[0].QuestionsCorrect)
	// 3*1.3 earned of 3*1.3 + 3*0.8 possible
	assert.InDelta(t, 100*3.9/6.3, got[0].ScorePct, 1e-9)

	assert.Equal(t, 100.0, got[1].ScorePct)
}

func TestDifficultyMultiplier(t *testing.T) {
	assert.Equal(t, 0.8, DifficultyMultiplier("Beginner"))
	assert.Equal(t, 1.0, DifficultyMultiplier("medium"))
	assert.Equal(t, 1.3, DifficultyMultiplier("expert"))
	assert.Equal(t, 1.0, DifficultyMultiplier(""))
}
