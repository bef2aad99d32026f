package matching

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const defaultQuestionImportance = 3.0

type QuestionResponse struct {
	QuestionID uuid.UUID
	SkillID    uuid.UUID
	IsCorrect  bool
	Difficulty string
	Importance *float64
}

type SkillTally struct {
	SkillID           uuid.UUID
	QuestionsAnswered int
	QuestionsCorrect  int
	ScorePct          float64
}

// TallyResponses groups answered questions per skill. ScorePct weighs each
// question by importance and difficulty, so hard, important questions move
// the score more than easy ones.
func TallyResponses(responses []QuestionResponse) []SkillTally {
	type acc struct {
		tally    SkillTally
		earned   float64
		possible float64
	}
	bySkill := make(map[uuid.UUID]*acc)
	for _, r := range responses {
		if r.SkillID == uuid.Nil {
			continue
		}
		a, ok := bySkill[r.SkillID]
		if !ok {
			a = &acc{tally: SkillTally{SkillID: r.SkillID}}
			bySkill[r.SkillID] = a
		}

		imp := defaultQuestionImportance
		if r.Importance != nil && *r.Importance > 0 {
			imp = *r.Importance
		}
		w := imp * DifficultyMultiplier(r.Difficulty)

		a.tally.QuestionsAnswered++
		a.possible += w
		if r.IsCorrect {
			a.tally.QuestionsCorrect++
			a.earned += w
		}
	}

	out := make([]SkillTally, 0, len(bySkill))
	for _, a := range bySkill {
		t := a.tally
		switch {
		case a.possible > 0:
			t.ScorePct = math.Min(100, 100*a.earned/a.possible)
		case t.QuestionsAnswered > 0:
			t.ScorePct = 100 * float64(t.QuestionsCorrect) / float64(t.QuestionsAnswered)
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SkillID.String() < out[j].SkillID.String() })
	return out
}

func DifficultyMultiplier(difficulty string) float64 {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case "easy", "beginner":
		return 0.8
	case "hard", "advanced", "expert":
		return 1.3
	default:
		return 1.0
	}
}
