package matching

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

const (
	DefaultGapMinMatch   = 60.0
	DefaultGapMaxResults = 10
)

type ProgramSkills struct {
	ProgramID uuid.UUID
	Name      string
	CIPCode   string
	Skills    SkillSet
}

type GapProgramOptions struct {
	MinMatch   float64
	MaxResults int
}

func (o GapProgramOptions) normalized() GapProgramOptions {
	if o.MinMatch <= 0 || o.MinMatch > 100 {
		o.MinMatch = DefaultGapMinMatch
	}
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultGapMaxResults
	}
	return o
}

type CoveredGap struct {
	SkillID   uuid.UUID
	SkillName string
	Gap       float64
}

type GapProgramMatch struct {
	ProgramID     uuid.UUID
	Name          string
	CIPCode       string
	MatchScore    float64
	CoveragePct   float64
	Similarity    float64
	SkillsCovered []CoveredGap
	NotCovered    []uuid.UUID
}

// importance weight: critical 3, important 2, otherwise 1.
func gapImportanceWeight(l ImportanceLevel) float64 {
	switch l {
	case ImportanceCritical:
		return 3
	case ImportanceImportant:
		return 2
	default:
		return 1
	}
}

// RankProgramsForGaps scores each program by how much of the weighted gap
// set it teaches. A gap weighs importance * (1 + gap/100), so large gaps on
// critical skills dominate.
func RankProgramsForGaps(gaps []SkillScore, programs []ProgramSkills, opts GapProgramOptions) []GapProgramMatch {
	opts = opts.normalized()
	if len(gaps) == 0 {
		return []GapProgramMatch{}
	}

	gapIDs := make([]uuid.UUID, 0, len(gaps))
	total := 0.0
	for _, g := range gaps {
		gapIDs = append(gapIDs, g.SkillID)
		total += gapImportanceWeight(g.Importance) * (1 + g.Gap/100)
	}
	gapSet := NewSkillSet(gapIDs...)

	out := make([]GapProgramMatch, 0)
	for _, p := range programs {
		if p.ProgramID == uuid.Nil || len(p.Skills) == 0 {
			continue
		}

		covered := make([]CoveredGap, 0)
		notCovered := make([]uuid.UUID, 0)
		weighted := 0.0
		for _, g := range gaps {
			if !p.Skills.Has(g.SkillID) {
				notCovered = append(notCovered, g.SkillID)
				continue
			}
			weighted += gapImportanceWeight(g.Importance) * (1 + g.Gap/100)
			covered = append(covered, CoveredGap{SkillID: g.SkillID, SkillName: g.SkillName, Gap: g.Gap})
		}
		if len(covered) == 0 || total <= 0 {
			continue
		}

		score := 100 * weighted / total
		if score < opts.MinMatch {
			continue
		}

		out = append(out, GapProgramMatch{
			ProgramID:     p.ProgramID,
			Name:          p.Name,
			CIPCode:       p.CIPCode,
			MatchScore:    math.Round(score*100) / 100,
			CoveragePct:   math.Round(10000*float64(len(covered))/float64(len(gaps))) / 100,
			Similarity:    Jaccard(p.Skills, gapSet),
			SkillsCovered: covered,
			NotCovered:    notCovered,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchScore != out[j].MatchScore {
			return out[i].MatchScore > out[j].MatchScore
		}
		return out[i].ProgramID.String() < out[j].ProgramID.String()
	})

	if len(out) > opts.MaxResults {
		out = out[:opts.MaxResults]
	}
	return out
}
