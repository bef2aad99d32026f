package usecase

import (
	"context"

	"skillsync/internal/domain/matching"
	"skillsync/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ReasonNoSkillGaps = "no skill gaps"
	ReasonNoPrograms  = "no programs found"
)

type Recommendation struct {
	AssessmentID uuid.UUID
	Gaps         []matching.SkillScore
	Programs     []matching.GapProgramMatch
	Reason       string
}

type ProgramRecommendationUsecase interface {
	ForAssessment(ctx context.Context, assessmentID uuid.UUID, opts matching.GapProgramOptions) (Recommendation, error)
}

type ProgramRecommendation struct {
	scoring  AssessmentScoringUsecase
	programs repository.ProgramRepository
	defaults matching.GapProgramOptions
	logger   *zap.Logger
}

func NewProgramRecommendationUsecase(
	scoring AssessmentScoringUsecase,
	programs repository.ProgramRepository,
	defaults matching.GapProgramOptions,
	logger *zap.Logger,
) *ProgramRecommendation {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramRecommendation{
		scoring:  scoring,
		programs: programs,
		defaults: defaults,
		logger:   logger.Named("program_recommendation"),
	}
}

// ForAssessment ranks programs by how well they cover the assessment's skill
// gaps. Empty outcomes carry a Reason instead of an error.
func (u *ProgramRecommendation) ForAssessment(ctx context.Context, assessmentID uuid.UUID, opts matching.GapProgramOptions) (Recommendation, error) {
	if opts.MinMatch == 0 {
		opts.MinMatch = u.defaults.MinMatch
	}
	if opts.MaxResults == 0 {
		opts.MaxResults = u.defaults.MaxResults
	}

	_, readiness, err := u.scoring.Score(ctx, assessmentID)
	if err != nil {
		return Recommendation{}, err
	}

	rec := Recommendation{
		AssessmentID: assessmentID,
		Gaps:         readiness.Gaps,
		Programs:     []matching.GapProgramMatch{},
	}
	if len(readiness.Gaps) == 0 {
		rec.Reason = ReasonNoSkillGaps
		return rec, nil
	}

	rows, err := u.programs.FindCoveringSkills(ctx, readiness.GapSkillSet().IDs())
	if err != nil {
		return Recommendation{}, unavailable("load program skills", err)
	}

	programs := groupProgramSkills(rows)
	if len(programs) == 0 {
		rec.Reason = ReasonNoPrograms
		return rec, nil
	}

	rec.Programs = matching.RankProgramsForGaps(readiness.Gaps, programs, opts)
	if len(rec.Programs) == 0 {
		rec.Reason = ReasonNoPrograms
	}
	u.logger.Debug("programs ranked for gaps",
		zap.String("assessment_id", assessmentID.String()),
		zap.Int("gaps", len(readiness.Gaps)),
		zap.Int("candidates", len(programs)),
		zap.Int("matches", len(rec.Programs)),
	)
	return rec, nil
}

func groupProgramSkills(rows []repository.ProgramSkillRow) []matching.ProgramSkills {
	out := make([]matching.ProgramSkills, 0)
	index := make(map[uuid.UUID]int)
	for _, r := range rows {
		i, ok := index[r.ProgramID]
		if !ok {
			i = len(out)
			index[r.ProgramID] = i
			out = append(out, matching.ProgramSkills{
				ProgramID: r.ProgramID,
				Name:      r.ProgramName,
				CIPCode:   r.CIPCode,
				Skills:    matching.SkillSet{},
			})
		}
		out[i].Skills[r.SkillID] = struct{}{}
	}
	return out
}
