package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"skillsync/internal/database"
	"skillsync/internal/domain/assessment"
	"skillsync/internal/domain/job"
	"skillsync/internal/domain/matching"
	"skillsync/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultVisibilityThreshold = 85.0

// ScoringDefaults apply when a job does not carry its own values.
type ScoringDefaults struct {
	RequiredProficiency    float64
	RoleReadyPct           float64
	CloseGapsPct           float64
	VisibilityThresholdPct float64
}

type AnalysisResult struct {
	AssessmentID    uuid.UUID
	JobID           uuid.UUID
	Readiness       matching.ReadinessResult
	AlreadyAnalyzed bool
	// Visible marks a result high enough to surface the candidate to employers.
	Visible bool
}

type RecordResult struct {
	Tallies  []matching.SkillTally
	Inserted int
	Skipped  int
}

type AssessmentScoringUsecase interface {
	RecordResponses(ctx context.Context, assessmentID uuid.UUID, responses []matching.QuestionResponse) (RecordResult, error)
	Analyze(ctx context.Context, assessmentID uuid.UUID) (AnalysisResult, error)
	Score(ctx context.Context, assessmentID uuid.UUID) (assessment.Assessment, matching.ReadinessResult, error)
	Authorize(ctx context.Context, assessmentID, userID uuid.UUID, isAdmin bool) error
}

type AssessmentScoring struct {
	assessments repository.AssessmentRepository
	jobs        repository.JobRepository
	skills      repository.SkillRepository
	events      EventPublisher
	defaults    ScoringDefaults
	logger      *zap.Logger
}

func NewAssessmentScoringUsecase(
	assessments repository.AssessmentRepository,
	jobs repository.JobRepository,
	skills repository.SkillRepository,
	events EventPublisher,
	defaults ScoringDefaults,
	logger *zap.Logger,
) *AssessmentScoring {
	if defaults.RequiredProficiency <= 0 {
		defaults.RequiredProficiency = matching.DefaultRequiredProficiency
	}
	t := matching.StatusThresholds{RoleReady: defaults.RoleReadyPct, CloseGaps: defaults.CloseGapsPct}
	if t == (matching.StatusThresholds{}) || t.Validate() != nil {
		defaults.RoleReadyPct = matching.DefaultRoleReadyPct
		defaults.CloseGapsPct = matching.DefaultCloseGapsPct
	}
	if defaults.VisibilityThresholdPct <= 0 {
		defaults.VisibilityThresholdPct = defaultVisibilityThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentScoring{
		assessments: assessments,
		jobs:        jobs,
		skills:      skills,
		events:      publisherOrNoop(events),
		defaults:    defaults,
		logger:      logger.Named("assessment_scoring"),
	}
}

// RecordResponses tallies answered questions into per-skill results. Results
// already stored for a skill are kept; a second submission cannot change them.
// Once the assessment is analyzed no further results are accepted.
func (u *AssessmentScoring) RecordResponses(ctx context.Context, assessmentID uuid.UUID, responses []matching.QuestionResponse) (RecordResult, error) {
	if assessmentID == uuid.Nil || len(responses) == 0 {
		return RecordResult{}, ErrInvalidInput
	}
	a, err := u.loadAssessment(ctx, assessmentID)
	if err != nil {
		return RecordResult{}, err
	}
	if a.Analyzed() {
		return RecordResult{}, fmt.Errorf("%w: %s", ErrAlreadyAnalyzed, a.ID)
	}

	tallies := matching.TallyResponses(responses)
	if len(tallies) == 0 {
		return RecordResult{}, fmt.Errorf("%w: no response references a skill", ErrInvalidInput)
	}
	if err := u.ensureSkillsExist(ctx, tallies); err != nil {
		return RecordResult{}, err
	}

	results := make([]assessment.SkillResult, 0, len(tallies))
	for _, t := range tallies {
		results = append(results, assessment.SkillResult{
			AssessmentID:      assessmentID,
			SkillID:           t.SkillID,
			QuestionsAnswered: t.QuestionsAnswered,
			QuestionsCorrect:  t.QuestionsCorrect,
			ScorePct:          t.ScorePct,
		})
	}

	inserted, err := u.assessments.InsertResults(ctx, results)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return RecordResult{}, fmt.Errorf("%w: skill or assessment no longer exists", ErrInvalidInput)
		}
		return RecordResult{}, unavailable("insert skill results", err)
	}
	return RecordResult{Tallies: tallies, Inserted: inserted, Skipped: len(results) - inserted}, nil
}

func (u *AssessmentScoring) ensureSkillsExist(ctx context.Context, tallies []matching.SkillTally) error {
	ids := make([]uuid.UUID, 0, len(tallies))
	for _, t := range tallies {
		ids = append(ids, t.SkillID)
	}
	found, err := u.skills.FindByIDs(ctx, ids)
	if err != nil {
		return unavailable("load skills", err)
	}
	known := make(map[uuid.UUID]struct{}, len(found))
	for _, s := range found {
		known[s.ID] = struct{}{}
	}

	missing := make([]string, 0)
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: unknown skills %s", ErrInvalidInput, strings.Join(missing, ","))
	}
	return nil
}

// Analyze scores the assessment and stores its readiness the first time it
// is called. Later calls return the stored readiness with AlreadyAnalyzed set.
func (u *AssessmentScoring) Analyze(ctx context.Context, assessmentID uuid.UUID) (AnalysisResult, error) {
	a, readiness, err := u.Score(ctx, assessmentID)
	if err != nil {
		return AnalysisResult{}, err
	}

	updated := false
	if !a.Analyzed() {
		updated, err = u.assessments.MarkAnalyzed(ctx, a.ID, readiness.OverallPct, string(readiness.StatusTag))
		if err != nil {
			return AnalysisResult{}, unavailable("store readiness", err)
		}
		if !updated {
			// lost the race to a concurrent analysis
			stored, err := u.loadAssessment(ctx, a.ID)
			if err != nil {
				return AnalysisResult{}, err
			}
			applyStoredReadiness(&readiness, stored)
		}
	}
	if updated {
		u.events.AssessmentAnalyzed(a.ID, readiness.OverallPct, string(readiness.StatusTag))
		u.logger.Info("assessment analyzed",
			zap.String("assessment_id", a.ID.String()),
			zap.Float64("readiness_pct", readiness.OverallPct),
			zap.String("status_tag", string(readiness.StatusTag)),
			zap.Int("gaps", len(readiness.Gaps)),
		)
	}

	return AnalysisResult{
		AssessmentID:    a.ID,
		JobID:           a.JobID,
		Readiness:       readiness,
		AlreadyAnalyzed: !updated,
		Visible:         readiness.OverallPct >= u.defaults.VisibilityThresholdPct,
	}, nil
}

// Score computes readiness without persisting anything. For an analyzed
// assessment the stored percentage and status win over the recomputed ones.
func (u *AssessmentScoring) Score(ctx context.Context, assessmentID uuid.UUID) (assessment.Assessment, matching.ReadinessResult, error) {
	if assessmentID == uuid.Nil {
		return assessment.Assessment{}, matching.ReadinessResult{}, ErrInvalidInput
	}
	a, err := u.loadAssessment(ctx, assessmentID)
	if err != nil {
		return assessment.Assessment{}, matching.ReadinessResult{}, err
	}

	cfg, err := u.scoringConfig(ctx, a.JobID)
	if err != nil {
		return assessment.Assessment{}, matching.ReadinessResult{}, err
	}

	rows, err := u.assessments.FindResultsWithRequirements(ctx, a.ID, a.JobID)
	if err != nil {
		return assessment.Assessment{}, matching.ReadinessResult{}, unavailable("load skill results", err)
	}
	if len(rows) == 0 {
		return assessment.Assessment{}, matching.ReadinessResult{}, fmt.Errorf("%w: %s", ErrNoSkillResults, a.ID)
	}

	inputs := make([]matching.ScoreInput, 0, len(rows))
	for _, r := range rows {
		in := matching.ScoreInput{
			SkillID:   r.SkillID,
			SkillName: r.SkillName,
			ScorePct:  r.ScorePct,
			Weight:    r.Weight,
		}
		if r.ImportanceLevel != nil {
			in.Importance = matching.ParseImportanceLevel(*r.ImportanceLevel)
		}
		inputs = append(inputs, in)
	}

	readiness := matching.ScoreAssessment(inputs, cfg)
	// stored as NUMERIC(5,2); classify the stored value
	readiness.OverallPct = round2(readiness.OverallPct)
	readiness.StatusTag = cfg.Thresholds.Classify(readiness.OverallPct)
	applyStoredReadiness(&readiness, a)
	return a, readiness, nil
}

func applyStoredReadiness(r *matching.ReadinessResult, a assessment.Assessment) {
	if !a.Analyzed() || a.ReadinessPct == nil || a.StatusTag == nil {
		return
	}
	r.OverallPct = *a.ReadinessPct
	r.StatusTag = matching.StatusTag(*a.StatusTag)
}

// Authorize allows the assessment's owner and admins.
func (u *AssessmentScoring) Authorize(ctx context.Context, assessmentID, userID uuid.UUID, isAdmin bool) error {
	a, err := u.loadAssessment(ctx, assessmentID)
	if err != nil {
		return err
	}
	if isAdmin || (userID != uuid.Nil && a.UserID == userID) {
		return nil
	}
	return ErrUnauthorized
}

func (u *AssessmentScoring) loadAssessment(ctx context.Context, id uuid.UUID) (assessment.Assessment, error) {
	a, err := u.assessments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAssessmentNotFound) {
			return assessment.Assessment{}, ErrAssessmentNotFound
		}
		return assessment.Assessment{}, unavailable("load assessment", err)
	}
	return a, nil
}

// scoringConfig prefers the job's own proficiency and cutoffs. Missing or
// inconsistent values fall back to the configured defaults with a warning.
func (u *AssessmentScoring) scoringConfig(ctx context.Context, jobID uuid.UUID) (matching.ScoringConfig, error) {
	cfg := matching.ScoringConfig{
		RequiredProficiency: u.defaults.RequiredProficiency,
		Thresholds: matching.StatusThresholds{
			RoleReady: u.defaults.RoleReadyPct,
			CloseGaps: u.defaults.CloseGapsPct,
		},
	}

	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			u.logger.Warn("assessment job not found, using default scoring config", zap.String("job_id", jobID.String()))
			return cfg, nil
		}
		return matching.ScoringConfig{}, unavailable("load job", err)
	}

	applyJobScoring(&cfg, j, u.logger)
	return cfg, nil
}

func applyJobScoring(cfg *matching.ScoringConfig, j job.Job, logger *zap.Logger) {
	if j.RequiredProficiencyPct != nil && *j.RequiredProficiencyPct > 0 {
		cfg.RequiredProficiency = *j.RequiredProficiencyPct
	} else {
		logger.Warn("job has no required proficiency, using default",
			zap.String("job_id", j.ID.String()),
			zap.Float64("default", cfg.RequiredProficiency),
		)
	}

	if j.RoleReadyPct == nil && j.CloseGapsPct == nil {
		return
	}
	t := cfg.Thresholds
	if j.RoleReadyPct != nil {
		t.RoleReady = *j.RoleReadyPct
	}
	if j.CloseGapsPct != nil {
		t.CloseGaps = *j.CloseGapsPct
	}
	if err := t.Validate(); err != nil {
		logger.Warn("job status cutoffs invalid, using defaults",
			zap.String("job_id", j.ID.String()),
			zap.Error(err),
		)
		return
	}
	cfg.Thresholds = t
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
