package repository

import (
	"context"

	"skillsync/internal/database"
	"skillsync/internal/domain/assessment"

	"github.com/google/uuid"
)

// AssessmentSkillRow is a stored per-skill result joined with the job's
// requirement for that skill. Weight and ImportanceLevel are nil when the
// skill is not linked to the job.
type AssessmentSkillRow struct {
	SkillID         uuid.UUID
	SkillName       string
	ScorePct        float64
	Weight          *float64
	ImportanceLevel *string
}

type AssessmentRepository interface {
	GetByID(ctx context.Context, assessmentID uuid.UUID) (assessment.Assessment, error)
	FindResultsWithRequirements(ctx context.Context, assessmentID, jobID uuid.UUID) ([]AssessmentSkillRow, error)
	InsertResults(ctx context.Context, results []assessment.SkillResult) (int, error)
	// MarkAnalyzed sets readiness fields only if they were never set and
	// reports whether this call did it.
	MarkAnalyzed(ctx context.Context, assessmentID uuid.UUID, readinessPct float64, statusTag string) (bool, error)
}

type PostgresAssessmentRepository struct {
	db database.DB
}

func NewPostgresAssessmentRepository(db database.DB) *PostgresAssessmentRepository {
	return &PostgresAssessmentRepository{db: db}
}

func (r *PostgresAssessmentRepository) GetByID(ctx context.Context, assessmentID uuid.UUID) (assessment.Assessment, error) {
	var a assessment.Assessment
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, job_id, readiness_pct::float8, status_tag, analyzed_at, created_at
		 FROM assessments WHERE id = $1`,
		assessmentID,
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.JobID, &a.ReadinessPct, &a.StatusTag, &a.AnalyzedAt, &a.CreatedAt); err != nil {
		if database.IsNoRows(err) {
			return assessment.Assessment{}, ErrAssessmentNotFound
		}
		return assessment.Assessment{}, err
	}
	return a, nil
}

func (r *PostgresAssessmentRepository) FindResultsWithRequirements(ctx context.Context, assessmentID, jobID uuid.UUID) ([]AssessmentSkillRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT asr.skill_id, COALESCE(s.name, ''), COALESCE(asr.score_pct, 0)::float8,
		        js.weight::float8, js.importance_level
		 FROM assessment_skill_results asr
		 JOIN skills s ON s.id = asr.skill_id
		 LEFT JOIN job_skills js ON js.skill_id = asr.skill_id AND js.job_id = $2
		 WHERE asr.assessment_id = $1
		 ORDER BY asr.skill_id ASC`,
		assessmentID, jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]AssessmentSkillRow, 0)
	for rows.Next() {
		var it AssessmentSkillRow
		if err := rows.Scan(&it.SkillID, &it.SkillName, &it.ScorePct, &it.Weight, &it.ImportanceLevel); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresAssessmentRepository) InsertResults(ctx context.Context, results []assessment.SkillResult) (int, error) {
	if len(results) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	inserted := 0
	for _, it := range results {
		n, err := tx.Exec(ctx,
			`INSERT INTO assessment_skill_results (id, assessment_id, skill_id, questions_answered, questions_correct, score_pct)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (assessment_id, skill_id) DO NOTHING`,
			uuid.New(),
			it.AssessmentID,
			it.SkillID,
			it.QuestionsAnswered,
			it.QuestionsCorrect,
			it.ScorePct,
		)
		if err != nil {
			return 0, err
		}
		inserted += int(n)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return inserted, nil
}

func (r *PostgresAssessmentRepository) MarkAnalyzed(ctx context.Context, assessmentID uuid.UUID, readinessPct float64, statusTag string) (bool, error) {
	n, err := r.db.Exec(ctx,
		`UPDATE assessments
		 SET readiness_pct = $2, status_tag = $3, analyzed_at = now()
		 WHERE id = $1 AND analyzed_at IS NULL`,
		assessmentID, readinessPct, statusTag,
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
