package repository

import (
	"context"

	"skillsync/internal/database"
	"skillsync/internal/domain/job"

	"github.com/google/uuid"
)

// JobRepository pages with a keyset on id: pass uuid.Nil for the first page
// and the last returned id afterwards.
type JobRepository interface {
	GetByID(ctx context.Context, jobID uuid.UUID) (job.Job, error)
	ListBySOCCodes(ctx context.Context, socCodes []string, after uuid.UUID, limit int) ([]job.Job, error)
	ListWithSkills(ctx context.Context, after uuid.UUID, limit int) ([]job.Job, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `j.id, COALESCE(j.title, ''), COALESCE(j.soc_code, ''),
	j.required_proficiency_pct::float8, j.role_ready_pct::float8, j.close_gaps_pct::float8, j.created_at`

func (r *PostgresJobRepository) GetByID(ctx context.Context, jobID uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs j WHERE j.id = $1`, jobID)
	j, err := scanJob(row)
	if err != nil {
		if database.IsNoRows(err) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

// ListBySOCCodes matches exact codes and detailed codes sharing the base
// (15-1252 matches 15-1252.00).
func (r *PostgresJobRepository) ListBySOCCodes(ctx context.Context, socCodes []string, after uuid.UUID, limit int) ([]job.Job, error) {
	if len(socCodes) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 500
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs j
		 WHERE (j.soc_code = ANY($1::text[]) OR split_part(j.soc_code, '.', 1) = ANY($1::text[]))
		   AND j.id > $2
		 ORDER BY j.id ASC
		 LIMIT $3`,
		socCodes, after, limit,
	)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

func (r *PostgresJobRepository) ListWithSkills(ctx context.Context, after uuid.UUID, limit int) ([]job.Job, error) {
	if limit <= 0 {
		limit = 500
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs j
		 WHERE j.id > $1
		   AND EXISTS (SELECT 1 FROM job_skills js WHERE js.job_id = j.id)
		 ORDER BY j.id ASC
		 LIMIT $2`,
		after, limit,
	)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

func collectJobs(rows database.Rows) ([]job.Job, error) {
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	err := row.Scan(
		&j.ID,
		&j.Title,
		&j.SOCCode,
		&j.RequiredProficiencyPct,
		&j.RoleReadyPct,
		&j.CloseGapsPct,
		&j.CreatedAt,
	)
	return j, err
}
