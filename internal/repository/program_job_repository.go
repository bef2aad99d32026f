package repository

import (
	"context"

	"skillsync/internal/database"
	"skillsync/internal/domain/match"

	"github.com/google/uuid"
)

type ProgramJobRepository interface {
	ExistingJobIDs(ctx context.Context, programID uuid.UUID) ([]uuid.UUID, error)
	// InsertIfAbsent writes rows whose (program_id, job_id) pair is new and
	// returns how many were written. Existing pairs are left untouched.
	InsertIfAbsent(ctx context.Context, rows []match.ProgramJob) (int, error)
}

type PostgresProgramJobRepository struct {
	db database.DB
}

func NewPostgresProgramJobRepository(db database.DB) *PostgresProgramJobRepository {
	return &PostgresProgramJobRepository{db: db}
}

func (r *PostgresProgramJobRepository) ExistingJobIDs(ctx context.Context, programID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT job_id FROM program_jobs WHERE program_id = $1`, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresProgramJobRepository) InsertIfAbsent(ctx context.Context, rows []match.ProgramJob) (int, error) {
	inserted := 0
	for _, m := range rows {
		if m.ProgramID == uuid.Nil || m.JobID == uuid.Nil {
			continue
		}
		n, err := r.db.Exec(ctx,
			`INSERT INTO program_jobs (id, program_id, job_id, match_type, match_confidence, notes)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (program_id, job_id) DO NOTHING`,
			uuid.New(),
			m.ProgramID,
			m.JobID,
			m.MatchType,
			m.MatchConfidence,
			m.Notes,
		)
		if err != nil {
			if database.IsUniqueViolation(err) {
				continue
			}
			return inserted, err
		}
		inserted += int(n)
	}
	return inserted, nil
}
