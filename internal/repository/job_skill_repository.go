package repository

import (
	"context"

	"skillsync/internal/database"
	"skillsync/internal/domain/skill"

	"github.com/google/uuid"
)

// JobSkillRow is a job_skills link with its skill's display fields. The
// origin payload is returned raw; callers validate it.
type JobSkillRow struct {
	skill.OccupationLink
	SkillName string
	Category  string
}

type JobSkillRepository interface {
	FindByJobIDs(ctx context.Context, jobIDs []uuid.UUID) ([]JobSkillRow, error)
}

type PostgresJobSkillRepository struct {
	db database.DB
}

func NewPostgresJobSkillRepository(db database.DB) *PostgresJobSkillRepository {
	return &PostgresJobSkillRepository{db: db}
}

func (r *PostgresJobSkillRepository) FindByJobIDs(ctx context.Context, jobIDs []uuid.UUID) ([]JobSkillRow, error) {
	ids := uuidStrings(jobIDs)
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT js.job_id, js.skill_id, COALESCE(s.name, ''), COALESCE(s.category, ''),
		        js.weight::float8, js.importance_level, js.onet_data_source
		 FROM job_skills js
		 JOIN skills s ON s.id = js.skill_id
		 WHERE js.job_id = ANY($1::uuid[])
		 ORDER BY js.job_id ASC, js.skill_id ASC`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]JobSkillRow, 0)
	for rows.Next() {
		var it JobSkillRow
		if err := rows.Scan(
			&it.JobID,
			&it.SkillID,
			&it.SkillName,
			&it.Category,
			&it.Weight,
			&it.ImportanceLevel,
			&it.OriginData,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
