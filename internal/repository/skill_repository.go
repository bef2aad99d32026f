package repository

import (
	"context"

	"skillsync/internal/database"
	"skillsync/internal/domain/skill"

	"github.com/google/uuid"
)

type SkillRepository interface {
	FindByIDs(ctx context.Context, skillIDs []uuid.UUID) ([]skill.Skill, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) FindByIDs(ctx context.Context, skillIDs []uuid.UUID) ([]skill.Skill, error) {
	ids := uuidStrings(skillIDs)
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, COALESCE(name, ''), COALESCE(category, ''), COALESCE(source, 'manual'),
		        external_id, description, created_at
		 FROM skills
		 WHERE id = ANY($1::uuid[])
		 ORDER BY name ASC`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		var s skill.Skill
		var source string
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &source, &s.ExternalID, &s.Description, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Source = skill.Source(source)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
