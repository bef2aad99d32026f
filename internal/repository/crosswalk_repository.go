package repository

import (
	"context"
	"strings"

	"skillsync/internal/database"
	"skillsync/internal/domain/job"
)

type CrosswalkRepository interface {
	FindByCIP(ctx context.Context, cipCode string) ([]job.CrosswalkEntry, error)
}

type PostgresCrosswalkRepository struct {
	db database.DB
}

func NewPostgresCrosswalkRepository(db database.DB) *PostgresCrosswalkRepository {
	return &PostgresCrosswalkRepository{db: db}
}

func (r *PostgresCrosswalkRepository) FindByCIP(ctx context.Context, cipCode string) ([]job.CrosswalkEntry, error) {
	cipCode = strings.TrimSpace(cipCode)
	if cipCode == "" {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT cip_code, soc_code, COALESCE(match_strength, 'primary')
		 FROM cip_soc_crosswalk
		 WHERE cip_code = $1
		 ORDER BY CASE match_strength WHEN 'primary' THEN 0 WHEN 'secondary' THEN 1 ELSE 2 END, soc_code ASC`,
		cipCode,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.CrosswalkEntry, 0)
	for rows.Next() {
		var e job.CrosswalkEntry
		if err := rows.Scan(&e.CIPCode, &e.SOCCode, &e.MatchStrength); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
