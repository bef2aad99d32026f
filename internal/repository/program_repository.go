package repository

import (
	"context"
	"fmt"

	"skillsync/internal/database"
	"skillsync/internal/domain/program"
	"skillsync/internal/domain/skill"

	"github.com/google/uuid"
)

type ProgramSkillRow struct {
	ProgramID   uuid.UUID
	ProgramName string
	CIPCode     string
	SkillID     uuid.UUID
	SkillName   string
	Weight      float64
}

type ProgramRepository interface {
	GetByID(ctx context.Context, programID uuid.UUID) (program.Program, error)
	ListWithCIP(ctx context.Context) ([]program.Program, error)
	FindSkills(ctx context.Context, programID uuid.UUID) ([]ProgramSkillRow, error)
	// FindCoveringSkills returns the full skill sets of every program that
	// teaches at least one of skillIDs.
	FindCoveringSkills(ctx context.Context, skillIDs []uuid.UUID) ([]ProgramSkillRow, error)
	ReplaceSkills(ctx context.Context, programID uuid.UUID, links []skill.ProgramLink) (int, error)
}

type PostgresProgramRepository struct {
	db database.DB
}

func NewPostgresProgramRepository(db database.DB) *PostgresProgramRepository {
	return &PostgresProgramRepository{db: db}
}

func (r *PostgresProgramRepository) GetByID(ctx context.Context, programID uuid.UUID) (program.Program, error) {
	var p program.Program
	row := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(name, ''), cip_code, COALESCE(skills_count, 0), created_at
		 FROM programs WHERE id = $1`,
		programID,
	)
	if err := row.Scan(&p.ID, &p.Name, &p.CIPCode, &p.SkillsCount, &p.CreatedAt); err != nil {
		if database.IsNoRows(err) {
			return program.Program{}, ErrProgramNotFound
		}
		return program.Program{}, err
	}
	return p, nil
}

func (r *PostgresProgramRepository) ListWithCIP(ctx context.Context) ([]program.Program, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, COALESCE(name, ''), cip_code, COALESCE(skills_count, 0), created_at
		 FROM programs
		 WHERE cip_code IS NOT NULL AND cip_code <> ''
		 ORDER BY id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]program.Program, 0)
	for rows.Next() {
		var p program.Program
		if err := rows.Scan(&p.ID, &p.Name, &p.CIPCode, &p.SkillsCount, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const programSkillColumns = `ps.program_id, COALESCE(p.name, ''), COALESCE(p.cip_code, ''),
	ps.skill_id, COALESCE(s.name, ''), COALESCE(ps.weight, 0)::float8`

func (r *PostgresProgramRepository) FindSkills(ctx context.Context, programID uuid.UUID) ([]ProgramSkillRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+programSkillColumns+`
		 FROM program_skills ps
		 JOIN programs p ON p.id = ps.program_id
		 JOIN skills s ON s.id = ps.skill_id
		 WHERE ps.program_id = $1
		 ORDER BY ps.weight DESC, s.name ASC`,
		programID,
	)
	if err != nil {
		return nil, err
	}
	return collectProgramSkills(rows)
}

func (r *PostgresProgramRepository) FindCoveringSkills(ctx context.Context, skillIDs []uuid.UUID) ([]ProgramSkillRow, error) {
	ids := uuidStrings(skillIDs)
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+programSkillColumns+`
		 FROM program_skills ps
		 JOIN programs p ON p.id = ps.program_id
		 JOIN skills s ON s.id = ps.skill_id
		 WHERE ps.program_id IN (
			SELECT DISTINCT program_id FROM program_skills WHERE skill_id = ANY($1::uuid[])
		 )
		 ORDER BY ps.program_id ASC, ps.skill_id ASC`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	return collectProgramSkills(rows)
}

// ReplaceSkills swaps the program's whole skill set and its cached count in
// one transaction. Readers never observe a partial set.
func (r *PostgresProgramRepository) ReplaceSkills(ctx context.Context, programID uuid.UUID, links []skill.ProgramLink) (int, error) {
	if programID == uuid.Nil {
		return 0, fmt.Errorf("nil program id")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if _, err := tx.Exec(ctx, `DELETE FROM program_skills WHERE program_id = $1`, programID); err != nil {
		return 0, err
	}

	inserted := 0
	for _, l := range links {
		if l.SkillID == uuid.Nil {
			continue
		}
		n, err := tx.Exec(ctx,
			`INSERT INTO program_skills (id, program_id, skill_id, weight)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (program_id, skill_id) DO NOTHING`,
			uuid.New(),
			programID,
			l.SkillID,
			l.Weight,
		)
		if err != nil {
			return 0, err
		}
		inserted += int(n)
	}

	n, err := tx.Exec(ctx, `UPDATE programs SET skills_count = $2 WHERE id = $1`, programID, inserted)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrProgramNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return inserted, nil
}

func collectProgramSkills(rows database.Rows) ([]ProgramSkillRow, error) {
	defer rows.Close()

	out := make([]ProgramSkillRow, 0)
	for rows.Next() {
		var it ProgramSkillRow
		if err := rows.Scan(&it.ProgramID, &it.ProgramName, &it.CIPCode, &it.SkillID, &it.SkillName, &it.Weight); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
