package seeder

import (
	"context"
	"fmt"

	"skillsync/internal/database"
)

type demoProgram struct {
	Key       string
	Name      string
	CIPCode   string
	Crosswalk []string
}

var demoPrograms = []demoProgram{
	{Key: "netsys", Name: "Network and Systems Administration", CIPCode: "11.0901", Crosswalk: []string{"15-1244.00", "15-1212.00"}},
	{Key: "cyber", Name: "Cybersecurity", CIPCode: "11.1003", Crosswalk: []string{"15-1212.00"}},
	{Key: "datasci", Name: "Data Analytics", CIPCode: "30.7102", Crosswalk: []string{"15-2051"}},
}

// ProgramsSeeder writes the demo programs and their crosswalk rows. Program
// skills are left empty for the rebuild job to fill.
type ProgramsSeeder struct{}

func (ProgramsSeeder) Name() string { return "programs" }

func (ProgramsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "cip_soc_crosswalk", "cip_code", "soc_code", "match_strength"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, p := range demoPrograms {
		if _, err := tx.Exec(ctx,
			`INSERT INTO programs (id, name, cip_code) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
			stableID("program", p.Key), p.Name, p.CIPCode,
		); err != nil {
			return fmt.Errorf("program %s: %w", p.Key, err)
		}
		for i, soc := range p.Crosswalk {
			strength := "primary"
			if i > 0 {
				strength = "secondary"
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO cip_soc_crosswalk (cip_code, soc_code, match_strength)
				 VALUES ($1, $2, $3)
				 ON CONFLICT (cip_code, soc_code) DO NOTHING`,
				p.CIPCode, soc, strength,
			); err != nil {
				return fmt.Errorf("crosswalk %s/%s: %w", p.CIPCode, soc, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
