package seeder

import (
	"context"
	"fmt"

	"skillsync/internal/database"
)

type demoSkill struct {
	Key      string
	Name     string
	Category string
}

type demoJobSkill struct {
	Skill      string
	Weight     float64
	Importance string
	Origin     string
}

type demoJob struct {
	Key     string
	Title   string
	SOCCode string
	Skills  []demoJobSkill
}

var demoSkills = []demoSkill{
	{Key: "networking", Name: "Computer Networking", Category: "Technology"},
	{Key: "security", Name: "Network Security", Category: "Technology"},
	{Key: "scripting", Name: "Scripting", Category: "Technology"},
	{Key: "linux", Name: "Linux Administration", Category: "Technology"},
	{Key: "troubleshooting", Name: "Troubleshooting", Category: "Basic Skills"},
	{Key: "communication", Name: "Communication", Category: "Basic Skills"},
	{Key: "sql", Name: "SQL", Category: "Technology"},
	{Key: "statistics", Name: "Statistics", Category: "Knowledge"},
}

var demoJobs = []demoJob{
	{
		Key: "netadmin", Title: "Network and Computer Systems Administrator", SOCCode: "15-1244.00",
		Skills: []demoJobSkill{
			{Skill: "networking", Weight: 0.9, Importance: "critical", Origin: `{"importance":4.6,"level":5.1,"source":"onet"}`},
			{Skill: "linux", Weight: 0.7, Importance: "important", Origin: `{"importance":4.0,"source":"onet"}`},
			{Skill: "troubleshooting", Weight: 0.6, Importance: "important"},
			{Skill: "communication", Weight: 0.3, Importance: "helpful"},
		},
	},
	{
		Key: "infosec", Title: "Information Security Analyst", SOCCode: "15-1212.00",
		Skills: []demoJobSkill{
			{Skill: "security", Weight: 0.95, Importance: "critical", Origin: `{"importance":4.8,"source":"onet"}`},
			{Skill: "networking", Weight: 0.7, Importance: "important"},
			{Skill: "scripting", Weight: 0.5, Importance: "important"},
			{Skill: "communication", Weight: 0.3, Importance: "helpful"},
		},
	},
	{
		Key: "analyst", Title: "Data Analyst", SOCCode: "15-2051.01",
		Skills: []demoJobSkill{
			{Skill: "sql", Weight: 0.9, Importance: "critical"},
			{Skill: "statistics", Weight: 0.8, Importance: "critical"},
			{Skill: "scripting", Weight: 0.5, Importance: "important"},
			{Skill: "communication", Weight: 0.4, Importance: "helpful"},
		},
	},
}

// CatalogSeeder writes the demo skills, jobs and job skill links.
type CatalogSeeder struct{}

func (CatalogSeeder) Name() string { return "catalog" }

func (CatalogSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "category", "source", "external_id"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "job_skills", "job_id", "skill_id", "weight", "importance_level", "onet_data_source"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, s := range demoSkills {
		if _, err := tx.Exec(ctx,
			`INSERT INTO skills (id, name, category, source, external_id)
			 VALUES ($1, $2, $3, 'manual', $4)
			 ON CONFLICT (id) DO NOTHING`,
			stableID("skill", s.Key), s.Name, s.Category, "demo:"+s.Key,
		); err != nil {
			return fmt.Errorf("skill %s: %w", s.Key, err)
		}
	}

	for _, j := range demoJobs {
		jobID := stableID("job", j.Key)
		if _, err := tx.Exec(ctx,
			`INSERT INTO jobs (id, title, soc_code) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
			jobID, j.Title, j.SOCCode,
		); err != nil {
			return fmt.Errorf("job %s: %w", j.Key, err)
		}
		for _, js := range j.Skills {
			var origin any
			if js.Origin != "" {
				origin = js.Origin
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO job_skills (job_id, skill_id, weight, importance_level, onet_data_source)
				 VALUES ($1, $2, $3, $4, $5::jsonb)
				 ON CONFLICT (job_id, skill_id) DO NOTHING`,
				jobID, stableID("skill", js.Skill), js.Weight, js.Importance, origin,
			); err != nil {
				return fmt.Errorf("job skill %s/%s: %w", j.Key, js.Skill, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
