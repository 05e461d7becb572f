package seeder

import (
	"context"
	"fmt"

	"roleready/internal/database"
	"roleready/internal/domain/skill"
)

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

type seedSkill struct {
	Name   string
	Domain string
}

var catalog = []seedSkill{
	{Name: "Go", Domain: "backend"},
	{Name: "SQL", Domain: "data"},
	{Name: "PostgreSQL", Domain: "data"},
	{Name: "Redis", Domain: "data"},
	{Name: "Docker", Domain: "devops"},
	{Name: "Kubernetes", Domain: "devops"},
	{Name: "REST API Design", Domain: "backend"},
	{Name: "TypeScript", Domain: "frontend"},
	{Name: "React", Domain: "frontend"},
	{Name: "CSS", Domain: "frontend"},
	{Name: "Python", Domain: "data"},
	{Name: "Statistics", Domain: "data"},
	{Name: "Machine Learning", Domain: "data"},
	{Name: "Git", Domain: "tooling"},
}

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "normalized_name", "domain", "is_active"); err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range catalog {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO skills (id, name, normalized_name, domain) VALUES (gen_random_uuid(), $1, $2, $3) ON CONFLICT (normalized_name) DO NOTHING`,
				it.Name,
				skill.NormalizeName(it.Name),
				it.Domain,
			)
			if err != nil {
				return fmt.Errorf("insert skill %s: %w", it.Name, err)
			}
		}
		return nil
	})
}
