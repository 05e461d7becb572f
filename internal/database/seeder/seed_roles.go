package seeder

import (
	"context"
	"errors"
	"fmt"

	"roleready/internal/database"
	"roleready/internal/domain/role"
	"roleready/internal/domain/skill"
	"roleready/internal/repository"

	"github.com/google/uuid"
)

// RolesSeeder inserts sample roles. It must run after SkillsSeeder since
// benchmarks reference catalog skills by name.
type RolesSeeder struct{}

func (RolesSeeder) Name() string { return "roles" }

type seedBenchmark struct {
	Skill         string
	Importance    role.Importance
	Weight        int
	RequiredLevel int
}

type seedRole struct {
	Name        string
	Category    string
	Description string
	Benchmarks  []seedBenchmark
}

var sampleRoles = []seedRole{
	{
		Name:        "Backend Engineer",
		Category:    "engineering",
		Description: "Builds and operates HTTP services backed by relational storage.",
		Benchmarks: []seedBenchmark{
			{Skill: "Go", Importance: role.ImportanceRequired, Weight: 30, RequiredLevel: 3},
			{Skill: "PostgreSQL", Importance: role.ImportanceRequired, Weight: 25, RequiredLevel: 3},
			{Skill: "REST API Design", Importance: role.ImportanceRequired, Weight: 20, RequiredLevel: 3},
			{Skill: "Docker", Importance: role.ImportanceOptional, Weight: 15, RequiredLevel: 2},
			{Skill: "Redis", Importance: role.ImportanceOptional, Weight: 10, RequiredLevel: 2},
		},
	},
	{
		Name:        "Frontend Engineer",
		Category:    "engineering",
		Description: "Ships accessible browser interfaces.",
		Benchmarks: []seedBenchmark{
			{Skill: "TypeScript", Importance: role.ImportanceRequired, Weight: 35, RequiredLevel: 3},
			{Skill: "React", Importance: role.ImportanceRequired, Weight: 35, RequiredLevel: 3},
			{Skill: "CSS", Importance: role.ImportanceOptional, Weight: 20, RequiredLevel: 2},
			{Skill: "Git", Importance: role.ImportanceOptional, Weight: 10, RequiredLevel: 2},
		},
	},
	{
		Name:        "Data Analyst",
		Category:    "data",
		Description: "Turns raw data into reports and decisions.",
		Benchmarks: []seedBenchmark{
			{Skill: "SQL", Importance: role.ImportanceRequired, Weight: 40, RequiredLevel: 3},
			{Skill: "Statistics", Importance: role.ImportanceRequired, Weight: 30, RequiredLevel: 2},
			{Skill: "Python", Importance: role.ImportanceOptional, Weight: 20, RequiredLevel: 2},
			{Skill: "Machine Learning", Importance: role.ImportanceOptional, Weight: 10, RequiredLevel: 1},
		},
	},
}

func (RolesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "roles", "id", "name", "category", "description", "benchmarks", "is_active"); err != nil {
		return err
	}

	repo := repository.NewPostgresRoleRepository(db)
	for _, sr := range sampleRoles {
		benchmarks := make([]role.Benchmark, 0, len(sr.Benchmarks))
		for _, b := range sr.Benchmarks {
			skillID, err := findSkillID(ctx, db, b.Skill)
			if err != nil {
				return err
			}
			benchmarks = append(benchmarks, role.Benchmark{
				SkillID:       skillID,
				SkillName:     b.Skill,
				Importance:    b.Importance,
				Weight:        b.Weight,
				RequiredLevel: b.RequiredLevel,
			})
		}
		if err := role.ValidateBenchmarks(benchmarks); err != nil {
			return fmt.Errorf("role %s: %w", sr.Name, err)
		}

		_, err := repo.CreateRole(ctx, role.Role{
			Name:        sr.Name,
			Category:    sr.Category,
			Description: sr.Description,
			Benchmarks:  benchmarks,
			IsActive:    true,
		})
		if err != nil && !errors.Is(err, repository.ErrRoleAlreadyExists) {
			return fmt.Errorf("insert role %s: %w", sr.Name, err)
		}
	}
	return nil
}

func findSkillID(ctx context.Context, db database.DB, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRow(ctx, `SELECT id FROM skills WHERE normalized_name = $1`, skill.NormalizeName(name)).Scan(&id)
	if err != nil {
		if database.IsNoRows(err) {
			return uuid.Nil, fmt.Errorf("seed skill %q missing; run the skills seeder first", name)
		}
		return uuid.Nil, err
	}
	return id, nil
}
