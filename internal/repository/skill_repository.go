package repository

import (
	"context"
	"errors"

	"roleready/internal/database"
	"roleready/internal/database/postgres"
	"roleready/internal/domain/skill"

	"github.com/google/uuid"
)

var (
	ErrSkillNotFound      = errors.New("skill not found")
	ErrSkillAlreadyExists = errors.New("skill already exists")
)

type SkillRepository interface {
	ListSkills(ctx context.Context, includeInactive bool) ([]skill.Skill, error)
	GetSkillByID(ctx context.Context, id uuid.UUID) (skill.Skill, error)
	CreateSkill(ctx context.Context, s skill.Skill) (skill.Skill, error)
	DeactivateSkill(ctx context.Context, id uuid.UUID) error
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

const skillColumns = `id, name, normalized_name, domain, is_active, created_at`

func (r *PostgresSkillRepository) ListSkills(ctx context.Context, includeInactive bool) ([]skill.Skill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+skillColumns+` FROM skills
		 WHERE is_active OR $1
		 ORDER BY name ASC`,
		includeInactive,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) GetSkillByID(ctx context.Context, id uuid.UUID) (skill.Skill, error) {
	row := r.db.QueryRow(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = $1`, id)
	s, err := scanSkill(row)
	if err != nil {
		if database.IsNoRows(err) {
			return skill.Skill{}, ErrSkillNotFound
		}
		return skill.Skill{}, err
	}
	return s, nil
}

func (r *PostgresSkillRepository) CreateSkill(ctx context.Context, s skill.Skill) (skill.Skill, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO skills (id, name, normalized_name, domain, is_active)
		 VALUES ($1, $2, $3, $4, TRUE)
		 RETURNING `+skillColumns,
		s.ID, s.Name, s.NormalizedName, s.Domain,
	)
	created, err := scanSkill(row)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return skill.Skill{}, ErrSkillAlreadyExists
		}
		return skill.Skill{}, err
	}
	return created, nil
}

func (r *PostgresSkillRepository) DeactivateSkill(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `UPDATE skills SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSkillNotFound
	}
	return nil
}

func scanSkill(row database.Row) (skill.Skill, error) {
	var s skill.Skill
	err := row.Scan(&s.ID, &s.Name, &s.NormalizedName, &s.Domain, &s.IsActive, &s.CreatedAt)
	return s, err
}
