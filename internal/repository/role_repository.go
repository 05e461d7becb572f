package repository

import (
	"context"
	"encoding/json"
	"errors"

	"roleready/internal/database"
	"roleready/internal/database/postgres"
	"roleready/internal/domain/role"

	"github.com/google/uuid"
)

var (
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleAlreadyExists = errors.New("role already exists")
)

// RoleRepository stores roles with their benchmark list embedded as JSONB so
// a role and its benchmarks are always read together.
type RoleRepository interface {
	ListRoles(ctx context.Context) ([]role.Role, error)
	GetRoleByID(ctx context.Context, id uuid.UUID) (role.Role, error)
	CreateRole(ctx context.Context, r role.Role) (role.Role, error)
	ReplaceBenchmarks(ctx context.Context, id uuid.UUID, benchmarks []role.Benchmark) (role.Role, error)
}

type PostgresRoleRepository struct {
	db database.DB
}

func NewPostgresRoleRepository(db database.DB) *PostgresRoleRepository {
	return &PostgresRoleRepository{db: db}
}

const roleColumns = `id, name, category, description, is_active, benchmarks, created_at, updated_at`

func (r *PostgresRoleRepository) ListRoles(ctx context.Context) ([]role.Role, error) {
	rows, err := r.db.Query(ctx, `SELECT `+roleColumns+` FROM roles WHERE is_active ORDER BY category ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]role.Role, 0)
	for rows.Next() {
		rl, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRoleRepository) GetRoleByID(ctx context.Context, id uuid.UUID) (role.Role, error) {
	row := r.db.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id)
	rl, err := scanRole(row)
	if err != nil {
		if database.IsNoRows(err) {
			return role.Role{}, ErrRoleNotFound
		}
		return role.Role{}, err
	}
	return rl, nil
}

func (r *PostgresRoleRepository) CreateRole(ctx context.Context, rl role.Role) (role.Role, error) {
	if rl.ID == uuid.Nil {
		rl.ID = uuid.New()
	}
	raw, err := marshalBenchmarks(rl.Benchmarks)
	if err != nil {
		return role.Role{}, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO roles (id, name, category, description, benchmarks, is_active)
		 VALUES ($1, $2, $3, $4, $5, TRUE)
		 RETURNING `+roleColumns,
		rl.ID, rl.Name, rl.Category, rl.Description, raw,
	)
	created, err := scanRole(row)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return role.Role{}, ErrRoleAlreadyExists
		}
		return role.Role{}, err
	}
	return created, nil
}

func (r *PostgresRoleRepository) ReplaceBenchmarks(ctx context.Context, id uuid.UUID, benchmarks []role.Benchmark) (role.Role, error) {
	raw, err := marshalBenchmarks(benchmarks)
	if err != nil {
		return role.Role{}, err
	}

	row := r.db.QueryRow(ctx,
		`UPDATE roles SET benchmarks = $1, updated_at = now()
		 WHERE id = $2
		 RETURNING `+roleColumns,
		raw, id,
	)
	updated, err := scanRole(row)
	if err != nil {
		if database.IsNoRows(err) {
			return role.Role{}, ErrRoleNotFound
		}
		return role.Role{}, err
	}
	return updated, nil
}

func marshalBenchmarks(bs []role.Benchmark) ([]byte, error) {
	if bs == nil {
		bs = []role.Benchmark{}
	}
	return json.Marshal(bs)
}

func scanRole(row database.Row) (role.Role, error) {
	var rl role.Role
	var raw []byte
	if err := row.Scan(&rl.ID, &rl.Name, &rl.Category, &rl.Description, &rl.IsActive, &raw, &rl.CreatedAt, &rl.UpdatedAt); err != nil {
		return role.Role{}, err
	}
	rl.Benchmarks = []role.Benchmark{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rl.Benchmarks); err != nil {
			return role.Role{}, err
		}
	}
	return rl, nil
}
