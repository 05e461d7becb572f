package repository

import (
	"context"
	"errors"
	"time"

	"roleready/internal/database"
	"roleready/internal/database/postgres"

	"github.com/google/uuid"
)

var ErrTargetRoleNotFound = errors.New("target role not found")

type TargetRole struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	RoleID        uuid.UUID
	RoleName      string
	IsActive      bool
	CreatedAt     time.Time
	DeactivatedAt *time.Time
}

type TargetRoleRepository interface {
	FindActive(ctx context.Context, userID uuid.UUID) (TargetRole, error)
	// Switch deactivates the user's current target and inserts a new active
	// one in a single transaction. History rows are never overwritten.
	Switch(ctx context.Context, userID, roleID uuid.UUID) (TargetRole, error)
	History(ctx context.Context, userID uuid.UUID) ([]TargetRole, error)
	ActiveUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

type PostgresTargetRoleRepository struct {
	db database.DB
}

func NewPostgresTargetRoleRepository(db database.DB) *PostgresTargetRoleRepository {
	return &PostgresTargetRoleRepository{db: db}
}

const targetRoleSelect = `SELECT t.id, t.user_id, t.role_id, r.name, t.is_active, t.created_at, t.deactivated_at
	FROM target_roles t
	JOIN roles r ON r.id = t.role_id`

func (r *PostgresTargetRoleRepository) FindActive(ctx context.Context, userID uuid.UUID) (TargetRole, error) {
	row := r.db.QueryRow(ctx, targetRoleSelect+` WHERE t.user_id = $1 AND t.is_active`, userID)
	t, err := scanTargetRole(row)
	if err != nil {
		if database.IsNoRows(err) {
			return TargetRole{}, ErrTargetRoleNotFound
		}
		return TargetRole{}, err
	}
	return t, nil
}

func (r *PostgresTargetRoleRepository) Switch(ctx context.Context, userID, roleID uuid.UUID) (TargetRole, error) {
	id := uuid.New()
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE target_roles SET is_active = FALSE, deactivated_at = now()
			 WHERE user_id = $1 AND is_active`,
			userID,
		); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO target_roles (id, user_id, role_id, is_active) VALUES ($1, $2, $3, TRUE)`,
			id, userID, roleID,
		)
		return err
	})
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return TargetRole{}, ErrRoleNotFound
		}
		return TargetRole{}, err
	}
	return r.FindActive(ctx, userID)
}

func (r *PostgresTargetRoleRepository) History(ctx context.Context, userID uuid.UUID) ([]TargetRole, error) {
	rows, err := r.db.Query(ctx, targetRoleSelect+` WHERE t.user_id = $1 ORDER BY t.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TargetRole, 0)
	for rows.Next() {
		t, err := scanTargetRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresTargetRoleRepository) ActiveUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id FROM target_roles WHERE is_active ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanTargetRole(row database.Row) (TargetRole, error) {
	var t TargetRole
	err := row.Scan(&t.ID, &t.UserID, &t.RoleID, &t.RoleName, &t.IsActive, &t.CreatedAt, &t.DeactivatedAt)
	return t, err
}
