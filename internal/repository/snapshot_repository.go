package repository

import (
	"context"
	"encoding/json"
	"errors"

	"roleready/internal/database"
	"roleready/internal/database/postgres"
	"roleready/internal/domain/readiness"

	"github.com/google/uuid"
)

var ErrSnapshotNotFound = errors.New("readiness snapshot not found")

// SnapshotRepository is append-only: snapshots are never updated or deleted.
type SnapshotRepository interface {
	Create(ctx context.Context, s readiness.Snapshot) error
	Latest(ctx context.Context, userID, roleID uuid.UUID) (readiness.Snapshot, error)
	List(ctx context.Context, userID uuid.UUID, roleID *uuid.UUID, limit int) ([]readiness.Snapshot, error)
}

type PostgresSnapshotRepository struct {
	db database.DB
}

func NewPostgresSnapshotRepository(db database.DB) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

const snapshotColumns = `id, user_id, role_id, total_score, max_possible_score, percentage,
	required_met, required_total, skills_matched, skills_missing, has_all_required,
	breakdown, missing_required, trigger, created_at`

func (r *PostgresSnapshotRepository) Create(ctx context.Context, s readiness.Snapshot) error {
	breakdown, err := json.Marshal(s.Breakdown)
	if err != nil {
		return err
	}
	missing, err := json.Marshal(s.MissingRequired)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO readiness_snapshots (`+snapshotColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		s.ID, s.UserID, s.RoleID, s.TotalScore, s.MaxPossibleScore, s.Percentage,
		s.RequiredMet, s.RequiredTotal, s.SkillsMatched, s.SkillsMissing, s.HasAllRequired,
		breakdown, missing, string(s.Trigger), s.CreatedAt,
	)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return ErrRoleNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresSnapshotRepository) Latest(ctx context.Context, userID, roleID uuid.UUID) (readiness.Snapshot, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+snapshotColumns+` FROM readiness_snapshots
		 WHERE user_id = $1 AND role_id = $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID, roleID,
	)
	s, err := scanSnapshot(row)
	if err != nil {
		if database.IsNoRows(err) {
			return readiness.Snapshot{}, ErrSnapshotNotFound
		}
		return readiness.Snapshot{}, err
	}
	return s, nil
}

func (r *PostgresSnapshotRepository) List(ctx context.Context, userID uuid.UUID, roleID *uuid.UUID, limit int) ([]readiness.Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+snapshotColumns+` FROM readiness_snapshots
		 WHERE user_id = $1 AND ($2::uuid IS NULL OR role_id = $2)
		 ORDER BY created_at DESC
		 LIMIT $3`,
		userID, roleID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]readiness.Snapshot, 0)
	for rows.Next() {
		s, err := scanSnapshot(rows)
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

func scanSnapshot(row database.Row) (readiness.Snapshot, error) {
	var s readiness.Snapshot
	var breakdown, missing []byte
	var trigger string
	if err := row.Scan(&s.ID, &s.UserID, &s.RoleID, &s.TotalScore, &s.MaxPossibleScore, &s.Percentage,
		&s.RequiredMet, &s.RequiredTotal, &s.SkillsMatched, &s.SkillsMissing, &s.HasAllRequired,
		&breakdown, &missing, &trigger, &s.CreatedAt); err != nil {
		return readiness.Snapshot{}, err
	}
	s.Trigger = readiness.Trigger(trigger)

	s.Breakdown = []readiness.SkillBreakdown{}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &s.Breakdown); err != nil {
			return readiness.Snapshot{}, err
		}
	}
	s.MissingRequired = []readiness.MissingSkill{}
	if len(missing) > 0 {
		if err := json.Unmarshal(missing, &s.MissingRequired); err != nil {
			return readiness.Snapshot{}, err
		}
	}
	return s, nil
}
