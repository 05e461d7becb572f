package repository

import (
	"context"
	"errors"
	"time"

	"roleready/internal/database"
	"roleready/internal/database/postgres"
	"roleready/internal/domain/skill"

	"github.com/google/uuid"
)

var (
	ErrUserSkillNotFound   = errors.New("user skill not found")
	ErrUserSkillForbidden  = errors.New("forbidden")
	ErrUserSkillNotPending = errors.New("user skill has no pending validation request")
)

type ValidationUpdate struct {
	UserSkillID uuid.UUID
	Status      skill.ValidationStatus
	MentorID    uuid.UUID
	Note        string
	At          time.Time
}

type PendingValidation struct {
	UserSkill skill.UserSkill
	UserEmail string
}

type UserSkillRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error)
	FindByID(ctx context.Context, id uuid.UUID) (skill.UserSkill, error)
	// Upsert claims a skill for a user. Re-claiming an existing (user, skill)
	// pair updates source and level and keeps the row id.
	Upsert(ctx context.Context, us skill.UserSkill) (skill.UserSkill, error)
	UpdateLevel(ctx context.Context, id, userID uuid.UUID, level int) (skill.UserSkill, error)
	RequestValidation(ctx context.Context, id, userID uuid.UUID) (skill.UserSkill, error)
	SetValidation(ctx context.Context, in ValidationUpdate) (skill.UserSkill, error)
	ListPending(ctx context.Context, limit int) ([]PendingValidation, error)
}

type PostgresUserSkillRepository struct {
	db database.DB
}

func NewPostgresUserSkillRepository(db database.DB) *PostgresUserSkillRepository {
	return &PostgresUserSkillRepository{db: db}
}

const userSkillSelect = `SELECT us.id, us.user_id, us.skill_id, s.name, us.source, us.level,
	us.validation_status, us.validated_at, us.validated_by, us.validation_note, us.created_at, us.updated_at
	FROM user_skills us
	JOIN skills s ON s.id = us.skill_id`

func (r *PostgresUserSkillRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error) {
	rows, err := r.db.Query(ctx, userSkillSelect+` WHERE us.user_id = $1 ORDER BY s.name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.UserSkill, 0)
	for rows.Next() {
		us, err := scanUserSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, us)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserSkillRepository) FindByID(ctx context.Context, id uuid.UUID) (skill.UserSkill, error) {
	return r.findOne(ctx, id)
}

func (r *PostgresUserSkillRepository) Upsert(ctx context.Context, us skill.UserSkill) (skill.UserSkill, error) {
	if us.ID == uuid.Nil {
		us.ID = uuid.New()
	}

	var id uuid.UUID
	row := r.db.QueryRow(ctx,
		`INSERT INTO user_skills (id, user_id, skill_id, source, level, validation_status)
		 VALUES ($1, $2, $3, $4, $5, 'none')
		 ON CONFLICT (user_id, skill_id) DO UPDATE
		 SET source = CASE WHEN user_skills.source = 'validated' THEN user_skills.source ELSE EXCLUDED.source END,
		     level = EXCLUDED.level,
		     updated_at = now()
		 RETURNING id`,
		us.ID, us.UserID, us.SkillID, us.Source, us.Level,
	)
	if err := row.Scan(&id); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return skill.UserSkill{}, ErrSkillNotFound
		}
		return skill.UserSkill{}, err
	}
	return r.findOne(ctx, id)
}

func (r *PostgresUserSkillRepository) UpdateLevel(ctx context.Context, id, userID uuid.UUID, level int) (skill.UserSkill, error) {
	if err := r.checkOwner(ctx, id, userID); err != nil {
		return skill.UserSkill{}, err
	}
	if _, err := r.db.Exec(ctx,
		`UPDATE user_skills SET level = $1, updated_at = now() WHERE id = $2`,
		level, id,
	); err != nil {
		return skill.UserSkill{}, err
	}
	return r.findOne(ctx, id)
}

func (r *PostgresUserSkillRepository) RequestValidation(ctx context.Context, id, userID uuid.UUID) (skill.UserSkill, error) {
	if err := r.checkOwner(ctx, id, userID); err != nil {
		return skill.UserSkill{}, err
	}
	if _, err := r.db.Exec(ctx,
		`UPDATE user_skills SET validation_status = 'pending', updated_at = now() WHERE id = $1`,
		id,
	); err != nil {
		return skill.UserSkill{}, err
	}
	return r.findOne(ctx, id)
}

// SetValidation applies a mentor decision only while the request is still
// pending, so the first of two concurrent reviews wins.
func (r *PostgresUserSkillRepository) SetValidation(ctx context.Context, in ValidationUpdate) (skill.UserSkill, error) {
	n, err := r.db.Exec(ctx,
		`UPDATE user_skills
		 SET validation_status = $1, validated_by = $2, validated_at = $3, validation_note = $4, updated_at = now()
		 WHERE id = $5 AND validation_status = 'pending'`,
		in.Status, in.MentorID, in.At.UTC(), in.Note, in.UserSkillID,
	)
	if err != nil {
		return skill.UserSkill{}, err
	}
	if n == 0 {
		if _, err := r.findOne(ctx, in.UserSkillID); err != nil {
			return skill.UserSkill{}, err
		}
		return skill.UserSkill{}, ErrUserSkillNotPending
	}
	return r.findOne(ctx, in.UserSkillID)
}

func (r *PostgresUserSkillRepository) ListPending(ctx context.Context, limit int) ([]PendingValidation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT us.id, us.user_id, us.skill_id, s.name, us.source, us.level,
			us.validation_status, us.validated_at, us.validated_by, us.validation_note, us.created_at, us.updated_at,
			u.email
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 JOIN users u ON u.id = us.user_id
		 WHERE us.validation_status = 'pending'
		 ORDER BY us.updated_at ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PendingValidation, 0)
	for rows.Next() {
		var p PendingValidation
		us := &p.UserSkill
		if err := rows.Scan(&us.ID, &us.UserID, &us.SkillID, &us.SkillName, &us.Source, &us.Level,
			&us.ValidationStatus, &us.ValidatedAt, &us.ValidatedBy, &us.ValidationNote, &us.CreatedAt, &us.UpdatedAt,
			&p.UserEmail); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserSkillRepository) findOne(ctx context.Context, id uuid.UUID) (skill.UserSkill, error) {
	row := r.db.QueryRow(ctx, userSkillSelect+` WHERE us.id = $1`, id)
	us, err := scanUserSkill(row)
	if err != nil {
		if database.IsNoRows(err) {
			return skill.UserSkill{}, ErrUserSkillNotFound
		}
		return skill.UserSkill{}, err
	}
	return us, nil
}

func (r *PostgresUserSkillRepository) checkOwner(ctx context.Context, id, userID uuid.UUID) error {
	var owner uuid.UUID
	row := r.db.QueryRow(ctx, `SELECT user_id FROM user_skills WHERE id = $1`, id)
	if err := row.Scan(&owner); err != nil {
		if database.IsNoRows(err) {
			return ErrUserSkillNotFound
		}
		return err
	}
	if owner != userID {
		return ErrUserSkillForbidden
	}
	return nil
}

func scanUserSkill(row database.Row) (skill.UserSkill, error) {
	var us skill.UserSkill
	err := row.Scan(&us.ID, &us.UserID, &us.SkillID, &us.SkillName, &us.Source, &us.Level,
		&us.ValidationStatus, &us.ValidatedAt, &us.ValidatedBy, &us.ValidationNote, &us.CreatedAt, &us.UpdatedAt)
	return us, err
}
