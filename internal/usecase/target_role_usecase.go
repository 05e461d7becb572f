package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"roleready/internal/repository"

	"github.com/google/uuid"
)

type TargetRoleUsecase interface {
	GetTargetRole(ctx context.Context, userID uuid.UUID) (repository.TargetRole, error)
	SetTargetRole(ctx context.Context, userID, roleID uuid.UUID) (repository.TargetRole, error)
	History(ctx context.Context, userID uuid.UUID) ([]repository.TargetRole, error)
}

type TargetRole struct {
	repo   repository.TargetRoleRepository
	roles  *roleLoader
	logger *log.Logger
}

func NewTargetRoleUsecase(repo repository.TargetRoleRepository, roles repository.RoleRepository, cache Cache, cacheTTL time.Duration, logger *log.Logger) *TargetRole {
	if logger == nil {
		logger = log.Default()
	}
	return &TargetRole{repo: repo, roles: newRoleLoader(roles, cache, cacheTTL, logger), logger: logger}
}

func (u *TargetRole) GetTargetRole(ctx context.Context, userID uuid.UUID) (repository.TargetRole, error) {
	t, err := u.repo.FindActive(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTargetRoleNotFound) {
			return repository.TargetRole{}, ErrTargetRoleNotFound
		}
		u.logger.Printf("[TargetRole] lookup failed user_id=%s err=%v", userID, err)
		return repository.TargetRole{}, ErrInternal
	}
	return t, nil
}

// SetTargetRole makes roleID the user's active target. Choosing the role that
// is already active leaves history untouched.
func (u *TargetRole) SetTargetRole(ctx context.Context, userID, roleID uuid.UUID) (repository.TargetRole, error) {
	if roleID == uuid.Nil {
		return repository.TargetRole{}, ErrInvalidInput
	}

	rl, err := u.roles.get(ctx, roleID)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return repository.TargetRole{}, ErrRoleNotFound
		}
		u.logger.Printf("[TargetRole] role lookup failed role_id=%s err=%v", roleID, err)
		return repository.TargetRole{}, ErrInternal
	}
	if !rl.IsActive {
		return repository.TargetRole{}, ErrRoleNotFound
	}

	current, err := u.repo.FindActive(ctx, userID)
	switch {
	case err == nil && current.RoleID == roleID:
		return current, nil
	case err != nil && !errors.Is(err, repository.ErrTargetRoleNotFound):
		u.logger.Printf("[TargetRole] lookup failed user_id=%s err=%v", userID, err)
		return repository.TargetRole{}, ErrInternal
	}

	t, err := u.repo.Switch(ctx, userID, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return repository.TargetRole{}, ErrRoleNotFound
		}
		u.logger.Printf("[TargetRole] switch failed user_id=%s role_id=%s err=%v", userID, roleID, err)
		return repository.TargetRole{}, ErrInternal
	}
	u.logger.Printf("[TargetRole] switched user_id=%s role_id=%s", userID, roleID)
	return t, nil
}

func (u *TargetRole) History(ctx context.Context, userID uuid.UUID) ([]repository.TargetRole, error) {
	items, err := u.repo.History(ctx, userID)
	if err != nil {
		u.logger.Printf("[TargetRole] history failed user_id=%s err=%v", userID, err)
		return nil, ErrInternal
	}
	return items, nil
}
