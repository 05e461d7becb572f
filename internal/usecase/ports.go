package usecase

import (
	"roleready/internal/domain/skill"

	"github.com/google/uuid"
)

// ValidationNotifier pushes a mentor decision to the skill's owner.
type ValidationNotifier interface {
	NotifyValidationUpdated(userID uuid.UUID, us skill.UserSkill)
}

type noopNotifier struct{}

func (noopNotifier) NotifyValidationUpdated(uuid.UUID, skill.UserSkill) {}
