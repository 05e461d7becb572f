package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"roleready/internal/domain/skill"
	"roleready/internal/repository"

	"github.com/google/uuid"
)

type ReviewAction string

const (
	ReviewValidate ReviewAction = "validate"
	ReviewReject   ReviewAction = "reject"
)

type ReviewInput struct {
	Action ReviewAction
	Note   string
}

type ValidationUsecase interface {
	ListPending(ctx context.Context, limit int) ([]repository.PendingValidation, error)
	Review(ctx context.Context, mentorID, userSkillID uuid.UUID, in ReviewInput) (skill.UserSkill, error)
}

type Validation struct {
	repo     repository.UserSkillRepository
	notifier ValidationNotifier
	logger   *log.Logger

	now func() time.Time
}

func NewValidationUsecase(repo repository.UserSkillRepository, notifier ValidationNotifier, logger *log.Logger) *Validation {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Validation{repo: repo, notifier: notifier, logger: logger, now: time.Now}
}

func (u *Validation) ListPending(ctx context.Context, limit int) ([]repository.PendingValidation, error) {
	if limit < 0 {
		return nil, ErrInvalidInput
	}
	items, err := u.repo.ListPending(ctx, limit)
	if err != nil {
		u.logger.Printf("[Validation] list pending failed err=%v", err)
		return nil, ErrInternal
	}
	return items, nil
}

// Review records a mentor decision on a pending request and notifies the
// owner. Mentors cannot review their own skills.
func (u *Validation) Review(ctx context.Context, mentorID, userSkillID uuid.UUID, in ReviewInput) (skill.UserSkill, error) {
	var status skill.ValidationStatus
	switch in.Action {
	case ReviewValidate:
		status = skill.ValidationValidated
	case ReviewReject:
		status = skill.ValidationRejected
	default:
		return skill.UserSkill{}, ErrInvalidInput
	}

	current, err := u.repo.FindByID(ctx, userSkillID)
	if err != nil {
		if errors.Is(err, repository.ErrUserSkillNotFound) {
			return skill.UserSkill{}, ErrUserSkillNotFound
		}
		u.logger.Printf("[Validation] lookup failed user_skill_id=%s err=%v", userSkillID, err)
		return skill.UserSkill{}, ErrInternal
	}
	if current.UserID == mentorID {
		return skill.UserSkill{}, ErrForbidden
	}
	if current.ValidationStatus != skill.ValidationPending {
		return skill.UserSkill{}, ErrNotPending
	}

	updated, err := u.repo.SetValidation(ctx, repository.ValidationUpdate{
		UserSkillID: userSkillID,
		Status:      status,
		MentorID:    mentorID,
		Note:        strings.TrimSpace(in.Note),
		At:          u.now().UTC(),
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserSkillNotFound):
			return skill.UserSkill{}, ErrUserSkillNotFound
		case errors.Is(err, repository.ErrUserSkillNotPending):
			return skill.UserSkill{}, ErrNotPending
		}
		u.logger.Printf("[Validation] update failed user_skill_id=%s err=%v", userSkillID, err)
		return skill.UserSkill{}, ErrInternal
	}

	u.logger.Printf("[Validation] reviewed user_skill_id=%s mentor_id=%s status=%s", userSkillID, mentorID, status)
	u.notifier.NotifyValidationUpdated(updated.UserID, updated)
	return updated, nil
}
