package usecase

import (
	"context"
	"errors"
	"log"

	"roleready/internal/domain/skill"
	"roleready/internal/repository"

	"github.com/google/uuid"
)

type ClaimSkillInput struct {
	SkillID uuid.UUID
	Source  skill.Source
	Level   int
}

type UserSkillUsecase interface {
	ListUserSkills(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error)
	ClaimSkill(ctx context.Context, userID uuid.UUID, in ClaimSkillInput) (skill.UserSkill, error)
	UpdateLevel(ctx context.Context, userID, userSkillID uuid.UUID, level int) (skill.UserSkill, error)
	RequestValidation(ctx context.Context, userID, userSkillID uuid.UUID) (skill.UserSkill, error)
}

type UserSkill struct {
	repo   repository.UserSkillRepository
	skills repository.SkillRepository
	logger *log.Logger
}

func NewUserSkillUsecase(repo repository.UserSkillRepository, skills repository.SkillRepository, logger *log.Logger) *UserSkill {
	if logger == nil {
		logger = log.Default()
	}
	return &UserSkill{repo: repo, skills: skills, logger: logger}
}

func (u *UserSkill) ListUserSkills(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error) {
	items, err := u.repo.FindByUserID(ctx, userID)
	if err != nil {
		u.logger.Printf("[UserSkill] list failed user_id=%s err=%v", userID, err)
		return nil, ErrInternal
	}
	return items, nil
}

// ClaimSkill adds a skill to the user's ledger, or updates the level and
// source of an existing claim. Users cannot claim the validated source
// themselves.
func (u *UserSkill) ClaimSkill(ctx context.Context, userID uuid.UUID, in ClaimSkillInput) (skill.UserSkill, error) {
	if in.SkillID == uuid.Nil {
		return skill.UserSkill{}, ErrInvalidInput
	}
	if in.Source == "" {
		in.Source = skill.SourceSelf
	}
	if in.Source != skill.SourceSelf && in.Source != skill.SourceResume {
		return skill.UserSkill{}, ErrInvalidInput
	}
	if !skill.ValidLevel(in.Level) {
		return skill.UserSkill{}, ErrInvalidLevel
	}

	s, err := u.skills.GetSkillByID(ctx, in.SkillID)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return skill.UserSkill{}, ErrSkillNotFound
		}
		u.logger.Printf("[UserSkill] skill lookup failed skill_id=%s err=%v", in.SkillID, err)
		return skill.UserSkill{}, ErrInternal
	}
	if !s.IsActive {
		return skill.UserSkill{}, ErrSkillNotFound
	}

	saved, err := u.repo.Upsert(ctx, skill.UserSkill{
		ID:      uuid.New(),
		UserID:  userID,
		SkillID: in.SkillID,
		Source:  in.Source,
		Level:   in.Level,
	})
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return skill.UserSkill{}, ErrSkillNotFound
		}
		u.logger.Printf("[UserSkill] upsert failed user_id=%s skill_id=%s err=%v", userID, in.SkillID, err)
		return skill.UserSkill{}, ErrInternal
	}
	return saved, nil
}

func (u *UserSkill) UpdateLevel(ctx context.Context, userID, userSkillID uuid.UUID, level int) (skill.UserSkill, error) {
	if userSkillID == uuid.Nil {
		return skill.UserSkill{}, ErrInvalidInput
	}
	if !skill.ValidLevel(level) {
		return skill.UserSkill{}, ErrInvalidLevel
	}

	updated, err := u.repo.UpdateLevel(ctx, userSkillID, userID, level)
	if err != nil {
		return skill.UserSkill{}, u.mapRepoError(err, userSkillID)
	}
	return updated, nil
}

// RequestValidation queues a claim for mentor review. Asking again while a
// request is pending is a no-op.
func (u *UserSkill) RequestValidation(ctx context.Context, userID, userSkillID uuid.UUID) (skill.UserSkill, error) {
	if userSkillID == uuid.Nil {
		return skill.UserSkill{}, ErrInvalidInput
	}

	current, err := u.repo.FindByID(ctx, userSkillID)
	if err != nil {
		return skill.UserSkill{}, u.mapRepoError(err, userSkillID)
	}
	if current.UserID != userID {
		return skill.UserSkill{}, ErrForbidden
	}
	if current.Validated() {
		return skill.UserSkill{}, ErrAlreadyValidated
	}
	if current.ValidationStatus == skill.ValidationPending {
		return current, nil
	}

	updated, err := u.repo.RequestValidation(ctx, userSkillID, userID)
	if err != nil {
		return skill.UserSkill{}, u.mapRepoError(err, userSkillID)
	}
	return updated, nil
}

func (u *UserSkill) mapRepoError(err error, userSkillID uuid.UUID) error {
	switch {
	case errors.Is(err, repository.ErrUserSkillNotFound):
		return ErrUserSkillNotFound
	case errors.Is(err, repository.ErrUserSkillForbidden):
		return ErrForbidden
	default:
		u.logger.Printf("[UserSkill] repository error user_skill_id=%s err=%v", userSkillID, err)
		return ErrInternal
	}
}
