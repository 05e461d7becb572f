package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"roleready/internal/domain/skill"
	"roleready/internal/repository"

	"github.com/google/uuid"
)

type AddSkillInput struct {
	Name   string
	Domain string
}

type SkillUsecase interface {
	ListSkills(ctx context.Context) ([]skill.Skill, error)
	AddSkill(ctx context.Context, in AddSkillInput) (skill.Skill, error)
	DeactivateSkill(ctx context.Context, id uuid.UUID) error
}

type Skill struct {
	repo   repository.SkillRepository
	logger *log.Logger
}

func NewSkillUsecase(repo repository.SkillRepository, logger *log.Logger) *Skill {
	if logger == nil {
		logger = log.Default()
	}
	return &Skill{repo: repo, logger: logger}
}

func (u *Skill) ListSkills(ctx context.Context) ([]skill.Skill, error) {
	items, err := u.repo.ListSkills(ctx, false)
	if err != nil {
		u.logger.Printf("[Skill] list failed err=%v", err)
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Skill) AddSkill(ctx context.Context, in AddSkillInput) (skill.Skill, error) {
	name := strings.Join(strings.Fields(in.Name), " ")
	if name == "" {
		return skill.Skill{}, ErrInvalidInput
	}

	created, err := u.repo.CreateSkill(ctx, skill.Skill{
		ID:             uuid.New(),
		Name:           name,
		NormalizedName: skill.NormalizeName(name),
		Domain:         strings.TrimSpace(in.Domain),
	})
	if err != nil {
		if errors.Is(err, repository.ErrSkillAlreadyExists) {
			return skill.Skill{}, ErrSkillAlreadyExists
		}
		u.logger.Printf("[Skill] create failed name=%q err=%v", name, err)
		return skill.Skill{}, ErrInternal
	}
	return created, nil
}

// DeactivateSkill hides a skill from the catalog. Existing claims and
// benchmarks keep referencing it.
func (u *Skill) DeactivateSkill(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.repo.DeactivateSkill(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return ErrSkillNotFound
		}
		u.logger.Printf("[Skill] deactivate failed skill_id=%s err=%v", id, err)
		return ErrInternal
	}
	return nil
}
