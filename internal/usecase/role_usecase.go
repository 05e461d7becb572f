package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"roleready/internal/domain/role"
	"roleready/internal/repository"

	"github.com/google/uuid"
)

type BenchmarkInput struct {
	SkillID       uuid.UUID
	Importance    role.Importance
	Weight        int
	RequiredLevel int
}

type CreateRoleInput struct {
	Name        string
	Category    string
	Description string
	Benchmarks  []BenchmarkInput
}

type RoleUsecase interface {
	ListRoles(ctx context.Context) ([]role.Role, error)
	GetRole(ctx context.Context, id uuid.UUID) (role.Role, error)
	CreateRole(ctx context.Context, in CreateRoleInput) (role.Role, error)
	ReplaceBenchmarks(ctx context.Context, id uuid.UUID, in []BenchmarkInput) (role.Role, error)
}

type Role struct {
	repo   repository.RoleRepository
	skills repository.SkillRepository
	loader *roleLoader
	logger *log.Logger
}

func NewRoleUsecase(repo repository.RoleRepository, skills repository.SkillRepository, cache Cache, cacheTTL time.Duration, logger *log.Logger) *Role {
	if logger == nil {
		logger = log.Default()
	}
	return &Role{repo: repo, skills: skills, loader: newRoleLoader(repo, cache, cacheTTL, logger), logger: logger}
}

func (u *Role) ListRoles(ctx context.Context) ([]role.Role, error) {
	items, err := u.loader.list(ctx)
	if err != nil {
		u.logger.Printf("[Role] list failed err=%v", err)
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Role) GetRole(ctx context.Context, id uuid.UUID) (role.Role, error) {
	rl, err := u.loader.get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return role.Role{}, ErrRoleNotFound
		}
		u.logger.Printf("[Role] get failed role_id=%s err=%v", id, err)
		return role.Role{}, ErrInternal
	}
	return rl, nil
}

func (u *Role) CreateRole(ctx context.Context, in CreateRoleInput) (role.Role, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return role.Role{}, ErrInvalidInput
	}

	benchmarks, err := u.resolveBenchmarks(ctx, in.Benchmarks)
	if err != nil {
		return role.Role{}, err
	}

	created, err := u.repo.CreateRole(ctx, role.Role{
		ID:          uuid.New(),
		Name:        name,
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Benchmarks:  benchmarks,
	})
	if err != nil {
		if errors.Is(err, repository.ErrRoleAlreadyExists) {
			return role.Role{}, ErrRoleAlreadyExists
		}
		u.logger.Printf("[Role] create failed name=%q err=%v", name, err)
		return role.Role{}, ErrInternal
	}
	u.loader.invalidate(ctx, created.ID)
	return created, nil
}

// ReplaceBenchmarks swaps the whole benchmark list of a role. Existing
// snapshots keep the breakdown they were computed with.
func (u *Role) ReplaceBenchmarks(ctx context.Context, id uuid.UUID, in []BenchmarkInput) (role.Role, error) {
	if id == uuid.Nil {
		return role.Role{}, ErrInvalidInput
	}

	benchmarks, err := u.resolveBenchmarks(ctx, in)
	if err != nil {
		return role.Role{}, err
	}

	updated, err := u.repo.ReplaceBenchmarks(ctx, id, benchmarks)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return role.Role{}, ErrRoleNotFound
		}
		u.logger.Printf("[Role] replace benchmarks failed role_id=%s err=%v", id, err)
		return role.Role{}, ErrInternal
	}
	u.loader.invalidate(ctx, id)
	u.logger.Printf("[Role] benchmarks replaced role_id=%s count=%d", id, len(benchmarks))
	return updated, nil
}

// resolveBenchmarks validates the list and fills in skill names from the
// catalog.
func (u *Role) resolveBenchmarks(ctx context.Context, in []BenchmarkInput) ([]role.Benchmark, error) {
	out := make([]role.Benchmark, 0, len(in))
	for _, b := range in {
		out = append(out, role.Benchmark{
			SkillID:       b.SkillID,
			Importance:    b.Importance,
			Weight:        b.Weight,
			RequiredLevel: b.RequiredLevel,
		})
	}
	if err := role.ValidateBenchmarks(out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBenchmarks, err)
	}

	for i := range out {
		s, err := u.skills.GetSkillByID(ctx, out[i].SkillID)
		if err != nil {
			if errors.Is(err, repository.ErrSkillNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrSkillNotFound, out[i].SkillID)
			}
			u.logger.Printf("[Role] skill lookup failed skill_id=%s err=%v", out[i].SkillID, err)
			return nil, ErrInternal
		}
		out[i].SkillName = s.Name
	}
	return out, nil
}
