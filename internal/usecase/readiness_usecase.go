package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"roleready/internal/domain/readiness"
	"roleready/internal/domain/role"
	"roleready/internal/domain/skill"
	"roleready/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type CalculateInput struct {
	Force        bool
	BypassReason string
}

// CalculationOutcome is what an explicit calculation returns. When
// Recalculated is false the snapshot is the previous one and nothing was
// written.
type CalculationOutcome struct {
	Role         role.Role
	Snapshot     readiness.Snapshot
	Recalculated bool
	Message      string
	Added        int
	Removed      int
}

type CooldownState struct {
	Active           bool
	RemainingSeconds int
	Message          string
}

type ReadinessContext struct {
	HasTargetRole    bool
	Role             *role.Role
	BenchmarkCount   int
	RequiredCount    int
	SkillCount       int
	LastCalculatedAt *time.Time
	LastPercentage   *int
	Cooldown         CooldownState
	Validation       readiness.ValidationUpdates
}

type ReadinessUsecase interface {
	Context(ctx context.Context, userID uuid.UUID) (ReadinessContext, error)
	Calculate(ctx context.Context, userID uuid.UUID, in CalculateInput) (CalculationOutcome, error)
	RecalculateFromValidation(ctx context.Context, userID uuid.UUID) (CalculationOutcome, error)
	Latest(ctx context.Context, userID uuid.UUID) (role.Role, readiness.Snapshot, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]readiness.Snapshot, error)
	AdminRecalculate(ctx context.Context, userID uuid.UUID) (CalculationOutcome, error)
}

type ReadinessDeps struct {
	TargetRoles repository.TargetRoleRepository
	Roles       repository.RoleRepository
	UserSkills  repository.UserSkillRepository
	Snapshots   repository.SnapshotRepository

	Cache  Cache
	Locker Locker
	Logger *log.Logger

	Cooldown     time.Duration
	LockTTL      time.Duration
	RoleCacheTTL time.Duration
	HistoryLimit int
}

type Readiness struct {
	targets    repository.TargetRoleRepository
	roles      *roleLoader
	userSkills repository.UserSkillRepository
	snapshots  repository.SnapshotRepository
	locker     Locker
	logger     *log.Logger

	cooldown     time.Duration
	lockTTL      time.Duration
	historyLimit int

	now func() time.Time
}

func NewReadinessUsecase(d ReadinessDeps) *Readiness {
	logger := d.Logger
	if logger == nil {
		logger = log.Default()
	}
	locker := d.Locker
	if locker == nil {
		locker = noopLocker{}
	}
	cooldown := d.Cooldown
	if cooldown <= 0 {
		cooldown = readiness.DefaultCooldown
	}
	lockTTL := d.LockTTL
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	historyLimit := d.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}

	return &Readiness{
		targets:      d.TargetRoles,
		roles:        newRoleLoader(d.Roles, d.Cache, d.RoleCacheTTL, logger),
		userSkills:   d.UserSkills,
		snapshots:    d.Snapshots,
		locker:       locker,
		logger:       logger,
		cooldown:     cooldown,
		lockTTL:      lockTTL,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// inputs is everything a gate check or calculation reads.
type inputs struct {
	target repository.TargetRole
	role   role.Role
	skills []skill.UserSkill
	last   *readiness.Snapshot
}

func (u *Readiness) Context(ctx context.Context, userID uuid.UUID) (ReadinessContext, error) {
	target, err := u.targets.FindActive(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTargetRoleNotFound) {
			return ReadinessContext{HasTargetRole: false, Validation: readiness.DetectValidationUpdates(nil, nil)}, nil
		}
		u.logger.Printf("[Readiness] context target lookup failed user_id=%s err=%v", userID, err)
		return ReadinessContext{}, ErrInternal
	}

	in, err := u.loadInputs(ctx, userID, target)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return ReadinessContext{}, newEdgeCase(CodeRoleNotFound, "Your target role no longer exists. Please choose another one.", "/me/target-role")
		}
		u.logger.Printf("[Readiness] context load failed user_id=%s err=%v", userID, err)
		return ReadinessContext{}, ErrInternal
	}

	rl := in.role
	out := ReadinessContext{
		HasTargetRole:  true,
		Role:           &rl,
		BenchmarkCount: len(rl.Benchmarks),
		RequiredCount:  rl.RequiredCount(),
		SkillCount:     len(readiness.Eligible(in.skills)),
		Validation:     readiness.DetectValidationUpdates(in.last, in.skills),
	}

	if in.last != nil {
		at := in.last.CreatedAt
		pct := in.last.Percentage
		out.LastCalculatedAt = &at
		out.LastPercentage = &pct

		cd := readiness.CheckCooldown(in.last, u.now(), u.cooldown, readiness.Request{})
		if !cd.Allowed {
			out.Cooldown = CooldownState{
				Active:           true,
				RemainingSeconds: (&CooldownError{Remaining: cd.Remaining}).RemainingSeconds(),
				Message:          cd.Message,
			}
		}
	}

	return out, nil
}

func (u *Readiness) Calculate(ctx context.Context, userID uuid.UUID, in CalculateInput) (CalculationOutcome, error) {
	req := readiness.Request{Force: in.Force, BypassReason: in.BypassReason}

	data, err := u.prepare(ctx, userID)
	if err != nil {
		return CalculationOutcome{}, err
	}
	if err := checkBenchmarks(data.role); err != nil {
		return CalculationOutcome{}, err
	}
	if err := checkSkills(data.skills); err != nil {
		return CalculationOutcome{}, err
	}

	cd := readiness.CheckCooldown(data.last, u.now(), u.cooldown, req)
	if !cd.Allowed {
		return CalculationOutcome{}, &CooldownError{Remaining: cd.Remaining, Message: cd.Message}
	}

	forced := req.Force || req.BypassReason == readiness.BypassValidationUpdate
	change := readiness.CheckSkillChange(data.last, readiness.CurrentMetSkillIDs(data.skills, data.role.Benchmarks))
	if !change.Changed && !forced {
		return CalculationOutcome{
			Role:         data.role,
			Snapshot:     *data.last,
			Recalculated: false,
			Message:      change.Message,
		}, nil
	}

	out, err := u.persist(ctx, userID, data, readiness.TriggerFor(req))
	if err != nil {
		return CalculationOutcome{}, err
	}
	out.Added, out.Removed = change.Added, change.Removed
	out.Message = change.Message
	if forced && !change.Changed {
		out.Message = "Readiness recalculated."
	}
	return out, nil
}

// RecalculateFromValidation refreshes the score after mentor decisions. It
// needs at least one decision newer than the last snapshot and skips both the
// cooldown and the skill change check.
func (u *Readiness) RecalculateFromValidation(ctx context.Context, userID uuid.UUID) (CalculationOutcome, error) {
	data, err := u.prepare(ctx, userID)
	if err != nil {
		return CalculationOutcome{}, err
	}
	if err := checkBenchmarks(data.role); err != nil {
		return CalculationOutcome{}, err
	}

	updates := readiness.DetectValidationUpdates(data.last, data.skills)
	if !updates.HasUpdates() {
		return CalculationOutcome{}, newEdgeCase(CodeNoValidationUpdates, "No skill validations have changed since your last calculation.", "/me/readiness")
	}

	out, err := u.persist(ctx, userID, data, readiness.TriggerValidationReview)
	if err != nil {
		return CalculationOutcome{}, err
	}
	out.Message = updates.Message
	return out, nil
}

func (u *Readiness) Latest(ctx context.Context, userID uuid.UUID) (role.Role, readiness.Snapshot, error) {
	target, err := u.findTarget(ctx, userID)
	if err != nil {
		return role.Role{}, readiness.Snapshot{}, err
	}
	rl, err := u.roles.get(ctx, target.RoleID)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return role.Role{}, readiness.Snapshot{}, roleGoneError()
		}
		u.logger.Printf("[Readiness] role lookup failed role_id=%s err=%v", target.RoleID, err)
		return role.Role{}, readiness.Snapshot{}, ErrInternal
	}

	snap, err := u.snapshots.Latest(ctx, userID, target.RoleID)
	if err != nil {
		if errors.Is(err, repository.ErrSnapshotNotFound) {
			return rl, readiness.Snapshot{}, ErrSnapshotNotFound
		}
		u.logger.Printf("[Readiness] latest snapshot failed user_id=%s err=%v", userID, err)
		return role.Role{}, readiness.Snapshot{}, ErrInternal
	}
	return rl, snap, nil
}

// History lists the user's snapshots across all roles, newest first.
func (u *Readiness) History(ctx context.Context, userID uuid.UUID, limit int) ([]readiness.Snapshot, error) {
	if limit < 0 {
		return nil, ErrInvalidInput
	}
	if limit == 0 {
		limit = u.historyLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	items, err := u.snapshots.List(ctx, userID, nil, limit)
	if err != nil {
		u.logger.Printf("[Readiness] history failed user_id=%s err=%v", userID, err)
		return nil, ErrInternal
	}
	return items, nil
}

// AdminRecalculate appends a snapshot for the user's active target, ignoring
// the cooldown and the change check. Roles without benchmarks and users
// without eligible skills are still refused.
func (u *Readiness) AdminRecalculate(ctx context.Context, userID uuid.UUID) (CalculationOutcome, error) {
	data, err := u.prepare(ctx, userID)
	if err != nil {
		return CalculationOutcome{}, err
	}
	if err := checkBenchmarks(data.role); err != nil {
		return CalculationOutcome{}, err
	}
	if err := checkSkills(data.skills); err != nil {
		return CalculationOutcome{}, err
	}

	out, err := u.persist(ctx, userID, data, readiness.TriggerAdmin)
	if err != nil {
		return CalculationOutcome{}, err
	}
	out.Message = "Readiness recalculated by an administrator."
	return out, nil
}

func (u *Readiness) prepare(ctx context.Context, userID uuid.UUID) (inputs, error) {
	target, err := u.findTarget(ctx, userID)
	if err != nil {
		return inputs{}, err
	}
	data, err := u.loadInputs(ctx, userID, target)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return inputs{}, roleGoneError()
		}
		u.logger.Printf("[Readiness] load failed user_id=%s role_id=%s err=%v", userID, target.RoleID, err)
		return inputs{}, ErrInternal
	}
	return data, nil
}

func (u *Readiness) findTarget(ctx context.Context, userID uuid.UUID) (repository.TargetRole, error) {
	target, err := u.targets.FindActive(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTargetRoleNotFound) {
			return repository.TargetRole{}, newEdgeCase(CodeNoTargetRole, "Choose a target role before calculating your readiness.", "/me/target-role")
		}
		u.logger.Printf("[Readiness] target lookup failed user_id=%s err=%v", userID, err)
		return repository.TargetRole{}, ErrInternal
	}
	return target, nil
}

// loadInputs fetches the role, the skill ledger and the last snapshot
// concurrently. A missing snapshot is not an error.
func (u *Readiness) loadInputs(ctx context.Context, userID uuid.UUID, target repository.TargetRole) (inputs, error) {
	data := inputs{target: target}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rl, err := u.roles.get(gctx, target.RoleID)
		if err != nil {
			return err
		}
		data.role = rl
		return nil
	})
	g.Go(func() error {
		items, err := u.userSkills.FindByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("load user skills: %w", err)
		}
		data.skills = items
		return nil
	})
	g.Go(func() error {
		snap, err := u.snapshots.Latest(gctx, userID, target.RoleID)
		if err != nil {
			if errors.Is(err, repository.ErrSnapshotNotFound) {
				return nil
			}
			return fmt.Errorf("load last snapshot: %w", err)
		}
		data.last = &snap
		return nil
	})
	if err := g.Wait(); err != nil {
		return inputs{}, err
	}
	return data, nil
}

// persist calculates and appends one snapshot while holding the per
// (user, role) lock.
func (u *Readiness) persist(ctx context.Context, userID uuid.UUID, data inputs, trigger readiness.Trigger) (CalculationOutcome, error) {
	key := ReadinessLockKey(userID, data.role.ID)
	token := uuid.NewString()

	acquired, err := u.locker.SetIfNotExists(ctx, key, token, u.lockTTL)
	if err != nil {
		u.logger.Printf("[Readiness] lock unavailable, continuing unlocked key=%s err=%v", key, err)
	}
	if !acquired {
		return CalculationOutcome{}, ErrCalculationInProgress
	}
	defer func() {
		if err := u.locker.ReleaseIfOwner(context.WithoutCancel(ctx), key, token); err != nil {
			u.logger.Printf("[Readiness] lock release failed key=%s err=%v", key, err)
		}
	}()

	res, err := readiness.Calculate(data.skills, data.role.Benchmarks)
	if err != nil {
		if errors.Is(err, readiness.ErrNoBenchmarks) {
			return CalculationOutcome{}, noBenchmarksError()
		}
		u.logger.Printf("[Readiness] calculate failed user_id=%s role_id=%s err=%v", userID, data.role.ID, err)
		return CalculationOutcome{}, ErrInternal
	}

	snap := readiness.NewSnapshot(userID, data.role.ID, res, trigger, u.now())
	if err := u.snapshots.Create(ctx, snap); err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return CalculationOutcome{}, roleGoneError()
		}
		u.logger.Printf("[Readiness] snapshot write failed user_id=%s role_id=%s err=%v", userID, data.role.ID, err)
		return CalculationOutcome{}, ErrInternal
	}

	u.logger.Printf("[Readiness] snapshot created user_id=%s role_id=%s trigger=%s percentage=%d",
		userID, data.role.ID, trigger, snap.Percentage)

	return CalculationOutcome{Role: data.role, Snapshot: snap, Recalculated: true}, nil
}

func checkBenchmarks(rl role.Role) error {
	if len(rl.Benchmarks) == 0 {
		return noBenchmarksError()
	}
	return nil
}

func checkSkills(userSkills []skill.UserSkill) error {
	if len(readiness.Eligible(userSkills)) == 0 {
		return newEdgeCase(CodeNoSkills, "Add at least one skill before calculating your readiness.", "/me/skills")
	}
	return nil
}

func noBenchmarksError() *EdgeCaseError {
	return newEdgeCase(CodeNoBenchmarks, "This role has no benchmark skills configured yet.", "/roles")
}

func roleGoneError() *EdgeCaseError {
	return newEdgeCase(CodeRoleNotFound, "Your target role no longer exists. Please choose another one.", "/me/target-role")
}
