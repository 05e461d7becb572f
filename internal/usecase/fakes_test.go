package usecase

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sort"
	"sync"
	"time"

	"roleready/internal/domain/readiness"
	"roleready/internal/domain/role"
	"roleready/internal/domain/skill"
	"roleready/internal/repository"

	"github.com/google/uuid"
)

var discardLogger = log.New(io.Discard, "", 0)

type fakeTargetRoles struct {
	active  map[uuid.UUID]repository.TargetRole
	history map[uuid.UUID][]repository.TargetRole
	err     error
}

func newFakeTargetRoles() *fakeTargetRoles {
	return &fakeTargetRoles{
		active:  map[uuid.UUID]repository.TargetRole{},
		history: map[uuid.UUID][]repository.TargetRole{},
	}
}

func (f *fakeTargetRoles) FindActive(_ context.Context, userID uuid.UUID) (repository.TargetRole, error) {
	if f.err != nil {
		return repository.TargetRole{}, f.err
	}
	t, ok := f.active[userID]
	if !ok {
		return repository.TargetRole{}, repository.ErrTargetRoleNotFound
	}
	return t, nil
}

func (f *fakeTargetRoles) Switch(_ context.Context, userID, roleID uuid.UUID) (repository.TargetRole, error) {
	if prev, ok := f.active[userID]; ok {
		prev.IsActive = false
		f.history[userID] = append(f.history[userID], prev)
	}
	t := repository.TargetRole{ID: uuid.New(), UserID: userID, RoleID: roleID, IsActive: true, CreatedAt: time.Now()}
	f.active[userID] = t
	return t, nil
}

func (f *fakeTargetRoles) History(_ context.Context, userID uuid.UUID) ([]repository.TargetRole, error) {
	out := append([]repository.TargetRole{}, f.history[userID]...)
	if t, ok := f.active[userID]; ok {
		out = append([]repository.TargetRole{t}, out...)
	}
	return out, nil
}

func (f *fakeTargetRoles) ActiveUserIDs(context.Context) ([]uuid.UUID, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]uuid.UUID, 0, len(f.active))
	for id := range f.active {
		out = append(out, id)
	}
	return out, nil
}

type fakeRoles struct {
	mu    sync.Mutex
	roles map[uuid.UUID]role.Role
	gets  int
}

func newFakeRoles(rs ...role.Role) *fakeRoles {
	f := &fakeRoles{roles: map[uuid.UUID]role.Role{}}
	for _, r := range rs {
		f.roles[r.ID] = r
	}
	return f
}

func (f *fakeRoles) ListRoles(context.Context) ([]role.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]role.Role, 0, len(f.roles))
	for _, r := range f.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRoles) GetRoleByID(_ context.Context, id uuid.UUID) (role.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	r, ok := f.roles[id]
	if !ok {
		return role.Role{}, repository.ErrRoleNotFound
	}
	return r, nil
}

func (f *fakeRoles) CreateRole(_ context.Context, r role.Role) (role.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.roles {
		if existing.Name == r.Name {
			return role.Role{}, repository.ErrRoleAlreadyExists
		}
	}
	r.IsActive = true
	f.roles[r.ID] = r
	return r, nil
}

func (f *fakeRoles) ReplaceBenchmarks(_ context.Context, id uuid.UUID, bs []role.Benchmark) (role.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.roles[id]
	if !ok {
		return role.Role{}, repository.ErrRoleNotFound
	}
	r.Benchmarks = bs
	f.roles[id] = r
	return r, nil
}

type fakeSkills struct {
	skills map[uuid.UUID]skill.Skill
}

func newFakeSkills(ss ...skill.Skill) *fakeSkills {
	f := &fakeSkills{skills: map[uuid.UUID]skill.Skill{}}
	for _, s := range ss {
		f.skills[s.ID] = s
	}
	return f
}

func (f *fakeSkills) ListSkills(_ context.Context, includeInactive bool) ([]skill.Skill, error) {
	out := make([]skill.Skill, 0)
	for _, s := range f.skills {
		if s.IsActive || includeInactive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeSkills) GetSkillByID(_ context.Context, id uuid.UUID) (skill.Skill, error) {
	s, ok := f.skills[id]
	if !ok {
		return skill.Skill{}, repository.ErrSkillNotFound
	}
	return s, nil
}

func (f *fakeSkills) CreateSkill(_ context.Context, s skill.Skill) (skill.Skill, error) {
	for _, existing := range f.skills {
		if existing.NormalizedName == s.NormalizedName {
			return skill.Skill{}, repository.ErrSkillAlreadyExists
		}
	}
	s.IsActive = true
	f.skills[s.ID] = s
	return s, nil
}

func (f *fakeSkills) DeactivateSkill(_ context.Context, id uuid.UUID) error {
	s, ok := f.skills[id]
	if !ok {
		return repository.ErrSkillNotFound
	}
	s.IsActive = false
	f.skills[id] = s
	return nil
}

type fakeUserSkills struct {
	mu   sync.Mutex
	rows map[uuid.UUID]skill.UserSkill
	err  error
}

func newFakeUserSkills(rows ...skill.UserSkill) *fakeUserSkills {
	f := &fakeUserSkills{rows: map[uuid.UUID]skill.UserSkill{}}
	for _, r := range rows {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		f.rows[r.ID] = r
	}
	return f
}

func (f *fakeUserSkills) FindByUserID(_ context.Context, userID uuid.UUID) ([]skill.UserSkill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]skill.UserSkill, 0)
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SkillName < out[j].SkillName })
	return out, nil
}

func (f *fakeUserSkills) FindByID(_ context.Context, id uuid.UUID) (skill.UserSkill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return skill.UserSkill{}, repository.ErrUserSkillNotFound
	}
	return r, nil
}

func (f *fakeUserSkills) Upsert(_ context.Context, us skill.UserSkill) (skill.UserSkill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, r := range f.rows {
		if r.UserID == us.UserID && r.SkillID == us.SkillID {
			if r.Source != skill.SourceValidated {
				r.Source = us.Source
			}
			r.Level = us.Level
			f.rows[id] = r
			return r, nil
		}
	}
	us.ValidationStatus = skill.ValidationNone
	f.rows[us.ID] = us
	return us, nil
}

func (f *fakeUserSkills) UpdateLevel(_ context.Context, id, userID uuid.UUID, level int) (skill.UserSkill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return skill.UserSkill{}, repository.ErrUserSkillNotFound
	}
	if r.UserID != userID {
		return skill.UserSkill{}, repository.ErrUserSkillForbidden
	}
	r.Level = level
	f.rows[id] = r
	return r, nil
}

func (f *fakeUserSkills) RequestValidation(_ context.Context, id, userID uuid.UUID) (skill.UserSkill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return skill.UserSkill{}, repository.ErrUserSkillNotFound
	}
	if r.UserID != userID {
		return skill.UserSkill{}, repository.ErrUserSkillForbidden
	}
	r.ValidationStatus = skill.ValidationPending
	f.rows[id] = r
	return r, nil
}

func (f *fakeUserSkills) SetValidation(_ context.Context, in repository.ValidationUpdate) (skill.UserSkill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[in.UserSkillID]
	if !ok {
		return skill.UserSkill{}, repository.ErrUserSkillNotFound
	}
	if r.ValidationStatus != skill.ValidationPending {
		return skill.UserSkill{}, repository.ErrUserSkillNotPending
	}
	at := in.At
	mentor := in.MentorID
	r.ValidationStatus = in.Status
	r.ValidatedAt = &at
	r.ValidatedBy = &mentor
	r.ValidationNote = in.Note
	f.rows[in.UserSkillID] = r
	return r, nil
}

func (f *fakeUserSkills) ListPending(_ context.Context, limit int) ([]repository.PendingValidation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.PendingValidation, 0)
	for _, r := range f.rows {
		if r.ValidationStatus == skill.ValidationPending {
			out = append(out, repository.PendingValidation{UserSkill: r})
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeSnapshots struct {
	mu    sync.Mutex
	items []readiness.Snapshot
}

func (f *fakeSnapshots) Create(_ context.Context, s readiness.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, s)
	return nil
}

func (f *fakeSnapshots) Latest(_ context.Context, userID, roleID uuid.UUID) (readiness.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *readiness.Snapshot
	for i := range f.items {
		s := f.items[i]
		if s.UserID != userID || s.RoleID != roleID {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = &f.items[i]
		}
	}
	if latest == nil {
		return readiness.Snapshot{}, repository.ErrSnapshotNotFound
	}
	return *latest, nil
}

func (f *fakeSnapshots) List(_ context.Context, userID uuid.UUID, roleID *uuid.UUID, limit int) ([]readiness.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]readiness.Snapshot, 0)
	for _, s := range f.items {
		if s.UserID != userID {
			continue
		}
		if roleID != nil && s.RoleID != *roleID {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSnapshots) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]string
	released []string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]string{}}
}

func (l *fakeLocker) SetIfNotExists(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return false, nil
	}
	l.held[key] = value
	return true, nil
}

func (l *fakeLocker) ReleaseIfOwner(_ context.Context, key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == value {
		delete(l.held, key)
		l.released = append(l.released, key)
	}
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []skill.UserSkill
}

func (n *fakeNotifier) NotifyValidationUpdated(_ uuid.UUID, us skill.UserSkill) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, us)
}
