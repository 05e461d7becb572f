package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"roleready/internal/domain/role"
	"roleready/internal/repository"

	"github.com/google/uuid"
)

// Cache is the subset of the Redis client the usecases read through. A miss
// and an unavailable cache look the same: found=false.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Locker guards a key for a bounded time. SetIfNotExists must report true
// when the backing store is down so work proceeds unlocked.
type Locker interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	ReleaseIfOwner(ctx context.Context, key string, value string) error
}

const roleListCacheKey = "roles:list"

func RoleCacheKey(id uuid.UUID) string {
	return "roles:" + id.String()
}

func ReadinessLockKey(userID, roleID uuid.UUID) string {
	return "readiness:lock:" + userID.String() + ":" + roleID.String()
}

type noopCache struct{}

func (noopCache) GetJSON(context.Context, string, any) (bool, error)       { return false, nil }
func (noopCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (noopCache) Delete(context.Context, ...string) error                  { return nil }

type noopLocker struct{}

func (noopLocker) SetIfNotExists(context.Context, string, string, time.Duration) (bool, error) {
	return true, nil
}
func (noopLocker) ReleaseIfOwner(context.Context, string, string) error { return nil }

// roleLoader reads roles through the cache. Both the catalog and the
// readiness flow go through it so an admin edit invalidates one place.
type roleLoader struct {
	repo   repository.RoleRepository
	cache  Cache
	ttl    time.Duration
	logger *log.Logger
}

func newRoleLoader(repo repository.RoleRepository, cache Cache, ttl time.Duration, logger *log.Logger) *roleLoader {
	if cache == nil {
		cache = noopCache{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &roleLoader{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

func (l *roleLoader) get(ctx context.Context, id uuid.UUID) (role.Role, error) {
	key := RoleCacheKey(id)

	var cached role.Role
	found, err := l.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		l.logger.Printf("[Cache] role read failed key=%s err=%v", key, err)
	}
	if found {
		return cached, nil
	}

	rl, err := l.repo.GetRoleByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return role.Role{}, ErrRoleNotFound
		}
		return role.Role{}, err
	}

	if err := l.cache.SetJSON(ctx, key, rl, l.ttl); err != nil {
		l.logger.Printf("[Cache] role write failed key=%s err=%v", key, err)
	}
	return rl, nil
}

func (l *roleLoader) list(ctx context.Context) ([]role.Role, error) {
	var cached []role.Role
	found, err := l.cache.GetJSON(ctx, roleListCacheKey, &cached)
	if err != nil {
		l.logger.Printf("[Cache] role list read failed err=%v", err)
	}
	if found {
		return cached, nil
	}

	items, err := l.repo.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	if err := l.cache.SetJSON(ctx, roleListCacheKey, items, l.ttl); err != nil {
		l.logger.Printf("[Cache] role list write failed err=%v", err)
	}
	return items, nil
}

func (l *roleLoader) invalidate(ctx context.Context, id uuid.UUID) {
	if err := l.cache.Delete(ctx, RoleCacheKey(id), roleListCacheKey); err != nil {
		l.logger.Printf("[Cache] role invalidation failed role_id=%s err=%v", id, err)
	}
}
