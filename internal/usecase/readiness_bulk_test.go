package usecase

import (
	"context"
	"testing"

	"roleready/internal/domain/readiness"
	"roleready/internal/domain/role"
	"roleready/internal/domain/skill"
	"roleready/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadiness_RecalculateAll(t *testing.T) {
	f := newReadinessFixture(t)
	f.claim(f.skillA, skill.SourceSelf, skill.ValidationNone)

	noSkills := uuid.New()
	f.targets.active[noSkills] = repository.TargetRole{ID: uuid.New(), UserID: noSkills, RoleID: f.roleID, IsActive: true}

	emptyRole := role.Role{ID: uuid.New(), Name: "Placeholder", IsActive: true}
	f.roles.roles[emptyRole.ID] = emptyRole
	skipped := uuid.New()
	f.targets.active[skipped] = repository.TargetRole{ID: uuid.New(), UserID: skipped, RoleID: emptyRole.ID, IsActive: true}

	out, err := f.uc.RecalculateAll(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 1, out.Succeeded)
	assert.Equal(t, 2, out.Skipped)
	assert.Empty(t, out.Failures)
	require.Equal(t, 1, f.snapshots.count())
	assert.Equal(t, f.userID, f.snapshots.items[0].UserID)

	for _, s := range f.snapshots.items {
		assert.Equal(t, readiness.TriggerAdmin, s.Trigger)
	}
}

func TestReadiness_RecalculateAllListFailure(t *testing.T) {
	f := newReadinessFixture(t)
	f.targets.err = assert.AnError

	_, err := f.uc.RecalculateAll(context.Background(), 2, 0)
	assert.ErrorIs(t, err, ErrInternal)
}
