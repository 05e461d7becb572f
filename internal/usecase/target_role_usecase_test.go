package usecase

import (
	"context"
	"testing"
	"time"

	"roleready/internal/domain/role"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetRole_SetAndSwitch(t *testing.T) {
	backend := role.Role{ID: uuid.New(), Name: "Backend", IsActive: true}
	data := role.Role{ID: uuid.New(), Name: "Data", IsActive: true}
	retired := role.Role{ID: uuid.New(), Name: "Webmaster", IsActive: false}
	targets := newFakeTargetRoles()
	uc := NewTargetRoleUsecase(targets, newFakeRoles(backend, data, retired), nil, time.Minute, discardLogger)
	userID := uuid.New()

	_, err := uc.GetTargetRole(context.Background(), userID)
	assert.ErrorIs(t, err, ErrTargetRoleNotFound)

	first, err := uc.SetTargetRole(context.Background(), userID, backend.ID)
	require.NoError(t, err)
	assert.Equal(t, backend.ID, first.RoleID)

	same, err := uc.SetTargetRole(context.Background(), userID, backend.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, same.ID)

	second, err := uc.SetTargetRole(context.Background(), userID, data.ID)
	require.NoError(t, err)
	assert.Equal(t, data.ID, second.RoleID)

	history, err := uc.History(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].IsActive)
	assert.False(t, history[1].IsActive)

	_, err = uc.SetTargetRole(context.Background(), userID, retired.ID)
	assert.ErrorIs(t, err, ErrRoleNotFound)

	_, err = uc.SetTargetRole(context.Background(), userID, uuid.New())
	assert.ErrorIs(t, err, ErrRoleNotFound)

	_, err = uc.SetTargetRole(context.Background(), userID, uuid.Nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
