package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"roleready/internal/domain/user"
	"roleready/internal/pkg/jwt"
	ucauth "roleready/internal/usecase/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]user.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[uuid.UUID]user.User{}}
}

func (f *fakeUsers) CreateUser(_ context.Context, u user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.Role == "" {
		u.Role = user.RoleUser
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetUserByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUsers) UpdateUser(_ context.Context, u user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return user.ErrNotFound
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) SetRole(_ context.Context, id uuid.UUID, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	u.Role = role
	f.byID[id] = u
	return nil
}

func TestAuth_RegisterLoginRefresh(t *testing.T) {
	users := newFakeUsers()
	tokens := jwt.NewHMACService("access", "refresh", time.Minute, time.Hour)
	uc := NewAuthUsecase(users, tokens)

	usr, access, refresh, err := uc.Register(context.Background(), ucauth.RegisterInput{
		Email:    "  Ada@Example.com ",
		Password: "correct horse",
		FullName: "Ada Lovelace",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", usr.Email)
	assert.Equal(t, user.RoleUser, usr.Role)
	assert.Empty(t, usr.PasswordHash)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	claims, err := tokens.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.RoleUser, claims.Role)

	_, _, _, err = uc.Register(context.Background(), ucauth.RegisterInput{Email: "ada@example.com", Password: "another password"})
	assert.ErrorIs(t, err, ucauth.ErrEmailAlreadyRegistered)

	_, _, _, err = uc.Login(context.Background(), ucauth.LoginInput{Email: "ada@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, ucauth.ErrInvalidCredentials)

	_, _, _, err = uc.Login(context.Background(), ucauth.LoginInput{Email: "ADA@example.com", Password: "correct horse"})
	require.NoError(t, err)

	require.NoError(t, users.SetRole(context.Background(), usr.ID, user.RoleMentor))
	newAccess, _, err := uc.Refresh(context.Background(), refresh)
	require.NoError(t, err)
	claims, err = tokens.ValidateToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, user.RoleMentor, claims.Role)

	_, _, err = uc.Refresh(context.Background(), access)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, _, err = uc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuth_RegisterRejectsShortPassword(t *testing.T) {
	uc := NewAuthUsecase(newFakeUsers(), jwt.NewHMACService("a", "b", time.Minute, time.Hour))
	_, _, _, err := uc.Register(context.Background(), ucauth.RegisterInput{Email: "a@b.c", Password: "short"})
	assert.ErrorIs(t, err, ucauth.ErrInvalidInput)
}
