package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser   = "user"
	RoleMentor = "mentor"
	RoleAdmin  = "admin"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func ValidRole(r string) bool {
	return r == RoleUser || r == RoleMentor || r == RoleAdmin
}

func (u User) CanValidate() bool {
	return u.Role == RoleMentor || u.Role == RoleAdmin
}
