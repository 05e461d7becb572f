package dto

import (
	"time"

	"roleready/internal/domain/user"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role, CreatedAt: u.CreatedAt}
}

type UpdateMeRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,max=120"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

func (r *UpdateMeRequest) Validate() error {
	return validate.Struct(r)
}
