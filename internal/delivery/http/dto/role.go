package dto

import (
	"time"

	"roleready/internal/domain/role"
	"roleready/internal/repository"

	"github.com/google/uuid"
)

type BenchmarkRequest struct {
	SkillID       uuid.UUID `json:"skill_id" validate:"required"`
	Importance    string    `json:"importance" validate:"required,oneof=required optional"`
	Weight        int       `json:"weight" validate:"required,gt=0"`
	RequiredLevel int       `json:"required_level" validate:"required,min=1,max=5"`
}

type CreateRoleRequest struct {
	Name        string             `json:"name" validate:"required,max=120"`
	Category    string             `json:"category" validate:"omitempty,max=60"`
	Description string             `json:"description" validate:"omitempty,max=2000"`
	Benchmarks  []BenchmarkRequest `json:"benchmarks" validate:"dive"`
}

func (r *CreateRoleRequest) Validate() error {
	return validate.Struct(r)
}

type ReplaceBenchmarksRequest struct {
	Benchmarks []BenchmarkRequest `json:"benchmarks" validate:"dive"`
}

func (r *ReplaceBenchmarksRequest) Validate() error {
	return validate.Struct(r)
}

type SetTargetRoleRequest struct {
	RoleID uuid.UUID `json:"role_id" validate:"required"`
}

func (r *SetTargetRoleRequest) Validate() error {
	return validate.Struct(r)
}

type BenchmarkResponse struct {
	SkillID       uuid.UUID `json:"skill_id"`
	SkillName     string    `json:"skill_name"`
	Importance    string    `json:"importance"`
	Weight        int       `json:"weight"`
	RequiredLevel int       `json:"required_level"`
}

type RoleResponse struct {
	ID            uuid.UUID           `json:"id"`
	Name          string              `json:"name"`
	Category      string              `json:"category"`
	Description   string              `json:"description,omitempty"`
	IsActive      bool                `json:"is_active"`
	RequiredCount int                 `json:"required_count"`
	Benchmarks    []BenchmarkResponse `json:"benchmarks"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func NewRoleResponse(r role.Role) RoleResponse {
	bs := make([]BenchmarkResponse, 0, len(r.Benchmarks))
	for _, b := range r.Benchmarks {
		bs = append(bs, BenchmarkResponse{
			SkillID:       b.SkillID,
			SkillName:     b.SkillName,
			Importance:    string(b.Importance),
			Weight:        b.Weight,
			RequiredLevel: b.RequiredLevel,
		})
	}
	return RoleResponse{
		ID:            r.ID,
		Name:          r.Name,
		Category:      r.Category,
		Description:   r.Description,
		IsActive:      r.IsActive,
		RequiredCount: r.RequiredCount(),
		Benchmarks:    bs,
		UpdatedAt:     r.UpdatedAt,
	}
}

func NewRoleResponses(items []role.Role) []RoleResponse {
	out := make([]RoleResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewRoleResponse(it))
	}
	return out
}

type TargetRoleResponse struct {
	ID            uuid.UUID  `json:"id"`
	RoleID        uuid.UUID  `json:"role_id"`
	RoleName      string     `json:"role_name"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
}

func NewTargetRoleResponse(t repository.TargetRole) TargetRoleResponse {
	return TargetRoleResponse{
		ID:            t.ID,
		RoleID:        t.RoleID,
		RoleName:      t.RoleName,
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt,
		DeactivatedAt: t.DeactivatedAt,
	}
}

func NewTargetRoleResponses(items []repository.TargetRole) []TargetRoleResponse {
	out := make([]TargetRoleResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewTargetRoleResponse(it))
	}
	return out
}
