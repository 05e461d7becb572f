package dto

import (
	"time"

	"roleready/internal/domain/skill"

	"github.com/google/uuid"
)

type CreateSkillRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	Domain string `json:"domain" validate:"omitempty,max=60"`
}

func (r *CreateSkillRequest) Validate() error {
	return validate.Struct(r)
}

type SkillResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func NewSkillResponse(s skill.Skill) SkillResponse {
	return SkillResponse{ID: s.ID, Name: s.Name, Domain: s.Domain, IsActive: s.IsActive, CreatedAt: s.CreatedAt}
}

func NewSkillResponses(items []skill.Skill) []SkillResponse {
	out := make([]SkillResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewSkillResponse(it))
	}
	return out
}
