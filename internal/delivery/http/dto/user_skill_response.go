package dto

import (
	"time"

	"roleready/internal/domain/skill"
	"roleready/internal/repository"

	"github.com/google/uuid"
)

type ClaimSkillRequest struct {
	SkillID uuid.UUID `json:"skill_id" validate:"required"`
	Source  string    `json:"source" validate:"omitempty,oneof=self resume"`
	Level   int       `json:"level" validate:"required,min=1,max=5"`
}

func (r *ClaimSkillRequest) Validate() error {
	return validate.Struct(r)
}

type UpdateUserSkillRequest struct {
	Level int `json:"level" validate:"required,min=1,max=5"`
}

func (r *UpdateUserSkillRequest) Validate() error {
	return validate.Struct(r)
}

type UserSkillResponse struct {
	ID               uuid.UUID  `json:"id"`
	SkillID          uuid.UUID  `json:"skill_id"`
	SkillName        string     `json:"skill_name"`
	Source           string     `json:"source"`
	Level            int        `json:"level"`
	ValidationStatus string     `json:"validation_status"`
	ValidatedAt      *time.Time `json:"validated_at,omitempty"`
	ValidationNote   string     `json:"validation_note,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func NewUserSkillResponse(us skill.UserSkill) UserSkillResponse {
	return UserSkillResponse{
		ID:               us.ID,
		SkillID:          us.SkillID,
		SkillName:        us.SkillName,
		Source:           string(us.Source),
		Level:            us.Level,
		ValidationStatus: string(us.ValidationStatus),
		ValidatedAt:      us.ValidatedAt,
		ValidationNote:   us.ValidationNote,
		UpdatedAt:        us.UpdatedAt,
	}
}

func NewUserSkillResponses(items []skill.UserSkill) []UserSkillResponse {
	out := make([]UserSkillResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewUserSkillResponse(it))
	}
	return out
}

type ReviewRequest struct {
	Action string `json:"action" validate:"required,oneof=validate reject"`
	Note   string `json:"note" validate:"omitempty,max=500"`
}

func (r *ReviewRequest) Validate() error {
	return validate.Struct(r)
}

type PendingValidationResponse struct {
	UserSkillResponse
	UserID    uuid.UUID `json:"user_id"`
	UserEmail string    `json:"user_email"`
}

func NewPendingValidationResponses(items []repository.PendingValidation) []PendingValidationResponse {
	out := make([]PendingValidationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, PendingValidationResponse{
			UserSkillResponse: NewUserSkillResponse(it.UserSkill),
			UserID:            it.UserSkill.UserID,
			UserEmail:         it.UserEmail,
		})
	}
	return out
}
