package dto

import (
	"time"

	"roleready/internal/domain/readiness"
	"roleready/internal/domain/role"
	"roleready/internal/usecase"

	"github.com/google/uuid"
)

type CalculateReadinessRequest struct {
	Force        bool   `json:"force"`
	BypassReason string `json:"bypass_reason" validate:"omitempty,max=64"`
}

func (r *CalculateReadinessRequest) Validate() error {
	return validate.Struct(r)
}

type RoleSummaryResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

func newRoleSummary(r role.Role) RoleSummaryResponse {
	return RoleSummaryResponse{ID: r.ID, Name: r.Name, Category: r.Category}
}

type CooldownResponse struct {
	Active           bool   `json:"active"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Message          string `json:"message,omitempty"`
}

type ValidationSummaryResponse struct {
	NewlyValidated        int         `json:"newly_validated"`
	NewlyRejected         int         `json:"newly_rejected"`
	SkillIDs              []uuid.UUID `json:"skill_ids"`
	Message               string      `json:"message,omitempty"`
	ShowRecalculatePrompt bool        `json:"show_recalculate_prompt"`
}

type ReadinessContextResponse struct {
	HasTargetRole    bool                      `json:"has_target_role"`
	TargetRole       *RoleSummaryResponse      `json:"target_role"`
	BenchmarkCount   int                       `json:"benchmark_count"`
	RequiredCount    int                       `json:"required_count"`
	SkillCount       int                       `json:"skill_count"`
	LastCalculatedAt *time.Time                `json:"last_calculated_at"`
	LastPercentage   *int                      `json:"last_percentage"`
	Cooldown         CooldownResponse          `json:"cooldown"`
	Validation       ValidationSummaryResponse `json:"validation"`
}

func NewReadinessContextResponse(rc usecase.ReadinessContext) ReadinessContextResponse {
	out := ReadinessContextResponse{
		HasTargetRole:    rc.HasTargetRole,
		BenchmarkCount:   rc.BenchmarkCount,
		RequiredCount:    rc.RequiredCount,
		SkillCount:       rc.SkillCount,
		LastCalculatedAt: rc.LastCalculatedAt,
		LastPercentage:   rc.LastPercentage,
		Cooldown: CooldownResponse{
			Active:           rc.Cooldown.Active,
			RemainingSeconds: rc.Cooldown.RemainingSeconds,
			Message:          rc.Cooldown.Message,
		},
		Validation: ValidationSummaryResponse{
			NewlyValidated:        rc.Validation.NewlyValidated,
			NewlyRejected:         rc.Validation.NewlyRejected,
			SkillIDs:              rc.Validation.SkillIDs,
			Message:               rc.Validation.Message,
			ShowRecalculatePrompt: rc.Validation.ShowRecalculatePrompt,
		},
	}
	if out.Validation.SkillIDs == nil {
		out.Validation.SkillIDs = []uuid.UUID{}
	}
	if rc.Role != nil {
		s := newRoleSummary(*rc.Role)
		out.TargetRole = &s
	}
	return out
}

type SnapshotResponse struct {
	ID               uuid.UUID                  `json:"id"`
	RoleID           uuid.UUID                  `json:"role_id"`
	TotalScore       int                        `json:"total_score"`
	MaxPossibleScore int                        `json:"max_possible_score"`
	Percentage       int                        `json:"percentage"`
	RequiredMet      int                        `json:"required_met"`
	RequiredTotal    int                        `json:"required_total"`
	SkillsMatched    int                        `json:"skills_matched"`
	SkillsMissing    int                        `json:"skills_missing"`
	HasAllRequired   bool                       `json:"has_all_required"`
	MissingRequired  []readiness.MissingSkill   `json:"missing_required"`
	Breakdown        []readiness.SkillBreakdown `json:"breakdown"`
	Trigger          string                     `json:"trigger"`
	CreatedAt        time.Time                  `json:"created_at"`
}

func NewSnapshotResponse(s readiness.Snapshot) SnapshotResponse {
	out := SnapshotResponse{
		ID:               s.ID,
		RoleID:           s.RoleID,
		TotalScore:       s.TotalScore,
		MaxPossibleScore: s.MaxPossibleScore,
		Percentage:       s.Percentage,
		RequiredMet:      s.RequiredMet,
		RequiredTotal:    s.RequiredTotal,
		SkillsMatched:    s.SkillsMatched,
		SkillsMissing:    s.SkillsMissing,
		HasAllRequired:   s.HasAllRequired,
		MissingRequired:  s.MissingRequired,
		Breakdown:        s.Breakdown,
		Trigger:          string(s.Trigger),
		CreatedAt:        s.CreatedAt,
	}
	if out.MissingRequired == nil {
		out.MissingRequired = []readiness.MissingSkill{}
	}
	if out.Breakdown == nil {
		out.Breakdown = []readiness.SkillBreakdown{}
	}
	return out
}

func NewSnapshotResponses(items []readiness.Snapshot) []SnapshotResponse {
	out := make([]SnapshotResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewSnapshotResponse(it))
	}
	return out
}

type CalculationResponse struct {
	Recalculated bool                `json:"recalculated"`
	Message      string              `json:"message,omitempty"`
	Role         RoleSummaryResponse `json:"role"`
	SkillsAdded  int                 `json:"skills_added"`
	SkillsGone   int                 `json:"skills_removed"`
	Readiness    SnapshotResponse    `json:"readiness"`
}

func NewCalculationResponse(out usecase.CalculationOutcome) CalculationResponse {
	return CalculationResponse{
		Recalculated: out.Recalculated,
		Message:      out.Message,
		Role:         newRoleSummary(out.Role),
		SkillsAdded:  out.Added,
		SkillsGone:   out.Removed,
		Readiness:    NewSnapshotResponse(out.Snapshot),
	}
}

type LatestReadinessResponse struct {
	Role      RoleSummaryResponse `json:"role"`
	Readiness SnapshotResponse    `json:"readiness"`
}

func NewLatestReadinessResponse(r role.Role, s readiness.Snapshot) LatestReadinessResponse {
	return LatestReadinessResponse{Role: newRoleSummary(r), Readiness: NewSnapshotResponse(s)}
}
