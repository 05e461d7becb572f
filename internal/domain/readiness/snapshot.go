package readiness

import (
	"time"

	"github.com/google/uuid"
)

type Trigger string

const (
	TriggerManual           Trigger = "manual"
	TriggerForced           Trigger = "forced"
	TriggerValidationUpdate Trigger = "validation_update"
	TriggerValidationReview Trigger = "validation_review"
	TriggerAdmin            Trigger = "admin_recalculate"
)

// TriggerFor names why an explicit request recalculated.
func TriggerFor(req Request) Trigger {
	switch {
	case req.BypassReason == BypassValidationUpdate:
		return TriggerValidationUpdate
	case req.Force:
		return TriggerForced
	default:
		return TriggerManual
	}
}

// Snapshot is an immutable record of one calculation.
type Snapshot struct {
	ID     uuid.UUID
	UserID uuid.UUID
	RoleID uuid.UUID

	TotalScore       int
	MaxPossibleScore int
	Percentage       int
	RequiredMet      int
	RequiredTotal    int
	SkillsMatched    int
	SkillsMissing    int
	HasAllRequired   bool

	Breakdown       []SkillBreakdown
	MissingRequired []MissingSkill

	Trigger   Trigger
	CreatedAt time.Time
}

func NewSnapshot(userID, roleID uuid.UUID, res Result, trigger Trigger, now time.Time) Snapshot {
	breakdown := res.Breakdown
	if breakdown == nil {
		breakdown = []SkillBreakdown{}
	}
	missing := res.MissingRequired
	if missing == nil {
		missing = []MissingSkill{}
	}
	return Snapshot{
		ID:               uuid.New(),
		UserID:           userID,
		RoleID:           roleID,
		TotalScore:       res.TotalScore,
		MaxPossibleScore: res.MaxPossibleScore,
		Percentage:       res.Percentage,
		RequiredMet:      res.RequiredMet,
		RequiredTotal:    res.RequiredTotal,
		SkillsMatched:    res.SkillsMatched,
		SkillsMissing:    res.SkillsMissing,
		HasAllRequired:   res.HasAllRequired,
		Breakdown:        breakdown,
		MissingRequired:  missing,
		Trigger:          trigger,
		CreatedAt:        now.UTC(),
	}
}

// Result rebuilds the calculation output stored in the snapshot.
func (s Snapshot) Result() Result {
	return Result{
		TotalScore:       s.TotalScore,
		MaxPossibleScore: s.MaxPossibleScore,
		Percentage:       s.Percentage,
		SkillsMatched:    s.SkillsMatched,
		SkillsMissing:    s.SkillsMissing,
		RequiredMet:      s.RequiredMet,
		RequiredTotal:    s.RequiredTotal,
		HasAllRequired:   s.HasAllRequired,
		MissingRequired:  s.MissingRequired,
		Breakdown:        s.Breakdown,
	}
}

func (s Snapshot) MetSkillIDs() []uuid.UUID {
	return s.Result().MetSkillIDs()
}
