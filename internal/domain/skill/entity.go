package skill

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Source string

const (
	SourceSelf      Source = "self"
	SourceResume    Source = "resume"
	SourceValidated Source = "validated"
)

func (s Source) Valid() bool {
	switch s {
	case SourceSelf, SourceResume, SourceValidated:
		return true
	default:
		return false
	}
}

type ValidationStatus string

const (
	ValidationNone      ValidationStatus = "none"
	ValidationPending   ValidationStatus = "pending"
	ValidationValidated ValidationStatus = "validated"
	ValidationRejected  ValidationStatus = "rejected"
)

func (s ValidationStatus) Valid() bool {
	switch s {
	case ValidationNone, ValidationPending, ValidationValidated, ValidationRejected:
		return true
	default:
		return false
	}
}

// Skill is a catalog entry. Skills referenced by history are never removed;
// deactivation hides them from new claims.
type Skill struct {
	ID             uuid.UUID
	Name           string
	NormalizedName string
	Domain         string
	IsActive       bool
	CreatedAt      time.Time
}

// UserSkill is one row of a user's skill ledger. There is at most one per
// (UserID, SkillID).
type UserSkill struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	SkillID          uuid.UUID
	SkillName        string
	Source           Source
	Level            int
	ValidationStatus ValidationStatus
	ValidatedAt      *time.Time
	ValidatedBy      *uuid.UUID
	ValidationNote   string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Eligible reports whether the skill counts towards readiness.
func (us UserSkill) Eligible() bool {
	return us.Source.Valid() && us.ValidationStatus != ValidationRejected
}

// Validated reports whether a mentor has vouched for the skill, either by
// adding it directly or by approving a claim.
func (us UserSkill) Validated() bool {
	return us.Source == SourceValidated || us.ValidationStatus == ValidationValidated
}

func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func ValidLevel(level int) bool {
	return level >= 1 && level <= 5
}
