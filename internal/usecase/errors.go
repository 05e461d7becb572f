package usecase

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInternal            = errors.New("internal error")
	ErrInvalidInput        = errors.New("invalid input")
	ErrForbidden           = errors.New("forbidden")

	ErrSkillNotFound      = errors.New("skill not found")
	ErrSkillAlreadyExists = errors.New("skill already exists")
	ErrInvalidLevel       = errors.New("invalid skill level")
	ErrUserSkillNotFound  = errors.New("user skill not found")
	ErrAlreadyValidated   = errors.New("skill already validated")
	ErrNotPending         = errors.New("skill has no pending validation request")

	ErrRoleNotFound       = errors.New("role not found")
	ErrRoleAlreadyExists  = errors.New("role already exists")
	ErrInvalidBenchmarks  = errors.New("invalid benchmarks")
	ErrTargetRoleNotFound = errors.New("no active target role")

	ErrSnapshotNotFound      = errors.New("no readiness snapshot yet")
	ErrCalculationInProgress = errors.New("readiness calculation already in progress")
)

const (
	CodeNoTargetRole        = "NO_TARGET_ROLE"
	CodeRoleNotFound        = "ROLE_NOT_FOUND"
	CodeNoBenchmarks        = "NO_BENCHMARKS"
	CodeNoSkills            = "NO_SKILLS"
	CodeNoValidationUpdates = "NO_VALIDATION_UPDATES"
)

// EdgeCaseError is a business refusal the client can act on, typically by
// following ActionURL to fix the missing prerequisite.
type EdgeCaseError struct {
	Code      string
	Message   string
	ActionURL string
}

func (e *EdgeCaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newEdgeCase(code, message, actionURL string) *EdgeCaseError {
	return &EdgeCaseError{Code: code, Message: message, ActionURL: actionURL}
}

// CooldownError refuses a recalculation requested too soon after the last one.
type CooldownError struct {
	Remaining time.Duration
	Message   string
}

func (e *CooldownError) Error() string {
	return e.Message
}

func (e *CooldownError) RemainingSeconds() int {
	return int(math.Ceil(e.Remaining.Seconds()))
}
