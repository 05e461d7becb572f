package role

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Importance string

const (
	ImportanceRequired Importance = "required"
	ImportanceOptional Importance = "optional"
)

var (
	ErrInvalidWeight     = errors.New("benchmark weight must be positive")
	ErrInvalidImportance = errors.New("benchmark importance must be required or optional")
	ErrInvalidLevel      = errors.New("benchmark required level must be between 1 and 5")
	ErrDuplicateSkill    = errors.New("benchmark skill listed more than once")
	ErrMissingSkill      = errors.New("benchmark skill id is required")
)

// Benchmark is a value object owned by its Role.
type Benchmark struct {
	SkillID       uuid.UUID  `json:"skill_id"`
	SkillName     string     `json:"skill_name"`
	Importance    Importance `json:"importance"`
	Weight        int        `json:"weight"`
	RequiredLevel int        `json:"required_level"`
}

func (b Benchmark) Required() bool {
	return b.Importance == ImportanceRequired
}

type Role struct {
	ID          uuid.UUID
	Name        string
	Category    string
	Description string
	IsActive    bool
	Benchmarks  []Benchmark
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r Role) RequiredCount() int {
	n := 0
	for _, b := range r.Benchmarks {
		if b.Required() {
			n++
		}
	}
	return n
}

// ValidateBenchmarks checks the invariants of a benchmark list. An empty list
// is accepted here; it is refused at calculation time instead.
func ValidateBenchmarks(bs []Benchmark) error {
	seen := make(map[uuid.UUID]struct{}, len(bs))
	for _, b := range bs {
		if b.SkillID == uuid.Nil {
			return ErrMissingSkill
		}
		if b.Weight <= 0 {
			return ErrInvalidWeight
		}
		if b.Importance != ImportanceRequired && b.Importance != ImportanceOptional {
			return ErrInvalidImportance
		}
		if b.RequiredLevel < 1 || b.RequiredLevel > 5 {
			return ErrInvalidLevel
		}
		if _, ok := seen[b.SkillID]; ok {
			return ErrDuplicateSkill
		}
		seen[b.SkillID] = struct{}{}
	}
	return nil
}
