package readiness

import (
	"errors"
	"math"

	"roleready/internal/domain/role"
	"roleready/internal/domain/skill"

	"github.com/google/uuid"
)

// ValidationBonus multiplies the achieved weight of a mentor-validated skill.
const ValidationBonus = 1.25

const maxPercentage = 100

var (
	ErrNoBenchmarks = errors.New("no benchmark skills configured")
	ErrNoSkills     = errors.New("no eligible user skills")
)

type SkillStatus string

const (
	StatusMet     SkillStatus = "met"
	StatusMissing SkillStatus = "missing"
)

type SkillBreakdown struct {
	SkillID          uuid.UUID              `json:"skill_id"`
	SkillName        string                 `json:"skill_name"`
	Importance       role.Importance        `json:"importance"`
	RequiredWeight   int                    `json:"required_weight"`
	AchievedWeight   int                    `json:"achieved_weight"`
	RequiredLevel    int                    `json:"required_level"`
	UserLevel        int                    `json:"user_level,omitempty"`
	Status           SkillStatus            `json:"status"`
	Source           skill.Source           `json:"source,omitempty"`
	ValidationStatus skill.ValidationStatus `json:"validation_status,omitempty"`
	BonusApplied     bool                   `json:"bonus_applied"`
}

type MissingSkill struct {
	SkillID   uuid.UUID `json:"skill_id"`
	SkillName string    `json:"skill_name"`
	Weight    int       `json:"weight"`
}

type Result struct {
	TotalScore       int
	MaxPossibleScore int
	Percentage       int

	SkillsMatched int
	SkillsMissing int
	RequiredMet   int
	RequiredTotal int

	HasAllRequired  bool
	MissingRequired []MissingSkill
	Breakdown       []SkillBreakdown
}

// MetSkillIDs returns the ids of benchmarks the user met, in breakdown order.
func (r Result) MetSkillIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, r.SkillsMatched)
	for _, b := range r.Breakdown {
		if b.Status == StatusMet {
			out = append(out, b.SkillID)
		}
	}
	return out
}

// Eligible filters a ledger down to the skills that count towards readiness.
func Eligible(userSkills []skill.UserSkill) []skill.UserSkill {
	out := make([]skill.UserSkill, 0, len(userSkills))
	for _, us := range userSkills {
		if us.SkillID == uuid.Nil || !us.Eligible() {
			continue
		}
		out = append(out, us)
	}
	return out
}

// Calculate scores the user's skills against a role's benchmarks. Ineligible
// skills are ignored. The result depends only on its inputs.
func Calculate(userSkills []skill.UserSkill, benchmarks []role.Benchmark) (Result, error) {
	if len(benchmarks) == 0 {
		return Result{}, ErrNoBenchmarks
	}

	bySkillID := make(map[uuid.UUID]skill.UserSkill, len(userSkills))
	for _, us := range Eligible(userSkills) {
		bySkillID[us.SkillID] = us
	}

	res := Result{
		Breakdown:       make([]SkillBreakdown, 0, len(benchmarks)),
		MissingRequired: make([]MissingSkill, 0),
	}

	for _, b := range benchmarks {
		res.MaxPossibleScore += b.Weight
		if b.Required() {
			res.RequiredTotal++
		}

		row := SkillBreakdown{
			SkillID:        b.SkillID,
			SkillName:      b.SkillName,
			Importance:     b.Importance,
			RequiredWeight: b.Weight,
			RequiredLevel:  b.RequiredLevel,
			Status:         StatusMissing,
		}

		us, ok := bySkillID[b.SkillID]
		if !ok {
			res.SkillsMissing++
			if b.Required() {
				res.MissingRequired = append(res.MissingRequired, MissingSkill{
					SkillID:   b.SkillID,
					SkillName: b.SkillName,
					Weight:    b.Weight,
				})
			}
			res.Breakdown = append(res.Breakdown, row)
			continue
		}

		row.Status = StatusMet
		row.UserLevel = us.Level
		row.Source = us.Source
		row.ValidationStatus = us.ValidationStatus
		row.AchievedWeight = b.Weight
		if us.Validated() {
			row.AchievedWeight = applyBonus(b.Weight)
			row.BonusApplied = true
		}
		if row.SkillName == "" {
			row.SkillName = us.SkillName
		}

		res.TotalScore += row.AchievedWeight
		res.SkillsMatched++
		if b.Required() {
			res.RequiredMet++
		}
		res.Breakdown = append(res.Breakdown, row)
	}

	res.Percentage = Percentage(res.TotalScore, res.MaxPossibleScore)
	res.HasAllRequired = len(res.MissingRequired) == 0

	return res, nil
}

// Percentage is round(total/max*100), 0 when max is 0, capped at 100. The
// validation bonus can push total above max; the cap keeps the score a
// percentage while TotalScore still records the bonus.
func Percentage(total, max int) int {
	if max <= 0 {
		return 0
	}
	p := int(math.Round(float64(total) / float64(max) * 100))
	if p < 0 {
		return 0
	}
	if p > maxPercentage {
		return maxPercentage
	}
	return p
}

func applyBonus(weight int) int {
	return int(math.Round(float64(weight) * ValidationBonus))
}
