package readiness

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"roleready/internal/domain/role"
	"roleready/internal/domain/skill"

	"github.com/google/uuid"
)

// DefaultCooldown is the minimum gap between unforced recalculations for the
// same user and role.
const DefaultCooldown = 5 * time.Minute

// BypassValidationUpdate lets a recalculation skip the cooldown right after a
// mentor validated or rejected one of the user's skills.
const BypassValidationUpdate = "validation_update"

type Request struct {
	Force        bool
	BypassReason string
}

func (r Request) bypassesGate() bool {
	return r.Force || r.BypassReason == BypassValidationUpdate
}

type CooldownDecision struct {
	Allowed   bool
	Bypassed  bool
	Remaining time.Duration
	Message   string
}

// CheckCooldown refuses a recalculation when the last snapshot is younger
// than window. A missing snapshot is always allowed.
func CheckCooldown(last *Snapshot, now time.Time, window time.Duration, req Request) CooldownDecision {
	if last == nil {
		return CooldownDecision{Allowed: true}
	}
	if window <= 0 {
		window = DefaultCooldown
	}

	elapsed := now.Sub(last.CreatedAt)
	if elapsed >= window {
		return CooldownDecision{Allowed: true}
	}
	if req.bypassesGate() {
		return CooldownDecision{Allowed: true, Bypassed: true}
	}

	remaining := window - elapsed
	return CooldownDecision{
		Allowed:   false,
		Remaining: remaining,
		Message:   fmt.Sprintf("Please wait %s before recalculating your readiness score.", FormatWait(remaining)),
	}
}

type ChangeDecision struct {
	Changed bool
	Added   int
	Removed int
	Message string
}

// CurrentMetSkillIDs returns the sorted ids of eligible user skills that
// appear in the benchmarks, which is the set a fresh calculation would mark
// as met.
func CurrentMetSkillIDs(userSkills []skill.UserSkill, benchmarks []role.Benchmark) []uuid.UUID {
	want := make(map[uuid.UUID]struct{}, len(benchmarks))
	for _, b := range benchmarks {
		want[b.SkillID] = struct{}{}
	}

	seen := make(map[uuid.UUID]struct{})
	out := make([]uuid.UUID, 0)
	for _, us := range Eligible(userSkills) {
		if _, ok := want[us.SkillID]; !ok {
			continue
		}
		if _, dup := seen[us.SkillID]; dup {
			continue
		}
		seen[us.SkillID] = struct{}{}
		out = append(out, us.SkillID)
	}
	sortIDs(out)
	return out
}

// CheckSkillChange compares the met skill ids of the last snapshot with the
// current ones. Order does not matter. A missing snapshot counts as changed.
func CheckSkillChange(last *Snapshot, current []uuid.UUID) ChangeDecision {
	if last == nil {
		return ChangeDecision{Changed: true, Added: len(current), Message: "First readiness calculation."}
	}

	prevSet := idSet(last.MetSkillIDs())
	curSet := idSet(current)

	added, removed := 0, 0
	for id := range curSet {
		if _, ok := prevSet[id]; !ok {
			added++
		}
	}
	for id := range prevSet {
		if _, ok := curSet[id]; !ok {
			removed++
		}
	}

	if added == 0 && removed == 0 {
		return ChangeDecision{Changed: false, Message: "Your skills have not changed since the last calculation."}
	}
	return ChangeDecision{
		Changed: true,
		Added:   added,
		Removed: removed,
		Message: fmt.Sprintf("Skills changed since the last calculation: %d added, %d removed.", added, removed),
	}
}

type ValidationUpdates struct {
	NewlyValidated        int
	NewlyRejected         int
	SkillIDs              []uuid.UUID
	Message               string
	ShowRecalculatePrompt bool
}

func (v ValidationUpdates) HasUpdates() bool {
	return v.NewlyValidated+v.NewlyRejected > 0
}

// DetectValidationUpdates finds skills a mentor validated or rejected after
// the last snapshot was taken. Without a snapshot there is nothing to
// compare against and no updates are reported.
func DetectValidationUpdates(last *Snapshot, userSkills []skill.UserSkill) ValidationUpdates {
	out := ValidationUpdates{SkillIDs: make([]uuid.UUID, 0)}
	if last == nil {
		return out
	}

	for _, us := range userSkills {
		if us.ValidatedAt == nil || !us.ValidatedAt.After(last.CreatedAt) {
			continue
		}
		switch us.ValidationStatus {
		case skill.ValidationValidated:
			out.NewlyValidated++
		case skill.ValidationRejected:
			out.NewlyRejected++
		default:
			continue
		}
		out.SkillIDs = append(out.SkillIDs, us.SkillID)
	}

	if !out.HasUpdates() {
		return out
	}
	out.ShowRecalculatePrompt = true
	out.Message = validationMessage(out.NewlyValidated, out.NewlyRejected)
	return out
}

func validationMessage(validated, rejected int) string {
	switch {
	case validated > 0 && rejected > 0:
		return fmt.Sprintf("A mentor validated %s and rejected %s since your last calculation. Recalculate to update your score.",
			plural(validated, "skill"), plural(rejected, "skill"))
	case validated > 0:
		return fmt.Sprintf("A mentor validated %s since your last calculation. Recalculate to update your score.", plural(validated, "skill"))
	default:
		return fmt.Sprintf("A mentor rejected %s since your last calculation. Recalculate to update your score.", plural(rejected, "skill"))
	}
}

// FormatWait renders a wait as "N minutes M seconds", rounding up to whole
// seconds.
func FormatWait(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	m, s := secs/60, secs%60
	switch {
	case m == 0:
		return plural(s, "second")
	case s == 0:
		return plural(m, "minute")
	default:
		return plural(m, "minute") + " " + plural(s, "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func idSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
}
