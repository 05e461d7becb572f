package ws

import (
	"encoding/json"
	"time"

	"roleready/internal/domain/skill"

	"github.com/google/uuid"
)

const EventValidationUpdated = "validation_updated"

type ValidationUpdatedEvent struct {
	Type             string    `json:"type"`
	UserSkillID      uuid.UUID `json:"user_skill_id"`
	SkillID          uuid.UUID `json:"skill_id"`
	SkillName        string    `json:"skill_name"`
	ValidationStatus string    `json:"validation_status"`
	Timestamp        string    `json:"timestamp"`
}

// Notifier pushes validation outcomes to the affected user so the client
// can offer a readiness refresh.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) NotifyValidationUpdated(userID uuid.UUID, us skill.UserSkill) {
	if n == nil || n.hub == nil {
		return
	}

	payload, err := json.Marshal(ValidationUpdatedEvent{
		Type:             EventValidationUpdated,
		UserSkillID:      us.ID,
		SkillID:          us.SkillID,
		SkillName:        us.SkillName,
		ValidationStatus: string(us.ValidationStatus),
		Timestamp:        n.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		n.hub.logger.Printf("[WS] encode event failed type=%s err=%v", EventValidationUpdated, err)
		return
	}
	n.hub.SendTo(userID, payload)
}
