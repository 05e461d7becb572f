package usecase

import (
	"context"
	"testing"
	"time"

	"roleready/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidation_Review(t *testing.T) {
	owner := uuid.New()
	mentor := uuid.New()
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		status     skill.ValidationStatus
		reviewer   uuid.UUID
		action     ReviewAction
		wantErr    error
		wantStatus skill.ValidationStatus
	}{
		{name: "validate", status: skill.ValidationPending, reviewer: mentor, action: ReviewValidate, wantStatus: skill.ValidationValidated},
		{name: "reject", status: skill.ValidationPending, reviewer: mentor, action: ReviewReject, wantStatus: skill.ValidationRejected},
		{name: "not pending", status: skill.ValidationNone, reviewer: mentor, action: ReviewValidate, wantErr: ErrNotPending},
		{name: "own skill", status: skill.ValidationPending, reviewer: owner, action: ReviewValidate, wantErr: ErrForbidden},
		{name: "unknown action", status: skill.ValidationPending, reviewer: mentor, action: "approve", wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := skill.UserSkill{ID: uuid.New(), UserID: owner, SkillID: uuid.New(), Source: skill.SourceSelf, Level: 3, ValidationStatus: tt.status}
			notifier := &fakeNotifier{}
			uc := NewValidationUsecase(newFakeUserSkills(row), notifier, discardLogger)
			uc.now = func() time.Time { return now }

			got, err := uc.Review(context.Background(), tt.reviewer, row.ID, ReviewInput{Action: tt.action, Note: "  solid work  "})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, notifier.events)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.ValidationStatus)
			require.NotNil(t, got.ValidatedAt)
			assert.Equal(t, now, *got.ValidatedAt)
			require.NotNil(t, got.ValidatedBy)
			assert.Equal(t, mentor, *got.ValidatedBy)
			assert.Equal(t, "solid work", got.ValidationNote)
			require.Len(t, notifier.events, 1)
			assert.Equal(t, row.ID, notifier.events[0].ID)
		})
	}
}

func TestValidation_ReviewUnknownSkill(t *testing.T) {
	uc := NewValidationUsecase(newFakeUserSkills(), nil, discardLogger)
	_, err := uc.Review(context.Background(), uuid.New(), uuid.New(), ReviewInput{Action: ReviewValidate})
	assert.ErrorIs(t, err, ErrUserSkillNotFound)
}

func TestValidation_ListPending(t *testing.T) {
	pending := skill.UserSkill{ID: uuid.New(), UserID: uuid.New(), SkillID: uuid.New(), ValidationStatus: skill.ValidationPending}
	done := skill.UserSkill{ID: uuid.New(), UserID: uuid.New(), SkillID: uuid.New(), ValidationStatus: skill.ValidationValidated}
	uc := NewValidationUsecase(newFakeUserSkills(pending, done), nil, discardLogger)

	items, err := uc.ListPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, pending.ID, items[0].UserSkill.ID)

	_, err = uc.ListPending(context.Background(), -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// concurrentReview lets FindByID see a pending request while another mentor
// settles it before this review writes.
type concurrentReview struct {
	*fakeUserSkills
}

func (c concurrentReview) FindByID(ctx context.Context, id uuid.UUID) (skill.UserSkill, error) {
	seen, err := c.fakeUserSkills.FindByID(ctx, id)
	if err != nil {
		return seen, err
	}
	c.mu.Lock()
	won := c.rows[id]
	won.ValidationStatus = skill.ValidationValidated
	c.rows[id] = won
	c.mu.Unlock()
	return seen, nil
}

func TestValidation_ReviewLosesToConcurrentDecision(t *testing.T) {
	row := skill.UserSkill{ID: uuid.New(), UserID: uuid.New(), SkillID: uuid.New(), Source: skill.SourceSelf, Level: 2, ValidationStatus: skill.ValidationPending}
	repo := newFakeUserSkills(row)
	notifier := &fakeNotifier{}
	uc := NewValidationUsecase(concurrentReview{repo}, notifier, discardLogger)

	_, err := uc.Review(context.Background(), uuid.New(), row.ID, ReviewInput{Action: ReviewReject})
	assert.ErrorIs(t, err, ErrNotPending)
	assert.Empty(t, notifier.events)
	assert.Equal(t, skill.ValidationValidated, repo.rows[row.ID].ValidationStatus)
	assert.Nil(t, repo.rows[row.ID].ValidatedBy)
}
