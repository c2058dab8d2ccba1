package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/monocle-dev/hackhub/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Moderator applies admin ban/hide actions. Every action writes its audit
// entry in the same transaction as the profile update.
type Moderator struct {
	db  *gorm.DB
	now func() time.Time
}

func NewModerator(db *gorm.DB) *Moderator {
	return &Moderator{db: db, now: time.Now}
}

func (m *Moderator) Ban(ctx context.Context, actorID, targetID, reason string) (*models.Profile, error) {
	now := m.now()
	return m.apply(ctx, actorID, targetID, models.AuditActionBan, reason, map[string]interface{}{
		"is_banned":    true,
		"banned_by_id": actorID,
		"banned_at":    now,
		"ban_reason":   reason,
	})
}

func (m *Moderator) Unban(ctx context.Context, actorID, targetID string) (*models.Profile, error) {
	return m.apply(ctx, actorID, targetID, models.AuditActionUnban, "", map[string]interface{}{
		"is_banned":    false,
		"banned_by_id": nil,
		"banned_at":    nil,
		"ban_reason":   "",
	})
}

func (m *Moderator) Hide(ctx context.Context, actorID, targetID, reason string) (*models.Profile, error) {
	now := m.now()
	return m.apply(ctx, actorID, targetID, models.AuditActionHide, reason, map[string]interface{}{
		"is_hidden":    true,
		"hidden_by_id": actorID,
		"hidden_at":    now,
	})
}

func (m *Moderator) Unhide(ctx context.Context, actorID, targetID string) (*models.Profile, error) {
	return m.apply(ctx, actorID, targetID, models.AuditActionUnhide, "", map[string]interface{}{
		"is_hidden":    false,
		"hidden_by_id": nil,
		"hidden_at":    nil,
	})
}

func (m *Moderator) apply(ctx context.Context, actorID, targetID, action, reason string, updates map[string]interface{}) (*models.Profile, error) {
	if actorID == targetID {
		return nil, ErrSelfModeration
	}

	var target models.Profile

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var actor models.Profile
		if err := tx.Where("id = ?", actorID).First(&actor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotAdmin
			}
			return err
		}

		if !actor.IsAdmin() {
			return ErrNotAdmin
		}

		if err := tx.Where("id = ?", targetID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return err
		}

		if err := tx.Model(&target).Updates(updates).Error; err != nil {
			return err
		}

		metadata, err := json.Marshal(map[string]string{
			"reason":      reason,
			"target_name": target.Name,
		})
		if err != nil {
			return err
		}

		entry := models.AuditLogEntry{
			ActorID:         actorID,
			Action:          action,
			TargetProfileID: &target.ID,
			Metadata:        datatypes.JSON(metadata),
		}

		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		target = models.Profile{}
		return tx.Where("id = ?", targetID).First(&target).Error
	})

	if err != nil {
		return nil, err
	}

	return &target, nil
}
