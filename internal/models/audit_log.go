package models

import "gorm.io/datatypes"

const (
	AuditActionBan    = "profile.ban"
	AuditActionUnban  = "profile.unban"
	AuditActionHide   = "profile.hide"
	AuditActionUnhide = "profile.unhide"
)

// AuditLogEntry records an admin action. Entries outlive their target
// (TargetProfileID is cleared) but not their actor.
type AuditLogEntry struct {
	BaseModel

	ActorID         string         `gorm:"not null;index;type:varchar(36)" json:"actor_id"`
	Action          string         `gorm:"not null;index" json:"action"`
	TargetProfileID *string        `gorm:"index;type:varchar(36)" json:"target_profile_id"`
	Metadata        datatypes.JSON `json:"metadata"`

	// Relationships
	Actor         *Profile `gorm:"foreignKey:ActorID;constraint:OnUpdate:CASCADE" json:"-"`
	TargetProfile *Profile `gorm:"foreignKey:TargetProfileID;constraint:OnUpdate:CASCADE" json:"-"`
}
