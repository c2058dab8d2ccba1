package models

const (
	MemberRoleMember = "member"
)

// ProjectMember links a non-owner profile to a project. InviteID records the
// invite the membership came from and must be cleared before that invite is
// deleted.
type ProjectMember struct {
	BaseModel

	ProjectID string  `gorm:"not null;uniqueIndex:idx_project_profile;type:varchar(36)" json:"project_id"`
	ProfileID string  `gorm:"not null;uniqueIndex:idx_project_profile;index;type:varchar(36)" json:"profile_id"`
	Role      string  `gorm:"not null;default:member" json:"role"`
	InviteID  *string `gorm:"index;type:varchar(36)" json:"invite_id"`

	// Relationships
	Project *Project    `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE" json:"-"`
	Profile *Profile    `gorm:"foreignKey:ProfileID;constraint:OnUpdate:CASCADE" json:"-"`
	Invite  *TeamInvite `gorm:"foreignKey:InviteID;constraint:OnUpdate:CASCADE" json:"-"`
}
