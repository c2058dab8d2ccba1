package models

const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusDeclined = "declined"
)

type TeamInvite struct {
	BaseModel

	ProjectID   string  `gorm:"not null;index;type:varchar(36)" json:"project_id"`
	SenderID    string  `gorm:"not null;index;type:varchar(36)" json:"sender_id"`
	RecipientID *string `gorm:"index;type:varchar(36)" json:"recipient_id"`
	Status      string  `gorm:"not null;default:pending" json:"status"`

	// Relationships
	Project   *Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE" json:"-"`
	Sender    *Profile `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE" json:"-"`
	Recipient *Profile `gorm:"foreignKey:RecipientID;constraint:OnUpdate:CASCADE" json:"-"`
}
