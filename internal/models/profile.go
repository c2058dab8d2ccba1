package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile is the local account of an identity-provider user. ClerkID is the
// provider's user id and never changes for the lifetime of the row.
type Profile struct {
	BaseModel

	ClerkID   string  `gorm:"uniqueIndex;not null" json:"-"`
	Name      string  `gorm:"not null" json:"name"`
	Username  *string `gorm:"uniqueIndex" json:"username"`
	AvatarURL string  `json:"avatar_url"`
	Role      string  `gorm:"not null;default:user" json:"role"`

	IsBanned   bool       `gorm:"not null;default:false" json:"is_banned"`
	BanReason  string     `json:"-"`
	BannedAt   *time.Time `json:"-"`
	BannedByID *string    `gorm:"index;type:varchar(36)" json:"-"`

	IsHidden   bool       `gorm:"not null;default:false" json:"is_hidden"`
	HiddenAt   *time.Time `json:"-"`
	HiddenByID *string    `gorm:"index;type:varchar(36)" json:"-"`

	// Relationships
	BannedBy *Profile `gorm:"foreignKey:BannedByID;constraint:OnUpdate:CASCADE" json:"-"`
	HiddenBy *Profile `gorm:"foreignKey:HiddenByID;constraint:OnUpdate:CASCADE" json:"-"`
}

func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
