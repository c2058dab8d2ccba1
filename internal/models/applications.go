package models

import "time"

const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

type MentorApplication struct {
	BaseModel

	Name         string     `gorm:"not null" json:"name"`
	Email        string     `gorm:"not null" json:"email"`
	Expertise    string     `json:"expertise"`
	Status       string     `gorm:"not null;default:pending" json:"status"`
	ReviewedByID *string    `gorm:"index;type:varchar(36)" json:"reviewed_by_id"`
	ReviewedAt   *time.Time `json:"reviewed_at"`

	// Relationships
	ReviewedBy *Profile `gorm:"foreignKey:ReviewedByID;constraint:OnUpdate:CASCADE" json:"-"`
}

type SponsorshipInquiry struct {
	BaseModel

	CompanyName  string     `gorm:"not null" json:"company_name"`
	ContactEmail string     `gorm:"not null" json:"contact_email"`
	Message      string     `json:"message"`
	Status       string     `gorm:"not null;default:pending" json:"status"`
	ReviewedByID *string    `gorm:"index;type:varchar(36)" json:"reviewed_by_id"`
	ReviewedAt   *time.Time `json:"reviewed_at"`

	// Relationships
	ReviewedBy *Profile `gorm:"foreignKey:ReviewedByID;constraint:OnUpdate:CASCADE" json:"-"`
}
