package models

import "time"

// Event is a single hackathon run.
type Event struct {
	BaseModel

	Name     string    `gorm:"not null" json:"name"`
	Slug     string    `gorm:"uniqueIndex;not null" json:"slug"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

type EventProject struct {
	BaseModel

	EventID   string `gorm:"not null;uniqueIndex:idx_event_project;type:varchar(36)" json:"event_id"`
	ProjectID string `gorm:"not null;uniqueIndex:idx_event_project;index;type:varchar(36)" json:"project_id"`

	// Relationships
	Event   *Event   `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE" json:"-"`
	Project *Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE" json:"-"`
}

type EventRegistration struct {
	BaseModel

	EventID   string `gorm:"not null;uniqueIndex:idx_event_profile;type:varchar(36)" json:"event_id"`
	ProfileID string `gorm:"not null;uniqueIndex:idx_event_profile;index;type:varchar(36)" json:"profile_id"`

	// Relationships
	Event   *Event   `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE" json:"-"`
	Profile *Profile `gorm:"foreignKey:ProfileID;constraint:OnUpdate:CASCADE" json:"-"`
}
