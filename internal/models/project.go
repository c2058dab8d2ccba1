package models

type Project struct {
	BaseModel

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	RepoURL     string `json:"repo_url"`
	OwnerID     string `gorm:"not null;index;type:varchar(36)" json:"owner_id"`

	// Relationships
	Owner *Profile `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE" json:"-"`
}
