package testutil

import (
	"testing"

	"github.com/monocle-dev/hackhub/internal/models"
	"gorm.io/gorm"
)

func Ptr[T any](v T) *T {
	return &v
}

func CreateProfile(t *testing.T, conn *gorm.DB, clerkID string) models.Profile {
	t.Helper()

	profile := models.Profile{ClerkID: clerkID, Name: clerkID, Role: models.RoleUser}
	if err := conn.Create(&profile).Error; err != nil {
		t.Fatalf("Failed to create profile %s: %v", clerkID, err)
	}

	return profile
}

func CreateProject(t *testing.T, conn *gorm.DB, ownerID, name string) models.Project {
	t.Helper()

	project := models.Project{Name: name, OwnerID: ownerID}
	if err := conn.Create(&project).Error; err != nil {
		t.Fatalf("Failed to create project %s: %v", name, err)
	}

	return project
}

func CreateEvent(t *testing.T, conn *gorm.DB, slug string) models.Event {
	t.Helper()

	event := models.Event{Name: slug, Slug: slug}
	if err := conn.Create(&event).Error; err != nil {
		t.Fatalf("Failed to create event %s: %v", slug, err)
	}

	return event
}

// MustCreate inserts value or fails the test.
func MustCreate(t *testing.T, conn *gorm.DB, value interface{}) {
	t.Helper()

	if err := conn.Create(value).Error; err != nil {
		t.Fatalf("Failed to create %T: %v", value, err)
	}
}

func Count(t *testing.T, conn *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	tx := conn.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	if err := tx.Count(&n).Error; err != nil {
		t.Fatalf("Failed to count %T: %v", model, err)
	}

	return n
}
