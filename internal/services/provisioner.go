package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/monocle-dev/hackhub/internal/metrics"
	"github.com/monocle-dev/hackhub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultDisplayName = "User"

// Identity is the authenticated caller as reported by the identity provider.
type Identity struct {
	ExternalID string
	FirstName  string
	LastName   string
	Username   string
}

func (i Identity) DisplayName() string {
	if name := strings.TrimSpace(strings.TrimSpace(i.FirstName) + " " + strings.TrimSpace(i.LastName)); name != "" {
		return name
	}

	if username := strings.TrimSpace(i.Username); username != "" {
		return username
	}

	return DefaultDisplayName
}

// Provisioner maps identities to profiles. The unique index on
// profiles.clerk_id is the only thing keeping concurrent callers from
// creating duplicates.
type Provisioner struct {
	db *gorm.DB
}

func NewProvisioner(db *gorm.DB) *Provisioner {
	return &Provisioner{db: db}
}

// EnsureProfile returns the profile for identity, creating it on first
// contact. A nil identity or one without an external id yields (nil, nil).
func (p *Provisioner) EnsureProfile(ctx context.Context, identity *Identity) (*models.Profile, error) {
	if identity == nil || identity.ExternalID == "" {
		return nil, nil
	}

	existing, err := p.FindByExternalID(ctx, identity.ExternalID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		metrics.ProfileProvisions.WithLabelValues(metrics.OutcomeExisting).Inc()
		return existing, nil
	}

	profile := models.Profile{
		ClerkID: identity.ExternalID,
		Name:    identity.DisplayName(),
		Role:    models.RoleUser,
	}

	result := p.db.WithContext(ctx).Clauses(onConflictClerkID()).Create(&profile)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to create profile: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		metrics.ProfileProvisions.WithLabelValues(metrics.OutcomeCreated).Inc()
		return &profile, nil
	}

	// Another caller inserted the row between our lookup and insert.
	winner, err := p.FindByExternalID(ctx, identity.ExternalID)
	if err != nil {
		return nil, err
	}

	if winner == nil {
		return nil, fmt.Errorf("profile for %s vanished after conflicting insert", identity.ExternalID)
	}

	metrics.ProfileProvisions.WithLabelValues(metrics.OutcomeRace).Inc()

	return winner, nil
}

func onConflictClerkID() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "clerk_id"}},
		DoNothing: true,
	}
}

// FindByExternalID returns (nil, nil) when no profile exists for externalID.
func (p *Provisioner) FindByExternalID(ctx context.Context, externalID string) (*models.Profile, error) {
	var profile models.Profile

	err := p.db.WithContext(ctx).Where("clerk_id = ?", externalID).First(&profile).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	return &profile, nil
}
