package services

import (
	"context"
	"fmt"
	"time"

	"github.com/monocle-dev/hackhub/internal/cascade"
	"github.com/monocle-dev/hackhub/internal/metrics"
	"github.com/monocle-dev/hackhub/internal/models"
	"gorm.io/gorm"
)

// Step names of the profile cascade.
const (
	StepOwnedProjects      = "owned-projects"
	StepMemberships        = "memberships"
	StepInvites            = "invites"
	StepEventRegistrations = "event-registrations"
	StepReviews            = "reviews"
	StepAuditLog           = "audit-log"
	StepModerationRefs     = "moderation-refs"
	StepProfile            = "profile"
)

type cascadeState struct {
	tx        *gorm.DB
	profileID string

	// projectIDs holds the owned projects removed by StepOwnedProjects.
	projectIDs []string
}

// profileCascade nullifies references that may outlive the profile and deletes
// the rest, leaf-first. The profile row itself goes last.
var profileCascade = cascade.MustBuild(
	cascade.Step[*cascadeState]{
		Name: StepOwnedProjects,
		Run: func(ctx context.Context, s *cascadeState) error {
			var projectIDs []string
			if err := s.tx.Model(&models.Project{}).Where("owner_id = ?", s.profileID).Pluck("id", &projectIDs).Error; err != nil {
				return err
			}
			if err := deleteProjects(s.tx, projectIDs); err != nil {
				return err
			}
			s.projectIDs = projectIDs
			return nil
		},
	},
	cascade.Step[*cascadeState]{
		Name:  StepMemberships,
		After: []string{StepOwnedProjects},
		Run: func(ctx context.Context, s *cascadeState) error {
			return s.tx.Where("profile_id = ?", s.profileID).Delete(&models.ProjectMember{}).Error
		},
	},
	cascade.Step[*cascadeState]{
		Name:  StepInvites,
		After: []string{StepOwnedProjects, StepMemberships},
		Run: func(ctx context.Context, s *cascadeState) error {
			var inviteIDs []string
			if err := s.tx.Model(&models.TeamInvite{}).
				Where("sender_id = ? OR recipient_id = ?", s.profileID, s.profileID).
				Pluck("id", &inviteIDs).Error; err != nil {
				return err
			}

			if len(inviteIDs) == 0 {
				return nil
			}

			if err := s.tx.Model(&models.ProjectMember{}).
				Where("invite_id IN ?", inviteIDs).
				Update("invite_id", nil).Error; err != nil {
				return err
			}

			return s.tx.Where("id IN ?", inviteIDs).Delete(&models.TeamInvite{}).Error
		},
	},
	cascade.Step[*cascadeState]{
		Name: StepEventRegistrations,
		Run: func(ctx context.Context, s *cascadeState) error {
			return s.tx.Where("profile_id = ?", s.profileID).Delete(&models.EventRegistration{}).Error
		},
	},
	cascade.Step[*cascadeState]{
		Name: StepReviews,
		Run: func(ctx context.Context, s *cascadeState) error {
			if err := s.tx.Model(&models.MentorApplication{}).
				Where("reviewed_by_id = ?", s.profileID).
				Update("reviewed_by_id", nil).Error; err != nil {
				return err
			}

			return s.tx.Model(&models.SponsorshipInquiry{}).
				Where("reviewed_by_id = ?", s.profileID).
				Update("reviewed_by_id", nil).Error
		},
	},
	cascade.Step[*cascadeState]{
		Name: StepAuditLog,
		Run: func(ctx context.Context, s *cascadeState) error {
			// An entry without a target still records that the action happened;
			// one without an actor does not, so those rows go.
			if err := s.tx.Model(&models.AuditLogEntry{}).
				Where("target_profile_id = ?", s.profileID).
				Update("target_profile_id", nil).Error; err != nil {
				return err
			}

			return s.tx.Where("actor_id = ?", s.profileID).Delete(&models.AuditLogEntry{}).Error
		},
	},
	cascade.Step[*cascadeState]{
		Name: StepModerationRefs,
		Run: func(ctx context.Context, s *cascadeState) error {
			if err := s.tx.Model(&models.Profile{}).
				Where("banned_by_id = ?", s.profileID).
				Update("banned_by_id", nil).Error; err != nil {
				return err
			}

			return s.tx.Model(&models.Profile{}).
				Where("hidden_by_id = ?", s.profileID).
				Update("hidden_by_id", nil).Error
		},
	},
	cascade.Step[*cascadeState]{
		Name: StepProfile,
		After: []string{
			StepOwnedProjects,
			StepMemberships,
			StepInvites,
			StepEventRegistrations,
			StepReviews,
			StepAuditLog,
			StepModerationRefs,
		},
		Run: func(ctx context.Context, s *cascadeState) error {
			return s.tx.Where("id = ?", s.profileID).Delete(&models.Profile{}).Error
		},
	},
)

// deleteProjects removes projects and every row hanging off them. Member
// invite references are cleared before the invites they point at go.
func deleteProjects(tx *gorm.DB, projectIDs []string) error {
	if len(projectIDs) == 0 {
		return nil
	}

	if err := tx.Model(&models.ProjectMember{}).
		Where("invite_id IN (?)", tx.Model(&models.TeamInvite{}).Select("id").Where("project_id IN ?", projectIDs)).
		Update("invite_id", nil).Error; err != nil {
		return fmt.Errorf("clear member invites: %w", err)
	}

	if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.ProjectMember{}).Error; err != nil {
		return fmt.Errorf("delete members: %w", err)
	}

	if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.TeamInvite{}).Error; err != nil {
		return fmt.Errorf("delete invites: %w", err)
	}

	if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.EventProject{}).Error; err != nil {
		return fmt.Errorf("delete event projects: %w", err)
	}

	if err := tx.Where("id IN ?", projectIDs).Delete(&models.Project{}).Error; err != nil {
		return fmt.Errorf("delete projects: %w", err)
	}

	return nil
}

// Eradicator removes a profile and everything that must not outlive it in a
// single transaction.
type Eradicator struct {
	db *gorm.DB

	// afterStep lets tests inject a failure between steps.
	afterStep func(step string) error
}

func NewEradicator(db *gorm.DB) *Eradicator {
	return &Eradicator{db: db}
}

// Steps returns the cascade step names in execution order.
func (e *Eradicator) Steps() []string {
	return profileCascade.Names()
}

// Removal describes what a committed cascade deleted.
type Removal struct {
	ProfileID  string
	ProjectIDs []string
}

// DeleteProfileCascade deletes profileID and its dependents atomically. An id
// with no row commits a transaction in which nothing matched.
func (e *Eradicator) DeleteProfileCascade(ctx context.Context, profileID string) error {
	_, err := e.Eradicate(ctx, profileID)
	return err
}

// Eradicate runs the cascade and reports the owned projects it removed. The
// project list is read inside the transaction, so it matches the rows deleted.
func (e *Eradicator) Eradicate(ctx context.Context, profileID string) (*Removal, error) {
	start := time.Now()
	state := &cascadeState{profileID: profileID}

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state.tx = tx
		state.projectIDs = nil
		return profileCascade.Execute(ctx, state, e.afterStep)
	})

	metrics.ProfileEradicationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ProfileEradications.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("failed to delete profile %s: %w", profileID, err)
	}

	metrics.ProfileEradications.WithLabelValues(metrics.ResultSuccess).Inc()

	return &Removal{ProfileID: profileID, ProjectIDs: state.projectIDs}, nil
}
