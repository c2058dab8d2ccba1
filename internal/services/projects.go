package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/monocle-dev/hackhub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

func (s *ProjectService) Create(ctx context.Context, ownerID, name, description, repoURL string) (*models.Project, error) {
	project := models.Project{
		Name:        name,
		Description: description,
		RepoURL:     repoURL,
		OwnerID:     ownerID,
	}

	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return &project, nil
}

// ListForProfile returns projects the profile owns or is a member of.
func (s *ProjectService) ListForProfile(ctx context.Context, profileID string) ([]models.Project, error) {
	var projects []models.Project

	memberOf := s.db.Model(&models.ProjectMember{}).Select("project_id").Where("profile_id = ?", profileID)

	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", profileID).
		Or("id IN (?)", memberOf).
		Order("created_at ASC").
		Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// IsParticipant reports whether profileID owns or is a member of projectID.
func (s *ProjectService) IsParticipant(ctx context.Context, profileID, projectID string) (bool, error) {
	var n int64

	memberOf := s.db.Model(&models.ProjectMember{}).Select("project_id").Where("profile_id = ?", profileID)

	if err := s.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", projectID).
		Where(s.db.Where("owner_id = ?", profileID).Or("id IN (?)", memberOf)).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check project access: %w", err)
	}

	return n > 0, nil
}

// Delete removes an owned project with its members, invites and event
// submissions, in the same order the profile cascade uses.
func (s *ProjectService) Delete(ctx context.Context, ownerID, projectID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedProject(tx, ownerID, projectID); err != nil {
			return err
		}

		return deleteProjects(tx, []string{projectID})
	})
}

func (s *ProjectService) Invite(ctx context.Context, senderID, projectID, recipientID string) (*models.TeamInvite, error) {
	if senderID == recipientID {
		return nil, ErrCannotInviteSelf
	}

	var invite models.TeamInvite

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedProject(tx, senderID, projectID); err != nil {
			return err
		}

		var recipient models.Profile
		if err := tx.Where("id = ?", recipientID).First(&recipient).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return err
		}

		var n int64
		if err := tx.Model(&models.ProjectMember{}).
			Where("project_id = ? AND profile_id = ?", projectID, recipientID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyMember
		}

		if err := tx.Model(&models.TeamInvite{}).
			Where("project_id = ? AND recipient_id = ? AND status = ?", projectID, recipientID, models.InviteStatusPending).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyInvited
		}

		invite = models.TeamInvite{
			ProjectID:   projectID,
			SenderID:    senderID,
			RecipientID: &recipientID,
			Status:      models.InviteStatusPending,
		}

		return tx.Create(&invite).Error
	})

	if err != nil {
		return nil, err
	}

	return &invite, nil
}

// AcceptInvite turns a pending invite into a membership that remembers the
// invite it came from.
func (s *ProjectService) AcceptInvite(ctx context.Context, recipientID, inviteID string) (*models.ProjectMember, error) {
	var member models.ProjectMember

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invite models.TeamInvite

		if err := tx.Where("id = ? AND recipient_id = ?", inviteID, recipientID).First(&invite).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInviteNotFound
			}
			return err
		}

		if invite.Status != models.InviteStatusPending {
			return ErrInviteNotOpen
		}

		member = models.ProjectMember{
			ProjectID: invite.ProjectID,
			ProfileID: recipientID,
			Role:      models.MemberRoleMember,
			InviteID:  &invite.ID,
		}

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyMember
		}

		accepted := tx.Model(&models.TeamInvite{}).
			Where("id = ? AND status = ?", invite.ID, models.InviteStatusPending).
			Update("status", models.InviteStatusAccepted)
		if accepted.Error != nil {
			return accepted.Error
		}
		if accepted.RowsAffected == 0 {
			return ErrInviteNotOpen
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &member, nil
}

func ownedProject(tx *gorm.DB, ownerID, projectID string) (*models.Project, error) {
	var project models.Project

	if err := tx.Where("id = ? AND owner_id = ?", projectID, ownerID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	return &project, nil
}
