package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/monocle-dev/hackhub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// Register is idempotent: registering twice returns the existing row.
func (s *EventService) Register(ctx context.Context, eventID, profileID string) (*models.EventRegistration, error) {
	var registration models.EventRegistration

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := eventExists(tx, eventID); err != nil {
			return err
		}

		registration = models.EventRegistration{EventID: eventID, ProfileID: profileID}

		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&registration).Error; err != nil {
			return err
		}

		registration = models.EventRegistration{}
		return tx.Where("event_id = ? AND profile_id = ?", eventID, profileID).First(&registration).Error
	})

	if err != nil {
		return nil, fmt.Errorf("failed to register for event: %w", err)
	}

	return &registration, nil
}

// SubmitProject enters an owned project into an event.
func (s *EventService) SubmitProject(ctx context.Context, eventID, ownerID, projectID string) (*models.EventProject, error) {
	var submission models.EventProject

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := eventExists(tx, eventID); err != nil {
			return err
		}

		if _, err := ownedProject(tx, ownerID, projectID); err != nil {
			return err
		}

		submission = models.EventProject{EventID: eventID, ProjectID: projectID}

		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&submission).Error; err != nil {
			return err
		}

		submission = models.EventProject{}
		return tx.Where("event_id = ? AND project_id = ?", eventID, projectID).First(&submission).Error
	})

	if err != nil {
		return nil, fmt.Errorf("failed to submit project: %w", err)
	}

	return &submission, nil
}

func eventExists(tx *gorm.DB, eventID string) error {
	var event models.Event

	if err := tx.Select("id").Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	return nil
}
