package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/walpass/health-tracker-app/models"
	"github.com/walpass/health-tracker-app/utils"

	"gorm.io/gorm"
)

// RecordInput carries the fields of a new measurement. Height and Notes are
// optional; Date is a YYYY-MM-DD string as submitted by the client.
type RecordInput struct {
	Date   string
	Weight float64
	Height *float64
	Notes  *string
}

// RecordUpdate enumerates which fields an edit supplied. A nil pointer
// means "leave unchanged"; HeightSet distinguishes clearing the height
// (HeightSet true, Height nil) from not touching it.
type RecordUpdate struct {
	Date      *string
	Weight    *float64
	Height    *float64
	HeightSet bool
	Notes     *string
}

type RecordService struct {
	db  *gorm.DB
	hub *RealtimeHub
}

// NewRecordService wires a record service. hub may be nil when no realtime
// fan-out is wanted (tests).
func NewRecordService(db *gorm.DB, hub *RealtimeHub) *RecordService {
	return &RecordService{db: db, hub: hub}
}

// SortOrder for record listings.
type SortOrder string

const (
	OrderDateDesc SortOrder = "desc"
	OrderDateAsc  SortOrder = "asc"
)

// Create validates and persists a new measurement for owner, computing the
// BMI when a height is present.
func (s *RecordService) Create(ctx context.Context, ownerID uint, input RecordInput) (*models.HealthRecord, error) {
	date, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	if input.Weight <= 0 {
		return nil, fmt.Errorf("%w: weight must be greater than zero", models.ErrValidation)
	}
	if input.Height != nil && *input.Height <= 0 {
		return nil, fmt.Errorf("%w: height must be greater than zero", models.ErrValidation)
	}

	rec := models.HealthRecord{
		UserID: ownerID,
		Date:   date,
		Weight: input.Weight,
		Height: input.Height,
	}
	if input.Notes != nil {
		rec.Notes = *input.Notes
	}
	refreshBMI(&rec)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ownerID, RecordEvent{Action: "created", RecordID: rec.ID, Record: &rec})
	return &rec, nil
}

// Update applies the supplied fields to a record owned by editor and
// recomputes the BMI. Editing someone else's record fails before any
// mutation happens.
func (s *RecordService) Update(ctx context.Context, recordID, editorID uint, input RecordUpdate) (*models.HealthRecord, error) {
	var rec models.HealthRecord

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, recordID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: record %d", models.ErrNotFound, recordID)
			}
			return storageErr(err)
		}
		if rec.UserID != editorID {
			return fmt.Errorf("%w: record belongs to another user", models.ErrUnauthorized)
		}

		if input.Date != nil {
			date, err := parseDate(*input.Date)
			if err != nil {
				return err
			}
			rec.Date = date
		}
		if input.Weight != nil {
			if *input.Weight <= 0 {
				return fmt.Errorf("%w: weight must be greater than zero", models.ErrValidation)
			}
			rec.Weight = *input.Weight
		}
		if input.HeightSet {
			if input.Height != nil && *input.Height <= 0 {
				return fmt.Errorf("%w: height must be greater than zero", models.ErrValidation)
			}
			rec.Height = input.Height
		}
		if input.Notes != nil {
			rec.Notes = strings.TrimSpace(*input.Notes)
		}
		refreshBMI(&rec)

		if err := tx.Save(&rec).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(editorID, RecordEvent{Action: "updated", RecordID: rec.ID, Record: &rec})
	return &rec, nil
}

// Delete removes a record owned by requester.
func (s *RecordService) Delete(ctx context.Context, recordID, requesterID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec models.HealthRecord
		if err := tx.First(&rec, recordID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: record %d", models.ErrNotFound, recordID)
			}
			return storageErr(err)
		}
		if rec.UserID != requesterID {
			return fmt.Errorf("%w: record belongs to another user", models.ErrUnauthorized)
		}
		if err := tx.Delete(&rec).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(requesterID, RecordEvent{Action: "deleted", RecordID: recordID})
	return nil
}

// List returns every record of owner ordered by date.
func (s *RecordService) List(ctx context.Context, ownerID uint, order SortOrder) ([]models.HealthRecord, error) {
	dir := "DESC"
	if order == OrderDateAsc {
		dir = "ASC"
	}

	var records []models.HealthRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("date " + dir).Order("id " + dir).
		Find(&records).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return records, nil
}

func (s *RecordService) publish(userID uint, ev RecordEvent) {
	if s.hub != nil {
		s.hub.PublishRecordEvent(userID, ev)
	}
}

// refreshBMI recomputes the denormalised BMI from the current weight and
// height. No height means no BMI.
func refreshBMI(rec *models.HealthRecord) {
	if rec.Height != nil {
		if bmi, err := utils.CalculateBMI(*rec.Height, rec.Weight); err == nil {
			rec.BMI = &bmi
			return
		}
	}
	rec.BMI = nil
}
