package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/walpass/health-tracker-app/models"

	"gorm.io/gorm"
)

// TrendSeries is chart-ready data for one metric: date-ascending points
// plus an optional target line. Rendering stays on the client; series with
// fewer than two points are flagged as not plottable instead of producing
// a one-point line.
type TrendSeries struct {
	Metric    string       `json:"metric"`
	Points    []TrendPoint `json:"points"`
	Target    *float64     `json:"target,omitempty"`
	Plottable bool         `json:"plottable"`
}

type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type TrendService struct {
	db *gorm.DB
}

func NewTrendService(db *gorm.DB) *TrendService {
	return &TrendService{db: db}
}

// WeightTrend returns the weight series of a user with their target weight
// as the reference line.
func (s *TrendService) WeightTrend(ctx context.Context, userID uint) (*TrendSeries, error) {
	user, records, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	series := TrendSeries{Metric: "weight"}
	for _, r := range records {
		series.Points = append(series.Points, TrendPoint{Date: r.Date.Format(dateLayout), Value: r.Weight})
	}
	if user.TargetWeight != nil && *user.TargetWeight > 0 {
		series.Target = user.TargetWeight
	}
	series.Plottable = len(series.Points) >= 2
	return &series, nil
}

// BMITrend returns the BMI series of a user. Records without a stored BMI
// (no height at save time) are skipped; the target line is the derived
// target BMI when one is on file.
func (s *TrendService) BMITrend(ctx context.Context, userID uint) (*TrendSeries, error) {
	user, records, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	series := TrendSeries{Metric: "bmi"}
	for _, r := range records {
		if r.BMI == nil {
			continue
		}
		series.Points = append(series.Points, TrendPoint{Date: r.Date.Format(dateLayout), Value: *r.BMI})
	}
	series.Target = user.TargetBMI
	series.Plottable = len(series.Points) >= 2
	return &series, nil
}

func (s *TrendService) load(ctx context.Context, userID uint) (*models.User, []models.HealthRecord, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: user %d", models.ErrNotFound, userID)
		}
		return nil, nil, storageErr(err)
	}

	var records []models.HealthRecord
	err := db.
		Where("user_id = ?", userID).
		Order("date ASC").Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, nil, storageErr(err)
	}
	return &user, records, nil
}
