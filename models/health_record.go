package models

import (
	"time"

	"gorm.io/gorm"
)

// HealthRecord is one dated body measurement. BMI is denormalised: it is
// set from (Weight, Height) every time the record is saved and is nil when
// no height was supplied.
type HealthRecord struct {
	gorm.Model
	UserID uint      `gorm:"not null;index" json:"user_id"`
	Date   time.Time `gorm:"not null" json:"date"`
	Weight float64   `gorm:"not null" json:"weight"` // kg
	Height *float64  `json:"height,omitempty"`       // cm
	BMI    *float64  `json:"bmi,omitempty"`
	Notes  string    `json:"notes,omitempty"`
}
