package services

import (
	"fmt"
	"time"

	"github.com/walpass/health-tracker-app/models"
)

const dateLayout = "2006-01-02"

// storageErr tags an unexpected database error so callers can treat every
// storage failure uniformly via models.ErrPersistence.
func storageErr(err error) error {
	return fmt.Errorf("%w: %v", models.ErrPersistence, err)
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", models.ErrValidation)
	}
	return d, nil
}
