package utils

import "time"

// CalculateAge returns full years elapsed since birth.
func CalculateAge(birth time.Time) int {
	now := time.Now()
	age := now.Year() - birth.Year()
	if now.YearDay() < birth.YearDay() {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
