package utils

import (
	"errors"
	"math"
)

// Round2 rounds to two decimals, half away from zero (math.Round). For the
// positive quantities involved this behaves as round-half-up, which is what
// shows up in boundary values like weight=70.555 at height=170.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculateBMI expects height in centimeters and weight in kilograms and
// returns the BMI rounded to two decimals.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("height and weight must be positive")
	}

	h := heightCm / 100.0 // to meters
	return Round2(weightKg / (h * h)), nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}
