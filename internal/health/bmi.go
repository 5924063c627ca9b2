package health

import (
	"errors"
	"math"
)

var ErrInvalidBMIInput = errors.New("height and weight must be positive")

type BMICategory string

const (
	BMIUnderweight BMICategory = "underweight"
	BMINormal      BMICategory = "normal"
	BMIOverweight  BMICategory = "overweight"
	BMIObese       BMICategory = "obese"
)

// BMI returns weight / (height in meters)^2.
func BMI(weightKg, heightCm float64) (float64, error) {
	if weightKg <= 0 || heightCm <= 0 || math.IsNaN(weightKg) || math.IsNaN(heightCm) {
		return 0, ErrInvalidBMIInput
	}
	heightM := heightCm / 100
	return weightKg / (heightM * heightM), nil
}

func CategoryOf(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}
