package domain

import "errors"

// BMI expects height in centimeters and weight in kilograms.
func BMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	// Sanity checks to avoid garbage input
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, errors.New("height/weight out of plausible range")
	}

	h := heightCm / 100.0
	return weightKg / (h * h), nil
}

// BMICategory names the WHO band of bmi, in Spanish for the client view.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Bajo peso"
	case bmi < 25.0:
		return "Peso normal"
	case bmi < 30.0:
		return "Sobrepeso"
	case bmi < 35.0:
		return "Obesidad grado I"
	case bmi < 40.0:
		return "Obesidad grado II"
	default:
		return "Obesidad grado III"
	}
}
