package analytics

import (
	"math"

	"github.com/2beens/fittrack/internal/fitness"
)

// fallbacks used by BMR when the profile misses a field
const (
	defaultWeightKg = 70
	defaultHeightCm = 170
	defaultAge      = 25
)

// BMI is weight(kg) / height(m)^2, rounded to one decimal.
// It is only defined when both weight and height are present.
func BMI(profile *fitness.Profile) (float64, bool) {
	if profile == nil || !profile.Weight.IsSet() || !profile.Height.IsSet() {
		return 0, false
	}
	heightM := profile.Height.Float() / 100
	bmi := profile.Weight.Float() / (heightM * heightM)
	return math.Round(bmi*10) / 10, true
}

// BMR estimates the basal metabolic rate with the Mifflin-St Jeor equation.
// Anything other than "Male" uses the female constant.
func BMR(profile *fitness.Profile) float64 {
	if profile == nil {
		return 0
	}

	weight := orDefault(profile.Weight, defaultWeightKg)
	height := orDefault(profile.Height, defaultHeightCm)
	age := orDefault(profile.Age, defaultAge)

	bmr := 10*weight + 6.25*height - 5*age
	if profile.Gender == "Male" {
		return bmr + 5
	}
	return bmr - 161
}

type Health struct {
	BMI        *float64 `json:"bmi"`
	BMR        float64  `json:"bmr"`
	BMRRounded int      `json:"bmrRounded"`
}

func HealthFor(profile *fitness.Profile) Health {
	bmr := BMR(profile)
	h := Health{
		BMR:        bmr,
		BMRRounded: int(math.Round(bmr)),
	}
	if bmi, ok := BMI(profile); ok {
		h.BMI = &bmi
	}
	return h
}

func orDefault(n fitness.Number, fallback float64) float64 {
	if n.IsSet() {
		return n.Float()
	}
	return fallback
}
