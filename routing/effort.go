package routing

import (
	"fmt"
	"math"
	"strings"
)

type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
)

// Policy constants for the calorie estimate. They are configuration values
// picked for the estimate, not measured physiology.
const (
	STAIRS_MULTIPLIER  = 1.5
	TIME_NORMALIZATION = 60.0
)

// Calories burned per step per kilogram of body weight, before normalization.
var baseRates = map[Intensity]float64{
	IntensityLow:      0.03,
	IntensityModerate: 0.045,
	IntensityHigh:     0.06,
}

// Intensities lists the supported levels from lightest to hardest.
func Intensities() []Intensity {
	return []Intensity{IntensityLow, IntensityModerate, IntensityHigh}
}

func ParseIntensity(s string) (Intensity, error) {
	i := Intensity(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := baseRates[i]; !ok {
		return "", fmt.Errorf("unknown intensity %q (want low, moderate or high)", s)
	}
	return i, nil
}

func (i Intensity) Valid() bool {
	_, ok := baseRates[i]
	return ok
}

// BaseRate returns the per-step coefficient for the level, or 0 for an
// unknown level.
func BaseRate(i Intensity) float64 {
	return baseRates[i]
}

// RateEntry is one row of the calorie rate table shown next to the route form.
type RateEntry struct {
	Intensity       Intensity `json:"intensity"`
	CaloriesPerStep float64   `json:"caloriesPerStep"`
}

func Rates() []RateEntry {
	rates := make([]RateEntry, 0, len(baseRates))
	for _, i := range Intensities() {
		rates = append(rates, RateEntry{Intensity: i, CaloriesPerStep: baseRates[i]})
	}
	return rates
}

// SegmentEnergy estimates calories for walking distance steps:
// distance * rate(intensity) * stairsFactor * bodyWeight / 60.
func SegmentEnergy(distance int, intensity Intensity, hasStairs bool, bodyWeight float64) float64 {
	factor := BaseRate(intensity)
	if hasStairs {
		factor *= STAIRS_MULTIPLIER
	}
	return float64(distance) * factor * bodyWeight / TIME_NORMALIZATION
}

func roundTo(value float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(value*p) / p
}
