package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentEnergyReferenceValue(t *testing.T) {
	// 100 * 0.06 * 1.0 * 70 / 60
	assert.InDelta(t, 7.0, SegmentEnergy(100, IntensityHigh, false, 70), 1e-9)
}

func TestBaseRates(t *testing.T) {
	assert.Equal(t, 0.03, BaseRate(IntensityLow))
	assert.Equal(t, 0.045, BaseRate(IntensityModerate))
	assert.Equal(t, 0.06, BaseRate(IntensityHigh))
	assert.Equal(t, 0.0, BaseRate("sprint"))
}

func TestSegmentEnergyStairsMultiplier(t *testing.T) {
	for _, i := range Intensities() {
		flat := SegmentEnergy(80, i, false, 65)
		stairs := SegmentEnergy(80, i, true, 65)
		assert.InDelta(t, flat*1.5, stairs, 1e-9, string(i))
	}
}

func TestSegmentEnergyIsLinear(t *testing.T) {
	base := SegmentEnergy(50, IntensityModerate, true, 60)
	assert.InDelta(t, base*2, SegmentEnergy(100, IntensityModerate, true, 60), 1e-9)
	assert.InDelta(t, base*3, SegmentEnergy(50, IntensityModerate, true, 180), 1e-9)
	assert.Equal(t, 0.0, SegmentEnergy(0, IntensityModerate, true, 60))
}

func TestParseIntensity(t *testing.T) {
	i, err := ParseIntensity(" High ")
	require.NoError(t, err)
	assert.Equal(t, IntensityHigh, i)

	_, err = ParseIntensity("extreme")
	assert.Error(t, err)

	_, err = ParseIntensity("")
	assert.Error(t, err)
}

func TestRatesTable(t *testing.T) {
	assert.Equal(t, []RateEntry{
		{Intensity: IntensityLow, CaloriesPerStep: 0.03},
		{Intensity: IntensityModerate, CaloriesPerStep: 0.045},
		{Intensity: IntensityHigh, CaloriesPerStep: 0.06},
	}, Rates())
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 1.23, roundTo(1.234, 2))
	assert.Equal(t, 1.24, roundTo(1.235001, 2))
	assert.Equal(t, 7.0, roundTo(7.0000000001, 2))
}
