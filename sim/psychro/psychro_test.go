package psychro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSatPressure_KnownPoints(t *testing.T) {
	// ASHRAE table values: 20 °C -> 2339 Pa, 0.01 °C triple point ~611.7 Pa
	assert.InDelta(t, 2339.0, SatPressure(20), 3)
	assert.InDelta(t, 611.7, SatPressure(0.01), 1)
	assert.InDelta(t, 101418, SatPressure(100), 300)
}

func TestSatTemperature_InvertsSatPressure(t *testing.T) {
	for _, tdb := range []float64{-20, -1, 5, 21.3, 45} {
		assert.InDelta(t, tdb, SatTemperature(SatPressure(tdb)), 1e-6)
	}
}

func TestDewpoint_SaturatedAirEqualsDryBulb(t *testing.T) {
	w := HumRatio(24, 1.0, StdPressure)
	assert.InDelta(t, 24.0, Dewpoint(w, StdPressure), 1e-6)
	assert.InDelta(t, 1.0, RelHumidity(24, w, StdPressure), 1e-9)
}

func TestRelHumidity_RoundTrip(t *testing.T) {
	w := HumRatio(27, 0.45, StdPressure)
	assert.InDelta(t, 0.45, RelHumidity(27, w, StdPressure), 1e-9)
	assert.Less(t, Dewpoint(w, StdPressure), 27.0)
}

func TestAirDensity_StandardConditions(t *testing.T) {
	// dry air at 20 °C, 101325 Pa is about 1.204 kg/m3
	assert.InDelta(t, 1.204, AirDensity(StdPressure, 20, 0), 0.002)
}

func TestAirSpecificHeat_IncreasesWithMoisture(t *testing.T) {
	assert.Greater(t, AirSpecificHeat(0.01), AirSpecificHeat(0.0))
	assert.InDelta(t, 1023.4, AirSpecificHeat(0.01), 0.1)
}
