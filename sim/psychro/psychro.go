// Package psychro is a small psychrometric function library for moist air.
// Temperatures are in °C, pressures in Pa, humidity ratios in kg water per kg
// dry air, relative humidity as a fraction in [0,1].
package psychro

import "math"

const (
	// StdPressure is standard barometric pressure at sea level [Pa].
	StdPressure = 101325.0
	// Kelvin offset.
	Kelvin = 273.15

	// ratio of molecular weights of water vapor and dry air
	mwRatio = 0.621945
)

// Hyland-Wexler saturation pressure coefficients (ASHRAE Fundamentals).
const (
	c1  = -5.6745359e3
	c2  = 6.3925247
	c3  = -9.677843e-3
	c4  = 6.2215701e-7
	c5  = 2.0747825e-9
	c6  = -9.484024e-13
	c7  = 4.1635019
	c8  = -5.8002206e3
	c9  = 1.3914993
	c10 = -4.8640239e-2
	c11 = 4.1764768e-5
	c12 = -1.4452093e-8
	c13 = 6.5459673
)

// SatPressure returns the saturation vapor pressure over ice (below 0 °C) or water.
func SatPressure(tdb float64) float64 {
	t := tdb + Kelvin
	var lnP float64
	if tdb < 0 {
		lnP = c1/t + c2 + c3*t + c4*t*t + c5*t*t*t + c6*t*t*t*t + c7*math.Log(t)
	} else {
		lnP = c8/t + c9 + c10*t + c11*t*t + c12*t*t*t + c13*math.Log(t)
	}
	return math.Exp(lnP)
}

// SatTemperature inverts SatPressure by bisection over [-100, 200] °C.
func SatTemperature(pw float64) float64 {
	if pw <= 0 {
		return -100
	}
	lo, hi := -100.0, 200.0
	for i := 0; i < 80; i++ {
		mid := (lo + hi) / 2
		if SatPressure(mid) < pw {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// VaporPressure returns the partial pressure of water vapor for humidity ratio w at pressure pb.
func VaporPressure(w, pb float64) float64 {
	w = math.Max(w, 0)
	return pb * w / (mwRatio + w)
}

// Dewpoint returns the dewpoint temperature for humidity ratio w at pressure pb.
func Dewpoint(w, pb float64) float64 {
	return SatTemperature(VaporPressure(w, pb))
}

// RelHumidity returns relative humidity in [0,1] for dry-bulb tdb and humidity ratio w.
func RelHumidity(tdb, w, pb float64) float64 {
	rh := VaporPressure(w, pb) / SatPressure(tdb)
	return math.Max(0, math.Min(1, rh))
}

// HumRatio returns the humidity ratio for dry-bulb tdb and relative humidity rh (fraction).
func HumRatio(tdb, rh, pb float64) float64 {
	pw := math.Max(0, math.Min(1, rh)) * SatPressure(tdb)
	if pw >= pb {
		return math.Inf(1)
	}
	return mwRatio * pw / (pb - pw)
}

// AirDensity returns moist-air density [kg/m3].
func AirDensity(pb, tdb, w float64) float64 {
	return pb / (287.0 * (tdb + Kelvin) * (1.0 + 1.6077687*math.Max(w, 1e-5)))
}

// AirSpecificHeat returns moist-air specific heat [J/kg-K].
func AirSpecificHeat(w float64) float64 {
	return 1.00484e3 + 1.85895e3*math.Max(w, 1e-5)
}
