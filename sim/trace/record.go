// Package trace records per-timestep zone gain totals for later analysis.
// It stores plain data and has no dependency on the simulation packages.
package trace

// ZoneRecord is one zone's gains at the end of one timestep, in W.
type ZoneRecord struct {
	Step            int
	Hours           float64 // simulation time at the start of the step
	Zone            string
	Convective      float64
	Radiant         float64
	Latent          float64
	ReturnAirConv   float64
	ReturnAirLatent float64
	CO2             float64 // m3/s
	ITElectric      float64 // CPU, fans and UPS losses of the zone's IT equipment
	// ReturnTemp is the IT-adjusted return-air temperature [°C]; meaningful
	// only when HasReturnTemp is set.
	ReturnTemp    float64
	HasReturnTemp bool
}

// UnitRecord is one IT equipment unit's state at the end of one timestep.
type UnitRecord struct {
	Step          int
	Unit          string
	InletDryBulb  float64
	OutletDryBulb float64
	ElectricPower float64
	OutOfEnvelope bool
}
