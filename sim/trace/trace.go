package trace

// TraceLevel controls how much is recorded per timestep.
type TraceLevel string

const (
	// TraceLevelNone disables recording.
	TraceLevelNone TraceLevel = "none"
	// TraceLevelZones records one ZoneRecord per zone per step.
	TraceLevelZones TraceLevel = "zones"
	// TraceLevelUnits adds one UnitRecord per IT equipment unit per step.
	TraceLevelUnits TraceLevel = "units"
)

var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:  true,
	TraceLevelZones: true,
	TraceLevelUnits: true,
	"":              true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// SimulationTrace collects records during a run.
type SimulationTrace struct {
	Level     TraceLevel
	StepHours float64
	Zones     []ZoneRecord
	Units     []UnitRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(level TraceLevel, stepHours float64) *SimulationTrace {
	return &SimulationTrace{
		Level:     level,
		StepHours: stepHours,
		Zones:     make([]ZoneRecord, 0),
		Units:     make([]UnitRecord, 0),
	}
}

// Enabled reports whether zone records are kept.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && (st.Level == TraceLevelZones || st.Level == TraceLevelUnits)
}

// RecordZone appends a zone record.
func (st *SimulationTrace) RecordZone(record ZoneRecord) {
	st.Zones = append(st.Zones, record)
}

// RecordUnit appends a unit record. It is a no-op below TraceLevelUnits.
func (st *SimulationTrace) RecordUnit(record UnitRecord) {
	if st.Level != TraceLevelUnits {
		return
	}
	st.Units = append(st.Units, record)
}
