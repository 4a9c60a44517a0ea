package trace

import (
	"testing"
)

func TestSimulationTrace_RecordZone_AppendsRecord(t *testing.T) {
	// GIVEN a trace recording zones
	st := NewSimulationTrace(TraceLevelZones, 0.25)

	// WHEN a zone record is recorded
	st.RecordZone(ZoneRecord{Step: 3, Hours: 0.75, Zone: "DC", Convective: 11000})

	// THEN the trace contains it
	if len(st.Zones) != 1 {
		t.Fatalf("expected 1 zone record, got %d", len(st.Zones))
	}
	if st.Zones[0].Zone != "DC" || st.Zones[0].Convective != 11000 {
		t.Errorf("unexpected record %+v", st.Zones[0])
	}
}

func TestSimulationTrace_RecordUnit_OnlyAtUnitLevel(t *testing.T) {
	zones := NewSimulationTrace(TraceLevelZones, 1)
	units := NewSimulationTrace(TraceLevelUnits, 1)

	zones.RecordUnit(UnitRecord{Unit: "rack"})
	units.RecordUnit(UnitRecord{Unit: "rack"})

	if len(zones.Units) != 0 {
		t.Errorf("zone-level trace kept %d unit records", len(zones.Units))
	}
	if len(units.Units) != 1 {
		t.Errorf("expected 1 unit record, got %d", len(units.Units))
	}
}

func TestSimulationTrace_Enabled(t *testing.T) {
	var nilTrace *SimulationTrace
	if nilTrace.Enabled() {
		t.Error("nil trace must be disabled")
	}
	if NewSimulationTrace(TraceLevelNone, 1).Enabled() {
		t.Error("none level must be disabled")
	}
	if !NewSimulationTrace(TraceLevelUnits, 1).Enabled() {
		t.Error("units level must record zones")
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	for _, level := range []string{"", "none", "zones", "units"} {
		if !IsValidTraceLevel(level) {
			t.Errorf("expected %q to be valid", level)
		}
	}
	if IsValidTraceLevel("decisions") {
		t.Error("expected decisions to be invalid")
	}
}
