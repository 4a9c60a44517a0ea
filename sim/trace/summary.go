package trace

import (
	"gonum.org/v1/gonum/floats"
)

// ZoneSummary holds one zone's statistics over a trace.
type ZoneSummary struct {
	Zone           string
	Steps          int
	PeakConvective float64
	MeanConvective float64
	PeakRadiant    float64
	MeanLatent     float64
	PeakITElectric float64
	MeanReturnTemp float64 // over steps that have one
}

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	Zones []ZoneSummary // in first-seen order
	// UnitOutOfRangeHours is the time each unit spent outside its envelope.
	UnitOutOfRangeHours map[string]float64
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{UnitOutOfRangeHours: make(map[string]float64)}
	if st == nil {
		return summary
	}

	var order []string
	series := make(map[string][]ZoneRecord)
	for _, r := range st.Zones {
		if _, ok := series[r.Zone]; !ok {
			order = append(order, r.Zone)
		}
		series[r.Zone] = append(series[r.Zone], r)
	}
	for _, name := range order {
		recs := series[name]
		conv := make([]float64, len(recs))
		rad := make([]float64, len(recs))
		lat := make([]float64, len(recs))
		ite := make([]float64, len(recs))
		var ret []float64
		for i, r := range recs {
			conv[i], rad[i], lat[i], ite[i] = r.Convective, r.Radiant, r.Latent, r.ITElectric
			if r.HasReturnTemp {
				ret = append(ret, r.ReturnTemp)
			}
		}
		zs := ZoneSummary{
			Zone:           name,
			Steps:          len(recs),
			PeakConvective: floats.Max(conv),
			MeanConvective: floats.Sum(conv) / float64(len(recs)),
			PeakRadiant:    floats.Max(rad),
			MeanLatent:     floats.Sum(lat) / float64(len(recs)),
			PeakITElectric: floats.Max(ite),
		}
		if len(ret) > 0 {
			zs.MeanReturnTemp = floats.Sum(ret) / float64(len(ret))
		}
		summary.Zones = append(summary.Zones, zs)
	}

	for _, u := range st.Units {
		if u.OutOfEnvelope {
			summary.UnitOutOfRangeHours[u.Unit] += st.StepHours
		} else if _, ok := summary.UnitOutOfRangeHours[u.Unit]; !ok {
			summary.UnitOutOfRangeHours[u.Unit] = 0
		}
	}
	return summary
}
