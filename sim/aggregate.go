package sim

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Aggregator answers the per-timestep gain queries of the zone heat balance,
// the radiant enclosure solver and the air-system return path. Queries read
// the registry slots as they are at call time: publishers must finish writing
// a timestep before anyone queries it.
type Aggregator struct {
	reg  *Registry
	topo *Topology
}

// NewAggregator wraps a frozen registry. Panics if the registry is still being built.
func NewAggregator(reg *Registry) *Aggregator {
	if !reg.Frozen() {
		panic("aggregator: registry must be frozen before it is queried")
	}
	return &Aggregator{reg: reg, topo: reg.topo}
}

// Registry returns the underlying registry.
func (a *Aggregator) Registry() *Registry { return a.reg }

func (a *Aggregator) sumSpace(space SpaceID, set CategorySet, ch Channel, node ReturnNodeID) float64 {
	sum := 0.0
	for _, i := range a.reg.bySpace[space] {
		src := &a.reg.sources[i]
		if !set.Contains(src.Category) {
			continue
		}
		if node != NoReturnNode && src.ReturnNode != node {
			continue
		}
		sum += a.reg.value(i, ch)
	}
	return sum
}

// SumBySpace sums ch over the sources of space whose category is in set.
func (a *Aggregator) SumBySpace(space SpaceID, set CategorySet, ch Channel) float64 {
	return a.sumSpace(a.topo.mustSpace(space), set, ch, NoReturnNode)
}

// SumByZone sums ch over every space of zone.
func (a *Aggregator) SumByZone(zone ZoneID, set CategorySet, ch Channel) float64 {
	sum := 0.0
	for _, s := range a.topo.zones[a.topo.mustZone(zone)].Spaces {
		sum += a.sumSpace(s, set, ch, NoReturnNode)
	}
	return sum
}

// SumByEnclosure sums the radiant channel over every space of enclosure.
func (a *Aggregator) SumByEnclosure(enclosure EnclosureID, set CategorySet) float64 {
	sum := 0.0
	for _, s := range a.topo.enclosures[a.topo.mustEnclosure(enclosure)].Spaces {
		sum += a.sumSpace(s, set, ChannelRadiant, NoReturnNode)
	}
	return sum
}

// SumReturnAirBySpace sums a return-air channel over space, limited to sources
// assigned to node. NoReturnNode sums across all return nodes.
func (a *Aggregator) SumReturnAirBySpace(space SpaceID, node ReturnNodeID, set CategorySet, ch Channel) float64 {
	mustReturnAir(ch)
	return a.sumSpace(a.topo.mustSpace(space), set, ch, node)
}

// SumReturnAirByZone is SumReturnAirBySpace over every space of zone.
func (a *Aggregator) SumReturnAirByZone(zone ZoneID, node ReturnNodeID, set CategorySet, ch Channel) float64 {
	mustReturnAir(ch)
	sum := 0.0
	for _, s := range a.topo.zones[a.topo.mustZone(zone)].Spaces {
		sum += a.sumSpace(s, set, ch, node)
	}
	return sum
}

func mustReturnAir(ch Channel) {
	if !ch.IsReturnAir() {
		panic(fmt.Sprintf("aggregator: %s is not a return-air channel", ch))
	}
}

// Breakdown returns the zone total of ch for each named category set, keyed by set name.
func (a *Aggregator) Breakdown(zone ZoneID, ch Channel) map[string]float64 {
	out := make(map[string]float64, len(NamedCategorySets))
	for _, named := range NamedCategorySets {
		out[named.Name] = a.SumByZone(zone, named.Set, ch)
	}
	return out
}

// ZoneTotals returns the zone sum of every channel over set, indexed by Channel.
func (a *Aggregator) ZoneTotals(zone ZoneID, set CategorySet) []float64 {
	totals := make([]float64, NumChannels)
	for c := Channel(0); c < NumChannels; c++ {
		totals[c] = a.SumByZone(zone, set, c)
	}
	return totals
}

// BuildingTotal sums ch over set across every zone.
func (a *Aggregator) BuildingTotal(set CategorySet, ch Channel) float64 {
	perZone := make([]float64, a.topo.NumZones())
	for z := range perZone {
		perZone[z] = a.SumByZone(ZoneID(z), set, ch)
	}
	return floats.Sum(perZone)
}
