// Package sim is the internal-gains core: the zone topology, the registry
// of heat and contaminant sources, and the aggregation engine that sums
// them per space, zone, enclosure and return-air node.
//
// # Reading Guide
//
// Start with these files:
//   - topology.go: zones, spaces, radiant enclosures and return-air nodes
//   - registry.go: source registration, the value arena and Handle writes
//   - aggregate.go: sums over category sets and channels
//
// # Architecture
//
// The sim package owns the data model; producers and consumers live in
// sub-packages:
//   - sim/schedule/, sim/curve/, sim/psychro/: inputs shared by every model
//   - sim/loads/: people, lighting, equipment and external gain publishers
//   - sim/itequip/: IT equipment thermal model and zone return-air blend
//   - sim/building/: YAML model loading, build and the timestep loop
//   - sim/trace/: per-step zone records and summaries
//
// Producers register during build and publish through a Handle each
// timestep. Freeze ends the build; after it the registry is read-only except
// for published values, and every sum is taken in a canonical source order.
package sim
