package sim

import "fmt"

// ZoneID, SpaceID, EnclosureID and ReturnNodeID index the model's topology tables.
type (
	ZoneID       int
	SpaceID      int
	EnclosureID  int
	ReturnNodeID int
)

// NoReturnNode selects every return node of a scope, or marks a source
// without return-node affinity.
const NoReturnNode ReturnNodeID = -1

// Zone is a thermally lumped volume made of one or more spaces.
type Zone struct {
	Name        string
	Spaces      []SpaceID
	ReturnNodes []ReturnNodeID
	FloorArea   float64
	// WindowReturnAir marks zones whose airflow windows exhaust to the return path.
	WindowReturnAir bool
}

// Space is a sub-division of a zone; every gain source lives in exactly one.
type Space struct {
	Name      string
	Zone      ZoneID
	Enclosure EnclosureID
	FloorArea float64
}

// Enclosure groups spaces that share one radiant exchange solve. It may span
// zones joined by air boundaries.
type Enclosure struct {
	Name   string
	Spaces []SpaceID
}

// ReturnNode is a zone return-air outlet.
type ReturnNode struct {
	Name string
	Zone ZoneID
}

// Topology holds the zones, spaces, enclosures and return nodes of a model.
// It is built before any gain source is registered and never changes after.
type Topology struct {
	zones       []Zone
	spaces      []Space
	enclosures  []Enclosure
	returnNodes []ReturnNode

	zoneByName      map[string]ZoneID
	spaceByName     map[string]SpaceID
	enclosureByName map[string]EnclosureID
	nodeByName      map[string]ReturnNodeID
}

// NewTopology creates an empty topology.
func NewTopology() *Topology {
	return &Topology{
		zoneByName:      make(map[string]ZoneID),
		spaceByName:     make(map[string]SpaceID),
		enclosureByName: make(map[string]EnclosureID),
		nodeByName:      make(map[string]ReturnNodeID),
	}
}

// AddZone appends a zone. Names are unique.
func (t *Topology) AddZone(name string) (ZoneID, error) {
	if _, exists := t.zoneByName[name]; exists || name == "" {
		return 0, NewConfigError(ErrCodeInvalidZone, name, "zone name must be unique and non-empty")
	}
	id := ZoneID(len(t.zones))
	t.zones = append(t.zones, Zone{Name: name})
	t.zoneByName[name] = id
	return id, nil
}

// AddEnclosure appends a radiant enclosure. Names are unique.
func (t *Topology) AddEnclosure(name string) (EnclosureID, error) {
	if _, exists := t.enclosureByName[name]; exists || name == "" {
		return 0, NewConfigError(ErrCodeInvalidValue, name, "enclosure name must be unique and non-empty")
	}
	id := EnclosureID(len(t.enclosures))
	t.enclosures = append(t.enclosures, Enclosure{Name: name})
	t.enclosureByName[name] = id
	return id, nil
}

// AddSpace appends a space to zone and enclosure. Floor area must be positive.
func (t *Topology) AddSpace(name string, zone ZoneID, enclosure EnclosureID, floorArea float64) (SpaceID, error) {
	if _, exists := t.spaceByName[name]; exists || name == "" {
		return 0, NewConfigError(ErrCodeInvalidSpace, name, "space name must be unique and non-empty")
	}
	if !t.validZone(zone) {
		return 0, NewConfigError(ErrCodeInvalidZone, name, "space refers to unknown zone %d", zone)
	}
	if int(enclosure) < 0 || int(enclosure) >= len(t.enclosures) {
		return 0, NewConfigError(ErrCodeInvalidValue, name, "space refers to unknown enclosure %d", enclosure)
	}
	if !(floorArea > 0) {
		return 0, NewConfigError(ErrCodeInvalidValue, name, "floor area must be positive, got %g", floorArea)
	}
	id := SpaceID(len(t.spaces))
	t.spaces = append(t.spaces, Space{Name: name, Zone: zone, Enclosure: enclosure, FloorArea: floorArea})
	t.spaceByName[name] = id
	z := &t.zones[zone]
	z.Spaces = append(z.Spaces, id)
	z.FloorArea += floorArea
	e := &t.enclosures[enclosure]
	e.Spaces = append(e.Spaces, id)
	return id, nil
}

// AddReturnNode appends a return-air node to zone.
func (t *Topology) AddReturnNode(name string, zone ZoneID) (ReturnNodeID, error) {
	if _, exists := t.nodeByName[name]; exists || name == "" {
		return 0, NewConfigError(ErrCodeInvalidValue, name, "return node name must be unique and non-empty")
	}
	if !t.validZone(zone) {
		return 0, NewConfigError(ErrCodeInvalidZone, name, "return node refers to unknown zone %d", zone)
	}
	id := ReturnNodeID(len(t.returnNodes))
	t.returnNodes = append(t.returnNodes, ReturnNode{Name: name, Zone: zone})
	t.nodeByName[name] = id
	t.zones[zone].ReturnNodes = append(t.zones[zone].ReturnNodes, id)
	return id, nil
}

// SetWindowReturnAir flags zone as receiving airflow-window return air.
func (t *Topology) SetWindowReturnAir(zone ZoneID, on bool) {
	t.zones[t.mustZone(zone)].WindowReturnAir = on
}

func (t *Topology) validZone(z ZoneID) bool { return int(z) >= 0 && int(z) < len(t.zones) }

// ValidSpace reports whether s names a space of this topology.
func (t *Topology) ValidSpace(s SpaceID) bool { return int(s) >= 0 && int(s) < len(t.spaces) }

// ValidReturnNode reports whether n names a return node of this topology.
func (t *Topology) ValidReturnNode(n ReturnNodeID) bool {
	return int(n) >= 0 && int(n) < len(t.returnNodes)
}

func (t *Topology) mustZone(z ZoneID) ZoneID {
	if !t.validZone(z) {
		panic(fmt.Sprintf("topology: zone id %d out of range [0,%d)", z, len(t.zones)))
	}
	return z
}

func (t *Topology) mustSpace(s SpaceID) SpaceID {
	if !t.ValidSpace(s) {
		panic(fmt.Sprintf("topology: space id %d out of range [0,%d)", s, len(t.spaces)))
	}
	return s
}

func (t *Topology) mustEnclosure(e EnclosureID) EnclosureID {
	if int(e) < 0 || int(e) >= len(t.enclosures) {
		panic(fmt.Sprintf("topology: enclosure id %d out of range [0,%d)", e, len(t.enclosures)))
	}
	return e
}

// Zone returns zone z. Panics on an out-of-range id.
func (t *Topology) Zone(z ZoneID) Zone { return t.zones[t.mustZone(z)] }

// Space returns space s. Panics on an out-of-range id.
func (t *Topology) Space(s SpaceID) Space { return t.spaces[t.mustSpace(s)] }

// Enclosure returns enclosure e. Panics on an out-of-range id.
func (t *Topology) Enclosure(e EnclosureID) Enclosure { return t.enclosures[t.mustEnclosure(e)] }

// ReturnNode returns return node n. Panics on an out-of-range id.
func (t *Topology) ReturnNode(n ReturnNodeID) ReturnNode {
	if !t.ValidReturnNode(n) {
		panic(fmt.Sprintf("topology: return node id %d out of range [0,%d)", n, len(t.returnNodes)))
	}
	return t.returnNodes[n]
}

func (t *Topology) NumZones() int      { return len(t.zones) }
func (t *Topology) NumSpaces() int     { return len(t.spaces) }
func (t *Topology) NumEnclosures() int { return len(t.enclosures) }

// ZoneByName looks a zone up by name.
func (t *Topology) ZoneByName(name string) (ZoneID, bool) {
	id, ok := t.zoneByName[name]
	return id, ok
}

// SpaceByName looks a space up by name.
func (t *Topology) SpaceByName(name string) (SpaceID, bool) {
	id, ok := t.spaceByName[name]
	return id, ok
}

// EnclosureByName looks an enclosure up by name.
func (t *Topology) EnclosureByName(name string) (EnclosureID, bool) {
	id, ok := t.enclosureByName[name]
	return id, ok
}

// ReturnNodeByName looks a return node up by name.
func (t *Topology) ReturnNodeByName(name string) (ReturnNodeID, bool) {
	id, ok := t.nodeByName[name]
	return id, ok
}

// AreaShares returns each space of zone with its share of the zone floor area.
// Shares sum to 1.
func (t *Topology) AreaShares(zone ZoneID) ([]SpaceID, []float64) {
	z := t.zones[t.mustZone(zone)]
	shares := make([]float64, len(z.Spaces))
	for i, s := range z.Spaces {
		shares[i] = t.spaces[s].FloorArea / z.FloorArea
	}
	return append([]SpaceID(nil), z.Spaces...), shares
}
