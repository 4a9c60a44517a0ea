package sim

import (
	"fmt"
	"sort"
)

// GainSource is one registered contributor: one configured object instance
// attributed to one space and one category.
type GainSource struct {
	Name       string
	Category   Category
	Space      SpaceID
	Share      float64 // applied uniformly to every channel
	Bindings   ChannelMask
	ReturnNode ReturnNodeID
}

// Registry is the per-space list of gain sources plus the slots their
// channel values live in. It is append-only until Freeze and immutable in
// length and identity afterwards; only slot values change during a run.
type Registry struct {
	topo    *Topology
	sources []GainSource
	values  []float64 // NumChannels slots per source, owned here, written through Handles
	bySpace [][]int
	keys    map[sourceKey]struct{}
	frozen  bool
}

type sourceKey struct {
	space    SpaceID
	category Category
	name     string
}

// NewRegistry creates an empty registry over topo.
func NewRegistry(topo *Topology) *Registry {
	return &Registry{
		topo:    topo,
		bySpace: make([][]int, topo.NumSpaces()),
		keys:    make(map[sourceKey]struct{}),
	}
}

// Handle is a publisher's write access to the slots of one registered source.
type Handle struct {
	reg *Registry
	idx int
}

// Register adds a gain source during model build.
// returnNode may be NoReturnNode; sources that bind a return-air channel
// without an affinity adopt their zone's first return node at Freeze.
func (r *Registry) Register(space SpaceID, category Category, name string, bindings ChannelMask,
	share float64, returnNode ReturnNodeID) (Handle, error) {
	if r.frozen {
		return Handle{}, NewConfigError(ErrCodeRegistryFrozen, name, "cannot register gain sources after build")
	}
	if !r.topo.ValidSpace(space) {
		return Handle{}, NewConfigError(ErrCodeInvalidSpace, name, "unknown space %d", space)
	}
	if !category.Valid() {
		return Handle{}, NewConfigError(ErrCodeInvalidValue, name, "unknown category %d", category)
	}
	if !(share > 0 && share <= 1) {
		return Handle{}, NewConfigError(ErrCodeInvalidValue, name, "space share fraction must be in (0,1], got %g", share)
	}
	if returnNode != NoReturnNode {
		if !r.topo.ValidReturnNode(returnNode) {
			return Handle{}, NewConfigError(ErrCodeInvalidValue, name, "unknown return node %d", returnNode)
		}
		if r.topo.ReturnNode(returnNode).Zone != r.topo.Space(space).Zone {
			return Handle{}, NewConfigError(ErrCodeInvalidValue, name,
				"return node %q does not belong to the zone of space %q",
				r.topo.ReturnNode(returnNode).Name, r.topo.Space(space).Name)
		}
	}
	key := sourceKey{space: space, category: category, name: name}
	if _, dup := r.keys[key]; dup {
		return Handle{}, NewConfigError(ErrCodeDuplicateSource, name,
			"duplicate %s source in space %q", category, r.topo.Space(space).Name)
	}
	r.keys[key] = struct{}{}

	idx := len(r.sources)
	r.sources = append(r.sources, GainSource{
		Name:       name,
		Category:   category,
		Space:      space,
		Share:      share,
		Bindings:   bindings,
		ReturnNode: returnNode,
	})
	r.values = append(r.values, make([]float64, NumChannels)...)
	r.bySpace[space] = append(r.bySpace[space], idx)
	return Handle{reg: r, idx: idx}, nil
}

// Freeze ends the build phase. Each space's sources are put in canonical
// (category, name) order so sums do not depend on registration order.
func (r *Registry) Freeze() {
	if r.frozen {
		return
	}
	for i := range r.sources {
		src := &r.sources[i]
		if src.ReturnNode == NoReturnNode && src.Bindings.HasReturnAir() {
			nodes := r.topo.Zone(r.topo.Space(src.Space).Zone).ReturnNodes
			if len(nodes) > 0 {
				src.ReturnNode = nodes[0]
			}
		}
	}
	for _, list := range r.bySpace {
		sort.Slice(list, func(a, b int) bool {
			sa, sb := r.sources[list[a]], r.sources[list[b]]
			if sa.Category != sb.Category {
				return sa.Category < sb.Category
			}
			return sa.Name < sb.Name
		})
	}
	r.frozen = true
}

// Frozen reports whether the build phase has ended.
func (r *Registry) Frozen() bool { return r.frozen }

// Topology returns the topology the registry was built over.
func (r *Registry) Topology() *Topology { return r.topo }

// Len returns the number of registered sources.
func (r *Registry) Len() int { return len(r.sources) }

// Source returns the record for the i-th registered source.
func (r *Registry) Source(i int) GainSource { return r.sources[i] }

// SpaceSources returns the registry indices of the sources in space, in canonical order once frozen.
func (r *Registry) SpaceSources(space SpaceID) []int {
	return append([]int(nil), r.bySpace[r.topo.mustSpace(space)]...)
}

// value returns the share-scaled value of channel ch for source i.
func (r *Registry) value(i int, ch Channel) float64 {
	return r.values[i*int(NumChannels)+int(ch)] * r.sources[i].Share
}

// Publish sets this timestep's value of ch. Writes to channels the source
// did not bind are dropped, so unbound channels always read as zero.
func (h Handle) Publish(ch Channel, v float64) {
	src := h.reg.sources[h.idx]
	if !src.Bindings.Has(ch) {
		return
	}
	h.reg.values[h.idx*int(NumChannels)+int(ch)] = v
}

// Reset zeroes every slot of the source.
func (h Handle) Reset() {
	base := h.idx * int(NumChannels)
	for c := 0; c < int(NumChannels); c++ {
		h.reg.values[base+c] = 0
	}
}

// Value returns the unscaled value last published on ch.
func (h Handle) Value(ch Channel) float64 {
	return h.reg.values[h.idx*int(NumChannels)+int(ch)]
}

// Source returns the registered record behind the handle.
func (h Handle) Source() GainSource { return h.reg.sources[h.idx] }

// Index returns the source's registry index.
func (h Handle) Index() int { return h.idx }

// Valid reports whether the handle was issued by a registry.
func (h Handle) Valid() bool { return h.reg != nil }

func (h Handle) String() string {
	if h.reg == nil {
		return "handle(<nil>)"
	}
	s := h.reg.sources[h.idx]
	return fmt.Sprintf("%s/%s@%s", s.Category, s.Name, h.reg.topo.Space(s.Space).Name)
}
