// Package schedule provides the time-series values that drive internal gains.
// A Source answers "what is the value now" for the clock owned by its Set,
// plus the minimum and maximum it can ever return (used for design-level
// bracketing at build time only).
package schedule

import (
	"fmt"
	"math"
	"sort"
)

// Source is a named time-varying scalar.
type Source interface {
	CurrentValue() float64
	MinValue() float64
	MaxValue() float64
}

// Clock holds the simulation time, in hours since the start of the run.
// Profiles read it on every CurrentValue call.
type Clock struct {
	hours float64
}

// Hours returns the elapsed simulation time in hours.
func (c *Clock) Hours() float64 { return c.hours }

// HourOfDay returns the hour-of-day index in [0,23].
func (c *Clock) HourOfDay() int {
	h := int(math.Floor(math.Mod(c.hours, 24)))
	if h < 0 {
		h += 24
	}
	return h
}

type constant float64

// Constant returns a Source that always reports v.
func Constant(v float64) Source { return constant(v) }

func (c constant) CurrentValue() float64 { return float64(c) }
func (c constant) MinValue() float64     { return float64(c) }
func (c constant) MaxValue() float64     { return float64(c) }

// DailyProfile repeats 24 hourly values every day.
type DailyProfile struct {
	clock  *Clock
	values [24]float64
	min    float64
	max    float64
}

// NewDailyProfile builds a profile bound to clock. Exactly 24 finite values are required.
func NewDailyProfile(clock *Clock, hourly []float64) (*DailyProfile, error) {
	if clock == nil {
		return nil, fmt.Errorf("daily profile: nil clock")
	}
	if len(hourly) != 24 {
		return nil, fmt.Errorf("daily profile: need 24 hourly values, got %d", len(hourly))
	}
	p := &DailyProfile{clock: clock, min: math.Inf(1), max: math.Inf(-1)}
	for i, v := range hourly {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("daily profile: value[%d] must be finite, got %f", i, v)
		}
		p.values[i] = v
		p.min = math.Min(p.min, v)
		p.max = math.Max(p.max, v)
	}
	return p, nil
}

func (p *DailyProfile) CurrentValue() float64 { return p.values[p.clock.HourOfDay()] }
func (p *DailyProfile) MinValue() float64     { return p.min }
func (p *DailyProfile) MaxValue() float64     { return p.max }

// Set is the named-schedule table for one simulation run. It owns the clock
// every profile in it reads.
type Set struct {
	clock   Clock
	sources map[string]Source
}

// NewSet creates an empty schedule table with the clock at zero.
func NewSet() *Set {
	return &Set{sources: make(map[string]Source)}
}

// Clock exposes the shared clock so profiles can be bound to it.
func (s *Set) Clock() *Clock { return &s.clock }

// SetTime moves the shared clock to hours since the start of the run.
func (s *Set) SetTime(hours float64) { s.clock.hours = hours }

// Add registers src under name. Names are unique.
func (s *Set) Add(name string, src Source) error {
	if name == "" {
		return fmt.Errorf("schedule name must not be empty")
	}
	if _, exists := s.sources[name]; exists {
		return fmt.Errorf("duplicate schedule %q", name)
	}
	s.sources[name] = src
	return nil
}

// Lookup returns the schedule registered under name.
func (s *Set) Lookup(name string) (Source, error) {
	src, ok := s.sources[name]
	if !ok {
		return nil, fmt.Errorf("schedule %q not found (available: %v)", name, s.Names())
	}
	return src, nil
}

// Names returns the registered schedule names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.sources))
	for k := range s.sources {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
