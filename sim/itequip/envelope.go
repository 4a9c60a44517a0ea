package itequip

import (
	"fmt"
	"strings"
)

// Class is an ASHRAE environmental class for air-cooled IT equipment.
type Class int

const (
	ClassNone Class = iota
	ClassA1
	ClassA2
	ClassA3
	ClassA4
	ClassB
	ClassC
	ClassH1

	numClasses
)

var classNames = [numClasses]string{"none", "a1", "a2", "a3", "a4", "b", "c", "h1"}

func (c Class) String() string {
	if c >= 0 && c < numClasses {
		return strings.ToUpper(classNames[c])
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// ParseClass maps a configuration name ("A1", "none", ...) to its Class.
func ParseClass(name string) (Class, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return ClassNone, nil
	}
	for i, n := range classNames {
		if n == key {
			return Class(i), nil
		}
	}
	return 0, fmt.Errorf("unknown environmental class %q; valid: None, A1, A2, A3, A4, B, C, H1", name)
}

// Envelope is the allowed inlet air range of a class. RH is in percent.
type Envelope struct {
	DryBulbMin, DryBulbMax   float64
	DewpointMin, DewpointMax float64
	RHMin, RHMax             float64
}

var envelopes = [numClasses]Envelope{
	ClassNone: {-99, 99, -99, 99, 0, 99},
	ClassA1:   {15, 32, -12, 17, 8, 80},
	ClassA2:   {10, 35, -12, 21, 8, 80},
	ClassA3:   {5, 40, -12, 24, 8, 85},
	ClassA4:   {5, 45, -12, 24, 8, 90},
	ClassB:    {5, 35, -99, 28, 8, 80},
	ClassC:    {5, 40, -99, 28, 8, 80},
	ClassH1:   {5, 25, -12, 17, 8, 80},
}

// Envelope returns the class limits.
func (c Class) Envelope() Envelope { return envelopes[c] }

// Counters accumulate, in hours, how long the inlet air spent outside the
// class envelope. They run for the whole simulation and are never cleared
// between timesteps.
type Counters struct {
	AboveDryBulb  float64
	BelowDryBulb  float64
	AboveDewpoint float64
	BelowDewpoint float64
	AboveRH       float64
	BelowRH       float64
	OutOfRange    float64 // any limit violated
	Evaluated     float64 // time the envelope was checked at all
}

// Excursion is this timestep's signed distance beyond each violated limit;
// zero where the limit holds. Below-limit values are negative.
type Excursion struct {
	DryBulbAbove  float64
	DryBulbBelow  float64
	DewpointAbove float64
	DewpointBelow float64
	RHAbove       float64
	RHBelow       float64
}

// check compares one timestep's inlet state against env, adds dt to the
// violated counters and returns the excursions.
func check(env Envelope, dryBulb, dewpoint, rh, dt float64, cnt *Counters) Excursion {
	var x Excursion
	out := false
	cnt.Evaluated += dt
	if dryBulb > env.DryBulbMax {
		cnt.AboveDryBulb += dt
		x.DryBulbAbove = dryBulb - env.DryBulbMax
		out = true
	}
	if dryBulb < env.DryBulbMin {
		cnt.BelowDryBulb += dt
		x.DryBulbBelow = dryBulb - env.DryBulbMin
		out = true
	}
	if dewpoint > env.DewpointMax {
		cnt.AboveDewpoint += dt
		x.DewpointAbove = dewpoint - env.DewpointMax
		out = true
	}
	if dewpoint < env.DewpointMin {
		cnt.BelowDewpoint += dt
		x.DewpointBelow = dewpoint - env.DewpointMin
		out = true
	}
	if rh > env.RHMax {
		cnt.AboveRH += dt
		x.RHAbove = rh - env.RHMax
		out = true
	}
	if rh < env.RHMin {
		cnt.BelowRH += dt
		x.RHBelow = rh - env.RHMin
		out = true
	}
	if out {
		cnt.OutOfRange += dt
	}
	return x
}
