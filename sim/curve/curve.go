// Package curve provides the performance curves used by gain models.
// Every curve clamps its inputs to its declared bounds before evaluating,
// and optionally clamps its output; callers never re-clamp.
package curve

import (
	"fmt"
	"math"
	"sort"
)

// Curve evaluates a one- or two-input performance curve.
// One-input curves ignore y.
type Curve interface {
	Value(x, y float64) float64
	Dims() int
	Name() string
}

// Bounds limits curve inputs and, when set, outputs.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinOut     *float64
	MaxOut     *float64
}

func (b Bounds) clampX(x float64) float64 { return clamp(x, b.MinX, b.MaxX) }
func (b Bounds) clampY(y float64) float64 { return clamp(y, b.MinY, b.MaxY) }

func (b Bounds) clampOut(v float64) float64 {
	if b.MinOut != nil && v < *b.MinOut {
		v = *b.MinOut
	}
	if b.MaxOut != nil && v > *b.MaxOut {
		v = *b.MaxOut
	}
	return v
}

func (b Bounds) validate(name string, dims int) error {
	// An empty input range would clamp every input to one point.
	if b.MinX >= b.MaxX {
		return fmt.Errorf("curve %q: min_x %g must be below max_x %g", name, b.MinX, b.MaxX)
	}
	if dims == 2 && b.MinY >= b.MaxY {
		return fmt.Errorf("curve %q: min_y %g must be below max_y %g", name, b.MinY, b.MaxY)
	}
	if b.MinOut != nil && b.MaxOut != nil && *b.MinOut > *b.MaxOut {
		return fmt.Errorf("curve %q: min_output %g exceeds max_output %g", name, *b.MinOut, *b.MaxOut)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Polynomial is a one-input polynomial: c0 + c1*x + c2*x^2 + c3*x^3.
// Linear, quadratic and cubic curves differ only in how many coefficients are set.
type Polynomial struct {
	name   string
	coeffs []float64
	bounds Bounds
}

// NewPolynomial builds a linear (2), quadratic (3) or cubic (4) curve.
func NewPolynomial(name string, coeffs []float64, bounds Bounds) (*Polynomial, error) {
	if len(coeffs) < 2 || len(coeffs) > 4 {
		return nil, fmt.Errorf("curve %q: polynomial needs 2 to 4 coefficients, got %d", name, len(coeffs))
	}
	if err := validateFinite(name, coeffs); err != nil {
		return nil, err
	}
	if err := bounds.validate(name, 1); err != nil {
		return nil, err
	}
	return &Polynomial{name: name, coeffs: append([]float64(nil), coeffs...), bounds: bounds}, nil
}

func (p *Polynomial) Value(x, _ float64) float64 {
	x = p.bounds.clampX(x)
	// Horner form.
	v := 0.0
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		v = v*x + p.coeffs[i]
	}
	return p.bounds.clampOut(v)
}

func (p *Polynomial) Dims() int    { return 1 }
func (p *Polynomial) Name() string { return p.name }

// Biquadratic is c0 + c1*x + c2*x^2 + c3*y + c4*y^2 + c5*x*y.
type Biquadratic struct {
	name   string
	c      [6]float64
	bounds Bounds
}

// NewBiquadratic builds a two-input biquadratic curve from exactly six coefficients.
func NewBiquadratic(name string, coeffs []float64, bounds Bounds) (*Biquadratic, error) {
	if len(coeffs) != 6 {
		return nil, fmt.Errorf("curve %q: biquadratic needs 6 coefficients, got %d", name, len(coeffs))
	}
	if err := validateFinite(name, coeffs); err != nil {
		return nil, err
	}
	if err := bounds.validate(name, 2); err != nil {
		return nil, err
	}
	b := &Biquadratic{name: name, bounds: bounds}
	copy(b.c[:], coeffs)
	return b, nil
}

func (b *Biquadratic) Value(x, y float64) float64 {
	x = b.bounds.clampX(x)
	y = b.bounds.clampY(y)
	v := b.c[0] + b.c[1]*x + b.c[2]*x*x + b.c[3]*y + b.c[4]*y*y + b.c[5]*x*y
	return b.bounds.clampOut(v)
}

func (b *Biquadratic) Dims() int    { return 2 }
func (b *Biquadratic) Name() string { return b.name }

func validateFinite(name string, coeffs []float64) error {
	for i, c := range coeffs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("curve %q: coefficient[%d] must be finite, got %f", name, i, c)
		}
	}
	return nil
}

// Library is the set of named curves available to one model.
type Library struct {
	curves map[string]Curve
}

// NewLibrary creates an empty curve library.
func NewLibrary() *Library {
	return &Library{curves: make(map[string]Curve)}
}

// Add registers c under its own name.
func (l *Library) Add(c Curve) error {
	if c.Name() == "" {
		return fmt.Errorf("curve name must not be empty")
	}
	if _, exists := l.curves[c.Name()]; exists {
		return fmt.Errorf("duplicate curve %q", c.Name())
	}
	l.curves[c.Name()] = c
	return nil
}

// Lookup returns the curve registered under name and checks it takes dims inputs.
func (l *Library) Lookup(name string, dims int) (Curve, error) {
	c, ok := l.curves[name]
	if !ok {
		names := make([]string, 0, len(l.curves))
		for k := range l.curves {
			names = append(names, k)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("curve %q not found (available: %v)", name, names)
	}
	if c.Dims() != dims {
		return nil, fmt.Errorf("curve %q takes %d input(s), need %d", name, c.Dims(), dims)
	}
	return c, nil
}
