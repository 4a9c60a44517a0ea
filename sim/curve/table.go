package curve

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// Table1D linearly interpolates between tabulated points.
// Inputs outside the table are clamped to its first and last x.
type Table1D struct {
	name   string
	minX   float64
	maxX   float64
	fit    *interp.PiecewiseLinear
	bounds Bounds
}

// NewTable1D builds a table curve from strictly increasing xs.
func NewTable1D(name string, xs, ys []float64, out Bounds) (*Table1D, error) {
	fit, err := fitLinear(name, xs, ys)
	if err != nil {
		return nil, err
	}
	out.MinX, out.MaxX = xs[0], xs[len(xs)-1]
	if err := out.validate(name, 1); err != nil {
		return nil, err
	}
	return &Table1D{name: name, minX: xs[0], maxX: xs[len(xs)-1], fit: fit, bounds: out}, nil
}

func (t *Table1D) Value(x, _ float64) float64 {
	return t.bounds.clampOut(t.fit.Predict(clamp(x, t.minX, t.maxX)))
}

func (t *Table1D) Dims() int    { return 1 }
func (t *Table1D) Name() string { return t.name }

// Table2D bilinearly interpolates over a rectangular grid.
// values[i][j] is the output at xs[i], ys[j].
type Table2D struct {
	name   string
	xs     []float64
	ys     []float64
	rows   []*interp.PiecewiseLinear // one fit along y per x
	bounds Bounds
}

// NewTable2D builds a grid curve. Both axes need at least two strictly increasing points.
func NewTable2D(name string, xs, ys []float64, values [][]float64, out Bounds) (*Table2D, error) {
	if len(values) != len(xs) {
		return nil, fmt.Errorf("curve %q: %d rows of values for %d x points", name, len(values), len(xs))
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("curve %q: need at least 2 x points, got %d", name, len(xs))
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, fmt.Errorf("curve %q: x points must be strictly increasing", name)
		}
	}
	rows := make([]*interp.PiecewiseLinear, len(xs))
	for i, row := range values {
		fit, err := fitLinear(name, ys, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = fit
	}
	out.MinX, out.MaxX = xs[0], xs[len(xs)-1]
	out.MinY, out.MaxY = ys[0], ys[len(ys)-1]
	if err := out.validate(name, 2); err != nil {
		return nil, err
	}
	return &Table2D{
		name:   name,
		xs:     append([]float64(nil), xs...),
		ys:     append([]float64(nil), ys...),
		rows:   rows,
		bounds: out,
	}, nil
}

func (t *Table2D) Value(x, y float64) float64 {
	x = t.bounds.clampX(x)
	y = t.bounds.clampY(y)
	col := make([]float64, len(t.xs))
	for i, row := range t.rows {
		col[i] = row.Predict(y)
	}
	var across interp.PiecewiseLinear
	if err := across.Fit(t.xs, col); err != nil {
		// xs were validated at construction.
		panic(fmt.Sprintf("curve %q: %v", t.name, err))
	}
	return t.bounds.clampOut(across.Predict(x))
}

func (t *Table2D) Dims() int    { return 2 }
func (t *Table2D) Name() string { return t.name }

func fitLinear(name string, xs, ys []float64) (*interp.PiecewiseLinear, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("curve %q: %d x points but %d values", name, len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("curve %q: need at least 2 points, got %d", name, len(xs))
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, fmt.Errorf("curve %q: input points must be strictly increasing", name)
		}
	}
	if err := validateFinite(name, ys); err != nil {
		return nil, err
	}
	var fit interp.PiecewiseLinear
	if err := fit.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("curve %q: %w", name, err)
	}
	return &fit, nil
}
