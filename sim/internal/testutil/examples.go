// Package testutil provides shared test infrastructure: paths to the shipped
// example models and tolerance assertions used across the sim test packages.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// ExampleModelPath returns the path of a model under the repo-root examples/
// directory. The path is resolved relative to this source file.
func ExampleModelPath(t *testing.T, name string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root examples/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "examples", name)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Example model %s not found: %v", name, err)
	}
	return path
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
