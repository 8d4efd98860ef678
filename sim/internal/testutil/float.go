// Package testutil provides float and vector assertion helpers shared by the
// sim/ test packages.
package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == got {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if math.IsNaN(diff) || diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertVecNear fails if got differs from want by more than absTol in any component.
func AssertVecNear(t *testing.T, name string, want, got r3.Vec, absTol float64) {
	t.Helper()
	d := r3.Sub(want, got)
	if math.Abs(d.X) > absTol || math.Abs(d.Y) > absTol || math.Abs(d.Z) > absTol || math.IsNaN(r3.Norm(d)) {
		t.Errorf("%s: got %+v, want %+v (tol=%v)", name, got, want, absTol)
	}
}
