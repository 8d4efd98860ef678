package field

import (
	"github.com/sirupsen/logrus"

	"github.com/siggen-go/siggen/sim"
)

// neighbourShifts is the probe order, in grid steps, for both axes.
// The unshifted point is always tried first.
var neighbourShifts = [3]float64{0, -1, 1}

// Memo caches the last Locate result for one caller.
// A Memo must not be shared between goroutines; the zero value is ready to use.
type Memo struct {
	valid bool
	r, z  float64
	idx   Index
	res   sim.Resolution
}

// Reset forgets the cached result.
func (m *Memo) Reset() {
	*m = Memo{}
}

// Locator maps points onto field-grid cells that hold data at all four corners.
type Locator struct {
	grid   Grid
	geom   sim.Geometry
	fields *Table4
}

// NewLocator returns a locator over the given field table.
func NewLocator(grid Grid, geom sim.Geometry, fields *Table4) *Locator {
	return &Locator{grid: grid, geom: geom, fields: fields}
}

// Locate returns the cell to use for pt and how it was resolved.
// If memo is non-nil and pt matches its cached point exactly, the cached
// result is returned without searching.
func (l *Locator) Locate(pt sim.CylPoint, memo *Memo) (Index, sim.Resolution) {
	if memo != nil && memo.valid && memo.r == pt.R && memo.z == pt.Z {
		return memo.idx, memo.res
	}
	idx, res := l.search(pt)
	if memo != nil {
		*memo = Memo{valid: true, r: pt.R, z: pt.Z, idx: idx, res: res}
	}
	return idx, res
}

func (l *Locator) search(pt sim.CylPoint) (Index, sim.Resolution) {
	if l.geom.Outside(pt) {
		return Index{}, sim.Outside
	}
	for _, dz := range neighbourShifts {
		for _, dr := range neighbourShifts {
			probe := sim.CylPoint{R: pt.R + dr*l.grid.RStep, Z: pt.Z + dz*l.grid.ZStep}
			idx, ok := l.cellWithField(probe)
			if !ok {
				continue
			}
			if dr == 0 && dz == 0 {
				return idx, sim.Interior
			}
			return idx, sim.Extrapolated
		}
	}
	return Index{}, sim.Outside
}

// cellWithField reports the cell containing pt when pt is inside the crystal and
// all four corners of that cell carry a field.
func (l *Locator) cellWithField(pt sim.CylPoint) (Index, bool) {
	if l.geom.Outside(pt) {
		logrus.Tracef("point (r,z) = (%.1f,%.1f) is outside crystal", pt.R, pt.Z)
		return Index{}, false
	}
	idx := l.grid.CellOf(pt)
	if !l.grid.HasCell(idx) {
		logrus.Tracef("point (r,z) = (%.1f,%.1f) is outside field table", pt.R, pt.Z)
		return Index{}, false
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if !l.fields.HasField(idx.R+i, idx.Z+j) {
				logrus.Tracef("point (r,z) = (%.1f,%.1f) has no field", pt.R, pt.Z)
				return Index{}, false
			}
		}
	}
	return idx, true
}
