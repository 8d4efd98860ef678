package field

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/siggen-go/siggen/sim"
)

// Sampler interpolates the weighting potential and electric field at arbitrary points.
// It is read-only after construction and safe for concurrent use as long as each
// goroutine passes its own Memo.
type Sampler struct {
	grid    Grid
	locator *Locator
	wp      *Table2
	fields  *Table4
	slice   impuritySlice
	impErr  error
}

// NewSampler validates table extents against the grid and positions the impurity
// setpoints. Setpoints outside the tabulated range are logged and reported by
// ImpurityWarning; they do not fail construction.
func NewSampler(grid Grid, geom sim.Geometry, wp *Table2, fields *Table4, axes ImpurityAxes) (*Sampler, error) {
	if wp == nil || fields == nil {
		return nil, fmt.Errorf("field sampler: weighting potential and field tables are required")
	}
	if rlen, zlen := wp.Dims(); rlen != grid.RLen || zlen != grid.ZLen {
		return nil, fmt.Errorf("field sampler: weighting potential is %dx%d, grid is %dx%d", rlen, zlen, grid.RLen, grid.ZLen)
	}
	d := fields.Dims()
	if d.R != grid.RLen || d.Z != grid.ZLen {
		return nil, fmt.Errorf("field sampler: field table is %v, grid is %dx%d", d, grid.RLen, grid.ZLen)
	}
	if d.Grads != axes.NumGrads || d.Imps != axes.NumImps {
		return nil, fmt.Errorf("field sampler: field table is %v, impurity axes are %dx%d", d, axes.NumGrads, axes.NumImps)
	}
	slice, impErr := axes.locate()
	if impErr != nil {
		logrus.Warnf("field sampler: %v", impErr)
	}
	return &Sampler{
		grid:    grid,
		locator: NewLocator(grid, geom, fields),
		wp:      wp,
		fields:  fields,
		slice:   slice,
		impErr:  impErr,
	}, nil
}

// Grid returns the sampler's grid.
func (s *Sampler) Grid() Grid {
	return s.grid
}

// ImpurityWarning returns a non-nil error wrapping sim.ErrImpurityOutOfRange when the
// configured impurity setpoints lie outside the tabulated range.
func (s *Sampler) ImpurityWarning() error {
	return s.impErr
}

// Locate resolves pt on the field grid.
func (s *Sampler) Locate(pt sim.CylPoint, memo *Memo) (Index, sim.Resolution) {
	return s.locator.Locate(pt, memo)
}

// WeightingPotential returns the interpolated weighting potential at pt.
// The resolution is sim.Outside, and the potential zero, when pt cannot be located.
func (s *Sampler) WeightingPotential(pt sim.CylPoint, memo *Memo) (float64, sim.Resolution) {
	idx, res := s.locator.Locate(pt, memo)
	if res == sim.Outside {
		return 0, res
	}
	w := Bilinear(s.grid.Offset(pt, idx))
	var wp float64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			wp += w[i][j] * s.wp.At(idx.R+i, idx.Z+j)
		}
	}
	return wp, res
}

// ElectricField returns the field at pt in cylindrical components (V/cm). Phi is
// copied from pt. Each of the four surrounding nodes is first interpolated across
// the impurity axes, then the nodes are blended spatially.
func (s *Sampler) ElectricField(pt sim.CylPoint, memo *Memo) (sim.CylPoint, sim.Resolution) {
	idx, res := s.locator.Locate(pt, memo)
	if res == sim.Outside {
		return sim.CylPoint{}, res
	}
	return s.fieldAt(pt, idx), res
}

func (s *Sampler) fieldAt(pt sim.CylPoint, idx Index) sim.CylPoint {
	w := Bilinear(s.grid.Offset(pt, idx))
	e := sim.CylPoint{Phi: pt.Phi}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			er, ez := s.nodeField(idx.R+i, idx.Z+j)
			e.R += w[i][j] * er
			e.Z += w[i][j] * ez
		}
	}
	return e
}

// nodeField interpolates node (ir, iz) across the impurity axes.
func (s *Sampler) nodeField(ir, iz int) (er, ez float64) {
	sl := s.slice
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			r, z := s.fields.At(ir, iz, sl.grad+i, sl.imp+j)
			er += sl.w[i][j] * r
			ez += sl.w[i][j] * z
		}
	}
	return er, ez
}
