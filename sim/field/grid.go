package field

import (
	"fmt"
	"math"

	"github.com/siggen-go/siggen/sim"
)

// Grid describes the extent and spacing of the (r, z) tables.
type Grid struct {
	RMin, RMax, RStep float64
	ZMin, ZMax, ZStep float64
	RLen, ZLen        int
}

// Index is the lower-left corner of a grid cell, in cell units.
type Index struct {
	R int
	Z int
}

// NewGrid builds a grid spanning [rmin, rmax] x [zmin, zmax] with the given steps.
func NewGrid(rmin, rmax, rstep, zmin, zmax, zstep float64) (Grid, error) {
	if !(rstep > 0) || !(zstep > 0) {
		return Grid{}, fmt.Errorf("grid steps must be positive, got rstep=%v zstep=%v", rstep, zstep)
	}
	if rmax < rmin || zmax < zmin {
		return Grid{}, fmt.Errorf("grid extent is inverted: r=[%v,%v] z=[%v,%v]", rmin, rmax, zmin, zmax)
	}
	return Grid{
		RMin: rmin, RMax: rmax, RStep: rstep,
		ZMin: zmin, ZMax: zmax, ZStep: zstep,
		RLen: int(math.Round((rmax-rmin)/rstep)) + 1,
		ZLen: int(math.Round((zmax-zmin)/zstep)) + 1,
	}, nil
}

// CrystalGrid returns the grid covering a crystal of the given radius and length.
func CrystalGrid(radius, length, step float64) (Grid, error) {
	return NewGrid(0, radius, step, 0, length, step)
}

// CellOf returns the cell containing pt.
func (g Grid) CellOf(pt sim.CylPoint) Index {
	return Index{
		R: int(math.Floor((pt.R - g.RMin) / g.RStep)),
		Z: int(math.Floor((pt.Z - g.ZMin) / g.ZStep)),
	}
}

// NodeOf returns the grid node nearest to (r, z).
func (g Grid) NodeOf(r, z float64) Index {
	return Index{
		R: int(math.Round((r - g.RMin) / g.RStep)),
		Z: int(math.Round((z - g.ZMin) / g.ZStep)),
	}
}

// Offset returns the position of pt relative to the cell at idx, in cell units.
// Values outside [0, 1] mean pt lies outside that cell and weights will extrapolate.
func (g Grid) Offset(pt sim.CylPoint, idx Index) (fr, fz float64) {
	fr = (pt.R-g.RMin)/g.RStep - float64(idx.R)
	fz = (pt.Z-g.ZMin)/g.ZStep - float64(idx.Z)
	return fr, fz
}

// HasCell reports whether all four corners of the cell at idx are grid nodes.
func (g Grid) HasCell(idx Index) bool {
	return idx.R >= 0 && idx.R+1 < g.RLen && idx.Z >= 0 && idx.Z+1 < g.ZLen
}

func (g Grid) String() string {
	return fmt.Sprintf("r=[%.2f,%.2f] step %.2f (%d), z=[%.2f,%.2f] step %.2f (%d)",
		g.RMin, g.RMax, g.RStep, g.RLen, g.ZMin, g.ZMax, g.ZStep, g.ZLen)
}
