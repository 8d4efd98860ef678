package field

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siggen-go/siggen/sim"
)

// linearEr and linearEz are exactly reproduced by bilinear interpolation and extrapolation.
func linearEr(r, z float64) float64 { return 2*r + z + 1 }
func linearEz(r, z float64) float64 { return r - 3*z + 100 }

// fixture is a 10x10 mm crystal on a 1 mm grid whose field is populated for
// r <= rFilled only.
type fixture struct {
	grid   Grid
	geom   sim.Cylinder
	fields *Table4
	wp     *Table2
}

func newFixture(t *testing.T, rFilled int) fixture {
	t.Helper()
	grid, err := CrystalGrid(10, 10, 1)
	require.NoError(t, err)
	fields, err := NewTable4(Dims4{R: grid.RLen, Z: grid.ZLen, Grads: 1, Imps: 1})
	require.NoError(t, err)
	wp := NewTable2(grid.RLen, grid.ZLen)
	for i := 0; i <= rFilled; i++ {
		for j := 0; j < grid.ZLen; j++ {
			r, z := float64(i), float64(j)
			require.NoError(t, fields.Set(i, j, 0, 0, linearEr(r, z), linearEz(r, z)))
			require.NoError(t, wp.Set(i, j, 0.1*r+0.05*z))
		}
	}
	return fixture{grid: grid, geom: sim.Cylinder{Radius: 10, Length: 10}, fields: fields, wp: wp}
}

func (f fixture) sampler(t *testing.T) *Sampler {
	t.Helper()
	s, err := NewSampler(f.grid, f.geom, f.wp, f.fields, ImpurityAxes{NumGrads: 1, NumImps: 1, GradStep: 1, AvgStep: 1})
	require.NoError(t, err)
	return s
}
