package detector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siggen-go/siggen/sim"
	"github.com/siggen-go/siggen/sim/field"
	"github.com/siggen-go/siggen/sim/velocity"
)

// Uniform field of 1000 V/cm, 36.87 degrees off the axis.
const (
	fieldR = 600.0
	fieldZ = 800.0
)

func testRawTable() *velocity.RawTable {
	return &velocity.RawTable{
		Rows: []velocity.Row{
			{E: 100, E100: 0.2, E110: 0.18, E111: 0.16, H100: 0.15, H110: 0.14, H111: 0.13},
			{E: 2000, E100: 1.0, E110: 0.9, E111: 0.8, H100: 0.8, H110: 0.75, H111: 0.7},
		},
		Electron: velocity.DefaultElectronModel(),
		Hole:     velocity.DefaultHoleModel(),
	}
}

// testSampler covers a 10x10 mm crystal on a 1 mm grid with a uniform field and
// a weighting potential of 0.1*r.
func testSampler(t *testing.T) *field.Sampler {
	t.Helper()
	grid, err := field.CrystalGrid(10, 10, 1)
	require.NoError(t, err)
	fields, err := field.NewTable4(field.Dims4{R: grid.RLen, Z: grid.ZLen, Grads: 1, Imps: 1})
	require.NoError(t, err)
	wp := field.NewTable2(grid.RLen, grid.ZLen)
	for i := 0; i < grid.RLen; i++ {
		for j := 0; j < grid.ZLen; j++ {
			require.NoError(t, fields.Set(i, j, 0, 0, fieldR, fieldZ))
			require.NoError(t, wp.Set(i, j, 0.1*float64(i)))
		}
	}
	s, err := field.NewSampler(grid, sim.Cylinder{Radius: 10, Length: 10}, wp, fields,
		field.ImpurityAxes{NumGrads: 1, NumImps: 1, GradStep: 1, AvgStep: 1})
	require.NoError(t, err)
	return s
}

func newTestDetector(t *testing.T, p Params) *Detector {
	t.Helper()
	if p.Temperature == 0 {
		p.Temperature = sim.RefTemp
	}
	if p.Hole == (sim.HoleParams{}) {
		p.Hole = sim.DefaultHoleParams()
	}
	if p.K0 == (sim.K0Params{}) {
		p.K0 = sim.DefaultK0Params()
	}
	d, err := NewFromTables(testSampler(t), testRawTable(), p)
	require.NoError(t, err)
	return d
}
