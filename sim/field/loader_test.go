package field

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siggen-go/siggen/sim"
)

func fieldFileContent(grid Grid) string {
	var b strings.Builder
	b.WriteString("# r z V |E| Er Ez\n\n")
	for i := 0; i < grid.RLen; i++ {
		for j := 0; j < grid.ZLen; j++ {
			r, z := float64(i)*grid.RStep, float64(j)*grid.ZStep
			fmt.Fprintf(&b, "%g %g 0 0 %g %g\n", r, z, linearEr(r, z), linearEz(r, z))
		}
	}
	return b.String()
}

func TestLoadFieldTable_PlainAndZstd(t *testing.T) {
	grid, err := CrystalGrid(4, 4, 0.5)
	require.NoError(t, err)
	geom := sim.Cylinder{Radius: 4, Length: 4}
	dir := t.TempDir()
	content := fieldFileContent(grid)

	plain := filepath.Join(dir, "field.dat")
	require.NoError(t, os.WriteFile(plain, []byte(content), 0644))

	compressed := filepath.Join(dir, "field.dat.zst")
	f, err := os.Create(compressed)
	require.NoError(t, err)
	enc, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = enc.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	axes := ImpurityAxes{NumGrads: 2, NumImps: 1, GradStep: 1, AvgStep: 1}
	tab, err := LoadFieldTable([]sim.FieldFile{
		{Path: plain, GradIndex: 0, ImpIndex: 0},
		{Path: compressed, GradIndex: 1, ImpIndex: 0},
	}, grid, geom, axes)
	require.NoError(t, err)

	for _, g := range []int{0, 1} {
		er, ez := tab.At(3, 5, g, 0)
		assert.Equal(t, linearEr(1.5, 2.5), er, "slice %d", g)
		assert.Equal(t, linearEz(1.5, 2.5), ez, "slice %d", g)
	}
}

func TestReadFieldSlice_SkipsNodesOutsideCrystal(t *testing.T) {
	grid, err := CrystalGrid(4, 4, 1)
	require.NoError(t, err)
	geom := sim.Cylinder{Radius: 4, Length: 4, PCRadius: 1.5, PCLength: 1.5}
	tab, err := NewTable4(Dims4{R: grid.RLen, Z: grid.ZLen, Grads: 1, Imps: 1})
	require.NoError(t, err)

	require.NoError(t, ReadFieldSlice(strings.NewReader(fieldFileContent(grid)), "field", grid, geom, tab, 0, 0))
	assert.False(t, tab.HasField(1, 1), "node inside point contact")
	assert.True(t, tab.HasField(2, 1))
}

func TestReadFieldSlice_MalformedLine(t *testing.T) {
	grid, err := CrystalGrid(4, 4, 1)
	require.NoError(t, err)
	tab, err := NewTable4(Dims4{R: grid.RLen, Z: grid.ZLen, Grads: 1, Imps: 1})
	require.NoError(t, err)

	err = ReadFieldSlice(strings.NewReader("1 1 0 0 1\n"), "short", grid, sim.Cylinder{Radius: 4, Length: 4}, tab, 0, 0)
	assert.ErrorIs(t, err, sim.ErrMalformedTable)

	err = ReadFieldSlice(strings.NewReader("1 1 0 0 x 1\n"), "nan", grid, sim.Cylinder{Radius: 4, Length: 4}, tab, 0, 0)
	assert.ErrorIs(t, err, sim.ErrMalformedTable)
}

func TestReadFieldSlice_EmptyFails(t *testing.T) {
	grid, err := CrystalGrid(4, 4, 1)
	require.NoError(t, err)
	tab, err := NewTable4(Dims4{R: grid.RLen, Z: grid.ZLen, Grads: 1, Imps: 1})
	require.NoError(t, err)

	err = ReadFieldSlice(strings.NewReader("# nothing\n"), "empty", grid, sim.Cylinder{Radius: 4, Length: 4}, tab, 0, 0)
	assert.ErrorIs(t, err, sim.ErrMalformedTable)
}

func TestLoadWeightingPotential(t *testing.T) {
	grid, err := CrystalGrid(2, 2, 1)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "wp.dat")
	require.NoError(t, os.WriteFile(path, []byte("# r z wp\n0 0 1\n1 0 0.5\n1 1 0.25\n9 9 7\n"), 0644))

	wp, err := LoadWeightingPotential(path, grid)
	require.NoError(t, err)
	assert.Equal(t, 1.0, wp.At(0, 0))
	assert.Equal(t, 0.5, wp.At(1, 0))
	assert.Equal(t, 0.25, wp.At(1, 1))
	assert.Zero(t, wp.At(2, 2))
}

func TestLoadWeightingPotential_MissingFile(t *testing.T) {
	grid, err := CrystalGrid(2, 2, 1)
	require.NoError(t, err)
	_, err = LoadWeightingPotential(filepath.Join(t.TempDir(), "missing.dat"), grid)
	assert.ErrorIs(t, err, sim.ErrMalformedTable)
}

func TestOpenTable_ZstdCloseReportsFileError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wp.dat.zst")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = enc.Write([]byte("0 0 0.5\n"))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	rc, err := openTable(path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "0 0 0.5\n", string(data))
	require.NoError(t, rc.Close())

	// The underlying file is already closed, so a second Close must surface that.
	assert.ErrorIs(t, rc.Close(), os.ErrClosed)
}
