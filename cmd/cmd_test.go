package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/siggen-go/siggen/sim"
	"github.com/siggen-go/siggen/sim/detector"
	"github.com/siggen-go/siggen/sim/velocity"
)

const testVelocityTable = `# e e100 e110 e111 h100 h110 h111
100  0.2 0.18 0.16 0.15 0.14 0.13
1000 0.8 0.72 0.66 0.6  0.55 0.5
2000 1.0 0.9  0.8  0.8  0.75 0.7
`

// writeTestDetector writes a 4x4 mm detector with a uniform 1000 V/cm axial field
// and returns the config path.
func writeTestDetector(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	var fields, wp strings.Builder
	for i := 0; i <= 4; i++ {
		for j := 0; j <= 4; j++ {
			fmt.Fprintf(&fields, "%d %d 0 1000 0 1000\n", i, j)
			fmt.Fprintf(&wp, "%d %d %g\n", i, j, 0.25*float64(j))
		}
	}
	files := map[string]string{
		"drift_vel.tab": testVelocityTable,
		"field.dat":     fields.String(),
		"wp.dat":        wp.String(),
		"detector.yaml": "geometry: {radius: 4, length: 4}\ngrid: {step: 1}\n" +
			"velocity: {table: drift_vel.tab}\nfields: [{path: field.dat}]\nweighting_potential: wp.dat\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return filepath.Join(dir, "detector.yaml")
}

func TestParsePoint(t *testing.T) {
	v, err := parsePoint("1.5, -2,3e1")
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 1.5, Y: -2, Z: 30}, v)

	for _, bad := range []string{"", "1,2", "1,2,3,4", "a,b,c"} {
		_, err := parsePoint(bad)
		assert.Error(t, err, bad)
	}
}

func TestWriteVelocityTable_OneLinePerSample(t *testing.T) {
	// GIVEN a three-row table at the reference temperature
	raw, err := velocity.ParseRawTable(strings.NewReader(testVelocityTable), "test")
	require.NoError(t, err)
	table, err := velocity.Build(raw, sim.RefTemp)
	require.NoError(t, err)

	// WHEN the table is printed
	var buf bytes.Buffer
	require.NoError(t, writeVelocityTable(&buf, table))

	// THEN there are two header lines and one line per sample with 17 columns
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "# T = 77.0 K", lines[0])
	assert.Len(t, strings.Fields(lines[2]), 17)
	assert.True(t, strings.HasPrefix(lines[4], "2000 1.00000 0.90000 0.80000"))
}

func TestPlotVelocityTable_WritesFile(t *testing.T) {
	raw, err := velocity.ParseRawTable(strings.NewReader(testVelocityTable), "test")
	require.NoError(t, err)
	table, err := velocity.Build(raw, 90)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "speeds.svg")
	require.NoError(t, plotVelocityTable(table, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestDescribePoint(t *testing.T) {
	cfg, err := sim.LoadDetectorConfig(writeTestDetector(t))
	require.NoError(t, err)
	d, err := detector.New(cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, describePoint(&buf, d, r3.Vec{X: 1, Z: 2}, sim.Hole))
	out := buf.String()
	assert.Contains(t, out, "[interior]")
	assert.Contains(t, out, "wpot         0.500000")
	assert.Contains(t, out, "Er=0.000 Ez=1000.000")
	assert.Contains(t, out, "velocity     hole (0.000000, 0.000000, 0.600000)")

	err = describePoint(&buf, d, r3.Vec{X: 9, Z: 2}, sim.Hole)
	assert.ErrorIs(t, err, sim.ErrOutOfDomain)
}

func TestRunScan_MatchesSerialQueries(t *testing.T) {
	// GIVEN a detector and a scan line crossing the crystal edge at r=4
	cfg, err := sim.LoadDetectorConfig(writeTestDetector(t))
	require.NoError(t, err)
	d, err := detector.New(cfg)
	require.NoError(t, err)
	opts := scanOptions{Z: 1.5, RMin: 0, RMax: 5, Steps: 11, Workers: 3}

	// WHEN it is scanned concurrently
	rows, err := runScan(context.Background(), d, opts)
	require.NoError(t, err)

	// THEN every row equals the serial query at the same radius
	require.Len(t, rows, 11)
	for i, row := range rows {
		pt := r3.Vec{X: opts.radius(i), Z: opts.Z}
		assert.Equal(t, pt.X, row.R)
		if pt.X > 4 {
			assert.Equal(t, sim.Outside, row.Resolution, "r=%v", pt.X)
			continue
		}
		want, err := d.DriftVelocity(pt, sim.Electron, nil)
		require.NoError(t, err)
		assert.Equal(t, want, row.Electron, "r=%v", pt.X)
		assert.NotEqual(t, sim.Outside, row.Resolution)
	}
}

func TestRunScan_RejectsZeroSteps(t *testing.T) {
	_, err := runScan(context.Background(), nil, scanOptions{Steps: 0})
	assert.Error(t, err)
}

func TestWriteScanCSV(t *testing.T) {
	rows := []scanRow{
		{R: 1, Z: 2, Resolution: sim.Interior, WP: 0.5, Field: sim.CylPoint{Z: 1000}, Electron: r3.Vec{Z: -1}, Hole: r3.Vec{Z: 0.8}},
		{R: 5, Z: 2},
	}
	var buf bytes.Buffer
	require.NoError(t, writeScanCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "resolution", records[0][2])
	assert.Equal(t, []string{"1", "2", "interior", "0.5", "0", "1000", "0", "0", "-1", "0", "0", "0.8"}, records[1])
	assert.Equal(t, "outside", records[2][2])
}

func TestRootCmd_RejectsBadLogLevel(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"velocity", "--log", "loud", "--table", "x"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		logLevel = "warn"
	})
	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "invalid log level")
}
