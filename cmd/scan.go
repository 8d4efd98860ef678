package cmd

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/siggen-go/siggen/sim"
	"github.com/siggen-go/siggen/sim/detector"
)

var (
	scanZ       float64 // Axial position of the scan line (mm)
	scanRMin    float64 // First radius (mm)
	scanRMax    float64 // Last radius (mm)
	scanSteps   int     // Number of points
	scanWorkers int     // Concurrent workers
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Evaluate field and drift velocities along a radial line, as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDetector(configPath)
		if err != nil {
			return err
		}
		opts := scanOptions{Z: scanZ, RMin: scanRMin, RMax: scanRMax, Steps: scanSteps, Workers: scanWorkers}
		rows, err := runScan(cmd.Context(), d, opts)
		if err != nil {
			return err
		}
		return writeScanCSV(cmd.OutOrStdout(), rows)
	},
}

type scanOptions struct {
	Z, RMin, RMax float64
	Steps         int
	Workers       int
}

// scanRow is the result at one radius. Points that cannot be located keep zero
// values and Resolution sim.Outside.
type scanRow struct {
	R, Z       float64
	Resolution sim.Resolution
	WP         float64
	Field      sim.CylPoint
	Electron   r3.Vec
	Hole       r3.Vec
}

func (o scanOptions) radius(i int) float64 {
	if o.Steps == 1 {
		return o.RMin
	}
	return o.RMin + (o.RMax-o.RMin)*float64(i)/float64(o.Steps-1)
}

// runScan evaluates the detector at Steps radii along the x axis at height Z.
// Work is split into one contiguous chunk per worker, each with its own probe.
func runScan(ctx context.Context, d *detector.Detector, o scanOptions) ([]scanRow, error) {
	if o.Steps <= 0 {
		return nil, fmt.Errorf("scan: steps must be positive, got %d", o.Steps)
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	rows := make([]scanRow, o.Steps)
	chunk := (o.Steps + o.Workers - 1) / o.Workers

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers)
	for start := 0; start < o.Steps; start += chunk {
		start := start // per-iteration copy; go.mod targets go1.21 loop semantics
		end := min(start+chunk, o.Steps)
		g.Go(func() error {
			var p detector.Probe
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				row, err := scanPoint(d, r3.Vec{X: o.radius(i), Z: o.Z}, &p)
				if err != nil {
					return err
				}
				rows[i] = row
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logrus.Infof("Scanned %d points at z=%.2f with %d workers", o.Steps, o.Z, o.Workers)
	return rows, nil
}

func scanPoint(d *detector.Detector, pt r3.Vec, p *detector.Probe) (scanRow, error) {
	row := scanRow{R: pt.X, Z: pt.Z}
	wp, err := d.WeightingPotential(pt, p)
	if errors.Is(err, sim.ErrOutOfDomain) {
		return row, nil
	}
	if err != nil {
		return row, err
	}
	row.Resolution = p.Resolution
	row.WP = wp
	if row.Field, err = d.ElectricField(pt, p); err != nil {
		return row, err
	}
	if row.Electron, err = d.DriftVelocity(pt, sim.Electron, p); err != nil {
		return row, err
	}
	if row.Hole, err = d.DriftVelocity(pt, sim.Hole, p); err != nil {
		return row, err
	}
	return row, nil
}

func writeScanCSV(w io.Writer, rows []scanRow) error {
	cw := csv.NewWriter(w)
	header := []string{"r", "z", "resolution", "wp", "er", "ez", "ve_x", "ve_y", "ve_z", "vh_x", "vh_y", "vh_z"}
	if err := cw.Write(header); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', 8, 64) }
	for _, r := range rows {
		rec := []string{
			f(r.R), f(r.Z), r.Resolution.String(), f(r.WP), f(r.Field.R), f(r.Field.Z),
			f(r.Electron.X), f(r.Electron.Y), f(r.Electron.Z),
			f(r.Hole.X), f(r.Hole.Y), f(r.Hole.Z),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func init() {
	scanCmd.Flags().StringVar(&configPath, "config", "", "Detector YAML config")
	scanCmd.Flags().Float64Var(&scanZ, "z", 0, "Axial position of the scan line (mm)")
	scanCmd.Flags().Float64Var(&scanRMin, "r-min", 0, "First radius (mm)")
	scanCmd.Flags().Float64Var(&scanRMax, "r-max", 0, "Last radius (mm)")
	scanCmd.Flags().IntVar(&scanSteps, "steps", 50, "Number of points along the line")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 4, "Concurrent workers")
}
