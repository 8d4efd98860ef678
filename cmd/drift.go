package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/siggen-go/siggen/sim"
	"github.com/siggen-go/siggen/sim/detector"
)

var (
	driftPoint  string  // Cartesian point "x,y,z" in mm
	driftCharge string  // Carrier species
	driftTemp   float64 // Optional temperature override (K); 0 keeps the config value
)

var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Evaluate weighting potential, field and drift velocity at one point",
	RunE: func(cmd *cobra.Command, args []string) error {
		pt, err := parsePoint(driftPoint)
		if err != nil {
			return err
		}
		q, err := sim.ParseCharge(driftCharge)
		if err != nil {
			return err
		}
		d, err := loadDetector(configPath)
		if err != nil {
			return err
		}
		if driftTemp != 0 {
			if err := d.SetTemperature(driftTemp); err != nil {
				return err
			}
		}
		return describePoint(cmd.OutOrStdout(), d, pt, q)
	},
}

// parsePoint parses "x,y,z" in mm.
func parsePoint(s string) (r3.Vec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return r3.Vec{}, fmt.Errorf("point %q: want x,y,z", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("point %q: %w", s, err)
		}
		v[i] = f
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}

// describePoint prints every query result for pt.
func describePoint(w io.Writer, d *detector.Detector, pt r3.Vec, q sim.Charge) error {
	var p detector.Probe
	wp, err := d.WeightingPotential(pt, &p)
	if err != nil {
		return err
	}
	e, err := d.ElectricField(pt, &p)
	if err != nil {
		return err
	}
	v, err := d.DriftVelocity(pt, q, &p)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "point        (%g, %g, %g) mm [%v]\n", pt.X, pt.Y, pt.Z, p.Resolution)
	fmt.Fprintf(w, "temperature  %.1f K, %s model\n", d.Temperature(), d.Model())
	fmt.Fprintf(w, "wpot         %.6f\n", wp)
	fmt.Fprintf(w, "field        Er=%.3f Ez=%.3f V/cm\n", e.R, e.Z)
	fmt.Fprintf(w, "velocity     %s (%.6f, %.6f, %.6f) mm/ns\n", q, v.X, v.Y, v.Z)
	_, err = fmt.Fprintf(w, "dv/dE        %.6g\nv/E          %.6g\n", p.DvDE, p.VOverE)
	return err
}

func init() {
	driftCmd.Flags().StringVar(&configPath, "config", "", "Detector YAML config")
	driftCmd.Flags().StringVar(&driftPoint, "point", "", "Cartesian point x,y,z in mm")
	driftCmd.Flags().StringVar(&driftCharge, "charge", "electron", "Carrier: electron or hole")
	driftCmd.Flags().Float64Var(&driftTemp, "temp", 0, "Override the crystal temperature (K)")
}
