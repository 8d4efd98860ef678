package cmd

import (
	"fmt"
	"image/color"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/siggen-go/siggen/sim"
	"github.com/siggen-go/siggen/sim/velocity"
)

var (
	velocityTablePath string  // Raw drift velocity table
	velocityTemp      float64 // Crystal temperature (K)
	velocityPlotPath  string  // Optional PNG/SVG/PDF output
)

var velocityCmd = &cobra.Command{
	Use:   "velocity",
	Short: "Build the temperature-corrected drift velocity lookup table",
	RunE: func(cmd *cobra.Command, args []string) error {
		if velocityTablePath == "" {
			return fmt.Errorf("velocity table not provided (--table)")
		}
		if velocityTemp < sim.MinTemp || velocityTemp > sim.MaxTemp {
			return fmt.Errorf("%w: %v K not in [%v, %v]", sim.ErrTemperatureOutOfRange, velocityTemp, sim.MinTemp, sim.MaxTemp)
		}
		raw, err := velocity.LoadRawTable(velocityTablePath)
		if err != nil {
			return err
		}
		table, err := velocity.Build(raw, velocityTemp)
		if err != nil {
			return err
		}
		if err := writeVelocityTable(cmd.OutOrStdout(), table); err != nil {
			return err
		}
		if velocityPlotPath != "" {
			if err := plotVelocityTable(table, velocityPlotPath); err != nil {
				return err
			}
			logrus.Infof("Wrote drift speed plot to %s", velocityPlotPath)
		}
		return nil
	},
}

// writeVelocityTable prints one line per sample: field, the six axis speeds and
// the electron and hole coefficients.
func writeVelocityTable(w io.Writer, t *velocity.Table) error {
	if _, err := fmt.Fprintf(w, "# T = %.1f K\n# E e100 e110 e111 h100 h110 h111 ea eb ec ebp ecp ha hb hc hbp hcp\n", t.Temperature()); err != nil {
		return err
	}
	for i := 0; i < t.Len(); i++ {
		s := t.Sample(i)
		e, h := s.Electron, s.Hole
		_, err := fmt.Fprintf(w, "%g %.5f %.5f %.5f %.5f %.5f %.5f %.5f %.5f %.5f %.5f %.5f %.5f %.5f %.5f %.5f %.5f\n",
			s.E, s.E100, s.E110, s.E111, s.H100, s.H110, s.H111,
			e.A, e.B, e.C, e.BP, e.CP, h.A, h.B, h.C, h.BP, h.CP)
		if err != nil {
			return err
		}
	}
	return nil
}

// plotVelocityTable renders drift speed against field for the six tabulated axes.
// The output format follows the file extension.
func plotVelocityTable(t *velocity.Table, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Drift speed at %.1f K", t.Temperature())
	p.X.Label.Text = "E (V/cm)"
	p.Y.Label.Text = "v (mm/ns)"

	curves := []struct {
		label string
		speed func(s velocity.Sample) float64
		color color.RGBA
	}{
		{"e <100>", func(s velocity.Sample) float64 { return s.E100 }, color.RGBA{R: 31, G: 119, B: 180, A: 255}},
		{"e <110>", func(s velocity.Sample) float64 { return s.E110 }, color.RGBA{R: 44, G: 160, B: 44, A: 255}},
		{"e <111>", func(s velocity.Sample) float64 { return s.E111 }, color.RGBA{R: 23, G: 190, B: 207, A: 255}},
		{"h <100>", func(s velocity.Sample) float64 { return s.H100 }, color.RGBA{R: 214, G: 39, B: 40, A: 255}},
		{"h <110>", func(s velocity.Sample) float64 { return s.H110 }, color.RGBA{R: 255, G: 127, B: 14, A: 255}},
		{"h <111>", func(s velocity.Sample) float64 { return s.H111 }, color.RGBA{R: 148, G: 103, B: 189, A: 255}},
	}
	for _, c := range curves {
		pts := make(plotter.XYs, t.Len())
		for i := range pts {
			s := t.Sample(i)
			pts[i] = plotter.XY{X: s.E, Y: c.speed(s)}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("plot %s: %w", c.label, err)
		}
		line.Color = c.color
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(c.label, line)
	}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.XOffs = 10
	p.Legend.YOffs = -10

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

func init() {
	velocityCmd.Flags().StringVar(&velocityTablePath, "table", "", "Drift velocity table file")
	velocityCmd.Flags().Float64Var(&velocityTemp, "temp", sim.RefTemp, "Crystal temperature in K")
	velocityCmd.Flags().StringVar(&velocityPlotPath, "plot", "", "Write a speed-vs-field plot to this file (.png, .svg, .pdf)")
}
