package velocity

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/siggen-go/siggen/sim"
)

// anisotropy expands the three axis speeds into cubic-harmonic coefficients.
// Along <100>, <110> and <111> the invariants (en4, en6) are (1, 1), (1/2, 1/4)
// and (1/3, 1/9), and a + b*en4 + c*en6 reproduces the measured speed.
func anisotropy(v100, v110, v111 float64) Coeffs {
	return Coeffs{
		A: 0.5*v100 - 4*v110 + 4.5*v111,
		B: -2.5*v100 + 16*v110 - 13.5*v111,
		C: 3*v100 - 12*v110 + 9*v111,
	}
}

// Build corrects raw to crystal temperature t and derives the coefficients of every
// sample. raw is not modified; the returned table shares nothing with it.
func Build(raw *RawTable, t float64) (*Table, error) {
	if raw == nil || len(raw.Rows) == 0 {
		return nil, fmt.Errorf("%w: no velocity data", sim.ErrMalformedTable)
	}
	if !(t > 0) || math.IsInf(t, 0) {
		return nil, fmt.Errorf("%w: %v K", sim.ErrTemperatureOutOfRange, t)
	}

	samples := make([]Sample, len(raw.Rows))
	logrus.Infof("Adjusting mobilities for temperature, from %.1f to %.1f", sim.RefTemp, t)
	logrus.Debugf("Index  field  e_factor  h_factor")
	for i, row := range raw.Rows {
		fe := raw.Electron.Factor(row.E, t)
		fh := raw.Hole.Factor(row.E, t)
		row.E100 *= fe
		row.E110 *= fe
		row.E111 *= fe
		row.H100 *= fh
		row.H110 *= fh
		row.H111 *= fh
		logrus.Debugf("%2d %8.0f %f %f", i, row.E, fe, fh)

		samples[i] = Sample{
			Row:      row,
			Electron: anisotropy(row.E100, row.E110, row.E111),
			Hole:     anisotropy(row.H100, row.H110, row.H111),
		}
	}

	// BP and CP are the trapezoidal integrals of B and C over field, divided by field.
	var sumBE, sumCE, sumBH, sumCH float64
	for i := 1; i < len(samples); i++ {
		prev, s := &samples[i-1], &samples[i]
		de := s.E - prev.E
		sumBE += de * (prev.Electron.B + s.Electron.B) / 2
		sumCE += de * (prev.Electron.C + s.Electron.C) / 2
		sumBH += de * (prev.Hole.B + s.Hole.B) / 2
		sumCH += de * (prev.Hole.C + s.Hole.C) / 2
		s.Electron.BP = sumBE / s.E
		s.Electron.CP = sumCE / s.E
		s.Hole.BP = sumBH / s.E
		s.Hole.CP = sumCH / s.E
	}

	return &Table{temperature: t, samples: samples}, nil
}
