package velocity

import "github.com/siggen-go/siggen/sim"

// Coeffs are the anisotropy coefficients of one carrier species at one field value.
// A, B and C expand the drift speed in the cubic invariants of the field direction;
// BP and CP are the field-averaged integrals of B and C.
type Coeffs struct {
	A, B, C float64
	BP, CP  float64
}

func lerp(lo, hi, f float64) float64 {
	return (hi-lo)*f + lo
}

func (c Coeffs) lerp(hi Coeffs, f float64) Coeffs {
	return Coeffs{
		A:  lerp(c.A, hi.A, f),
		B:  lerp(c.B, hi.B, f),
		C:  lerp(c.C, hi.C, f),
		BP: lerp(c.BP, hi.BP, f),
		CP: lerp(c.CP, hi.CP, f),
	}
}

// Row is one raw measurement: drift speeds (mm/ns) along the three crystal
// axes for electrons and holes at field E (V/cm).
type Row struct {
	E                float64
	E100, E110, E111 float64
	H100, H110, H111 float64
}

// Sample is a temperature-corrected Row with its derived coefficients.
type Sample struct {
	Row
	Electron Coeffs
	Hole     Coeffs
}

// Table is an immutable drift velocity lookup table for one crystal temperature.
type Table struct {
	temperature float64
	samples     []Sample
}

// Temperature returns the crystal temperature the table was built for.
func (t *Table) Temperature() float64 {
	return t.temperature
}

// Len returns the number of samples.
func (t *Table) Len() int {
	return len(t.samples)
}

// Sample returns sample i.
func (t *Table) Sample(i int) Sample {
	return t.samples[i]
}

// bracket returns the pair of samples to interpolate between for field e and the
// fractional position of e between them. Fields beyond the last sample extrapolate
// from the last pair.
func (t *Table) bracket(e float64) (lo, hi *Sample, f float64) {
	n := len(t.samples)
	if n == 1 {
		return &t.samples[0], &t.samples[0], 0
	}
	i := 0
	for i < n-2 && e > t.samples[i+1].E {
		i++
	}
	lo, hi = &t.samples[i], &t.samples[i+1]
	return lo, hi, (e - lo.E) / (hi.E - lo.E)
}

// Lookup interpolates the coefficients for charge q at field e and returns the
// local slope of the tabulated <100> speed with respect to field.
func (t *Table) Lookup(e float64, q sim.Charge) (c Coeffs, dvdE float64) {
	lo, hi, f := t.bracket(e)
	if q > 0 {
		c = lo.Hole.lerp(hi.Hole, f)
		if hi != lo {
			dvdE = (hi.H100 - lo.H100) / (hi.E - lo.E)
		}
		return c, dvdE
	}
	c = lo.Electron.lerp(hi.Electron, f)
	if hi != lo {
		dvdE = (hi.E100 - lo.E100) / (hi.E - lo.E)
	}
	return c, dvdE
}
