package field

import "fmt"

// Table2 is a dense (r, z) table of scalars, such as the weighting potential.
// Reads outside the table return zero.
type Table2 struct {
	rlen, zlen int
	data       []float64
}

// NewTable2 allocates a zeroed rlen x zlen table.
func NewTable2(rlen, zlen int) *Table2 {
	return &Table2{rlen: rlen, zlen: zlen, data: make([]float64, rlen*zlen)}
}

func (t *Table2) offset(ir, iz int) (int, bool) {
	if ir < 0 || ir >= t.rlen || iz < 0 || iz >= t.zlen {
		return 0, false
	}
	return ir*t.zlen + iz, true
}

// At returns the value at node (ir, iz), or zero off the table.
func (t *Table2) At(ir, iz int) float64 {
	off, ok := t.offset(ir, iz)
	if !ok {
		return 0
	}
	return t.data[off]
}

// Set stores v at node (ir, iz).
func (t *Table2) Set(ir, iz int, v float64) error {
	off, ok := t.offset(ir, iz)
	if !ok {
		return fmt.Errorf("node (%d,%d) outside %dx%d table", ir, iz, t.rlen, t.zlen)
	}
	t.data[off] = v
	return nil
}

// Dims returns the table extent.
func (t *Table2) Dims() (rlen, zlen int) {
	return t.rlen, t.zlen
}

// Dims4 is the extent of a Table4.
type Dims4 struct {
	R, Z, Grads, Imps int
}

func (d Dims4) String() string {
	return fmt.Sprintf("%dx%dx%dx%d", d.R, d.Z, d.Grads, d.Imps)
}

// Table4 stores radial and axial field components indexed by
// (r, z, impurity gradient, average impurity), row-major in that order.
// Reads outside the table return a zero field.
type Table4 struct {
	dims Dims4
	er   []float64
	ez   []float64
}

// NewTable4 allocates a zeroed field table.
func NewTable4(d Dims4) (*Table4, error) {
	if d.R <= 0 || d.Z <= 0 || d.Grads <= 0 || d.Imps <= 0 {
		return nil, fmt.Errorf("field table dimensions must be positive, got %v", d)
	}
	n := d.R * d.Z * d.Grads * d.Imps
	return &Table4{dims: d, er: make([]float64, n), ez: make([]float64, n)}, nil
}

// Dims returns the table extent.
func (t *Table4) Dims() Dims4 {
	return t.dims
}

func (t *Table4) offset(ir, iz, ig, ii int) (int, bool) {
	d := t.dims
	if ir < 0 || ir >= d.R || iz < 0 || iz >= d.Z || ig < 0 || ig >= d.Grads || ii < 0 || ii >= d.Imps {
		return 0, false
	}
	return ((ir*d.Z+iz)*d.Grads+ig)*d.Imps + ii, true
}

// At returns the (Er, Ez) sample, or zeros off the table.
func (t *Table4) At(ir, iz, ig, ii int) (er, ez float64) {
	off, ok := t.offset(ir, iz, ig, ii)
	if !ok {
		return 0, 0
	}
	return t.er[off], t.ez[off]
}

// Set stores an (Er, Ez) sample.
func (t *Table4) Set(ir, iz, ig, ii int, er, ez float64) error {
	off, ok := t.offset(ir, iz, ig, ii)
	if !ok {
		return fmt.Errorf("node (%d,%d,%d,%d) outside %v table", ir, iz, ig, ii, t.dims)
	}
	t.er[off] = er
	t.ez[off] = ez
	return nil
}

// HasField reports whether node (ir, iz) of the first impurity slice carries a field.
func (t *Table4) HasField(ir, iz int) bool {
	er, ez := t.At(ir, iz, 0, 0)
	return er != 0 || ez != 0
}
