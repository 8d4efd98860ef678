package velocity

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/siggen-go/siggen/sim"
)

// Empirical evaluates drift velocities from a lookup table using the cubic
// anisotropy expansion. The speed along the field is a + b*en4 + c*en6, and the
// bp/cp terms bend the velocity away from the field toward the crystal axes.
type Empirical struct {
	table *Table
}

// NewEmpirical returns an empirical model over table.
func NewEmpirical(table *Table) *Empirical {
	return &Empirical{table: table}
}

// Table returns the model's lookup table.
func (m *Empirical) Table() *Table {
	return m.table
}

func (m *Empirical) Velocity(e float64, dir r3.Vec, q sim.Charge) sim.DriftResult {
	c, dvdE := m.table.Lookup(e, q)
	res := sim.DriftResult{DvDE: dvdE}
	if e == 0 {
		return res
	}

	x2, y2, z2 := dir.X*dir.X, dir.Y*dir.Y, dir.Z*dir.Z
	x4, y4, z4 := x2*x2, y2*y2, z2*z2
	en4 := x4 + y4 + z4
	en6 := x4*x2 + y4*y2 + z4*z2
	absv := c.A + c.B*en4 + c.C*en6
	sign := q.Sign()

	res.VOverE = absv / e
	res.V = r3.Vec{
		X: sign * dir.X * (absv + 4*c.BP*(x2-en4) + 6*c.CP*(x4-en6)),
		Y: sign * dir.Y * (absv + 4*c.BP*(y2-en4) + 6*c.CP*(y4-en6)),
		Z: sign * dir.Z * (absv + 4*c.BP*(z2-en4) + 6*c.CP*(z4-en6)),
	}
	return res
}
