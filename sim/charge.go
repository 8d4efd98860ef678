package sim

import "fmt"

// Charge identifies the carrier species drifting through the crystal.
// The numeric value is the sign of the carrier charge.
type Charge int

const (
	Electron Charge = -1
	Hole     Charge = 1
)

// Sign returns -1 for electrons and +1 for holes.
func (q Charge) Sign() float64 {
	if q < 0 {
		return -1
	}
	return 1
}

func (q Charge) String() string {
	switch q {
	case Electron:
		return "electron"
	case Hole:
		return "hole"
	default:
		return fmt.Sprintf("Charge(%d)", int(q))
	}
}

// ParseCharge accepts "e", "electron", "h" or "hole".
func ParseCharge(s string) (Charge, error) {
	switch s {
	case "e", "electron", "electrons", "-1":
		return Electron, nil
	case "h", "hole", "holes", "1", "+1":
		return Hole, nil
	}
	return 0, fmt.Errorf("unknown charge %q (want electron or hole)", s)
}

// CylPoint is a point or vector in cylindrical coordinates. Azimuthal symmetry
// is assumed everywhere in the field tables, so Phi is never used for lookups;
// points built from Cartesian coordinates by the detector carry Phi = 0.
type CylPoint struct {
	R   float64
	Phi float64
	Z   float64
}

// Resolution classifies how a point was mapped onto the field grid.
type Resolution int

const (
	// Outside means the point is outside the crystal or too far from valid field data.
	Outside Resolution = iota
	// Interior means the point's own grid cell holds field data at all four corners.
	Interior
	// Extrapolated means a neighbouring cell was used and values are extrapolated.
	Extrapolated
)

func (r Resolution) String() string {
	switch r {
	case Interior:
		return "interior"
	case Extrapolated:
		return "extrapolated"
	default:
		return "outside"
	}
}
