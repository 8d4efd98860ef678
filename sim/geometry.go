package sim

// Geometry decides whether a cylindrical point lies outside the active crystal volume.
// Implementations must be safe for concurrent use.
type Geometry interface {
	Outside(pt CylPoint) bool
}

// Cylinder is a right-cylinder crystal with an optional cylindrical point contact
// on the z=0 face. Points inside the contact are outside the active volume.
type Cylinder struct {
	Radius   float64 // crystal radius in mm
	Length   float64 // crystal length in mm
	PCRadius float64 // point contact radius in mm (0 = none)
	PCLength float64 // point contact depth in mm (0 = none)
}

func (c Cylinder) Outside(pt CylPoint) bool {
	if pt.R < 0 || pt.R > c.Radius || pt.Z < 0 || pt.Z > c.Length {
		return true
	}
	if c.PCRadius > 0 && c.PCLength > 0 && pt.R < c.PCRadius && pt.Z < c.PCLength {
		return true
	}
	return false
}
