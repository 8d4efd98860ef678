package sim

import "gonum.org/v1/gonum/spatial/r3"

// DriftModel maps the local electric field onto a carrier drift velocity.
// Two implementations exist in sim/velocity: the empirical anisotropic model
// driven by the lookup table, and the analytic hole model which handles holes
// in closed form and defers electrons to the empirical model.
// Velocities are in mm/ns; fields in V/cm.
type DriftModel interface {
	// Velocity returns the drift velocity for charge q in a field of magnitude e
	// pointing along dir. dir is expressed in the crystal's cubic axes and is a unit
	// vector except close to the symmetry axis, where its transverse part is dropped.
	Velocity(e float64, dir r3.Vec, q Charge) DriftResult
}

// DriftResult carries a drift velocity together with the auxiliary diagnostics
// consumed by signal generation.
type DriftResult struct {
	V      r3.Vec  // drift velocity (mm/ns)
	DvDE   float64 // local slope of tabulated <100> speed with respect to field
	VOverE float64 // drift speed divided by field magnitude
}

// ModelKind selects a DriftModel implementation at configuration time.
type ModelKind string

const (
	EmpiricalModel    ModelKind = "empirical"
	AnalyticHoleModel ModelKind = "analytic-hole"
)

// ValidModelKinds is the set of recognized drift model names.
var ValidModelKinds = map[ModelKind]bool{"": true, EmpiricalModel: true, AnalyticHoleModel: true}

// HoleParams parameterizes the closed-form hole mobility model
// v(E) = mu0*E / (1+(E/E0)^beta)^(1/beta) along <100> and <111>.
type HoleParams struct {
	H100Mu0  float64 `yaml:"h100_mu0"`
	H100Beta float64 `yaml:"h100_beta"`
	H100E0   float64 `yaml:"h100_e0"`
	H111Mu0  float64 `yaml:"h111_mu0"`
	H111Beta float64 `yaml:"h111_beta"`
	H111E0   float64 `yaml:"h111_e0"`
}

// K0Params holds the cubic polynomial k0(v_rel) = K0 + K1*v + K2*v^2 + K3*v^3
// relating the <111>/<100> speed ratio to the anisotropy parameter k0.
type K0Params [4]float64

// DefaultHoleParams returns the Reggiani-fit hole mobility parameters for germanium.
func DefaultHoleParams() HoleParams {
	return HoleParams{
		H100Mu0: 61824, H100Beta: 0.942, H100E0: 185,
		H111Mu0: 61215, H111Beta: 0.662, H111E0: 182,
	}
}

// DefaultK0Params returns the reference k0 polynomial coefficients.
func DefaultK0Params() K0Params {
	return K0Params{9.2652, -26.3467, 29.6137, -12.3689}
}
