package velocity

import (
	"fmt"
	"math"

	"github.com/siggen-go/siggen/sim"
)

// ValidateHoleParams checks the closed-form hole model can be evaluated.
// A zero mobility is allowed; it yields a zero velocity.
func ValidateHoleParams(p sim.HoleParams) error {
	axes := []struct {
		name          string
		mu0, beta, e0 float64
	}{
		{"h100", p.H100Mu0, p.H100Beta, p.H100E0},
		{"h111", p.H111Mu0, p.H111Beta, p.H111E0},
	}
	for _, a := range axes {
		if a.mu0 < 0 || math.IsNaN(a.mu0) || math.IsInf(a.mu0, 0) {
			return fmt.Errorf("drift model: %s mu0 must be >= 0 and finite, got %v", a.name, a.mu0)
		}
		if !(a.beta > 0) || math.IsInf(a.beta, 0) {
			return fmt.Errorf("drift model: %s beta must be a valid positive number, got %v", a.name, a.beta)
		}
		if !(a.e0 > 0) || math.IsInf(a.e0, 0) {
			return fmt.Errorf("drift model: %s e0 must be a valid positive number, got %v", a.name, a.e0)
		}
	}
	return nil
}

// ValidateK0Params rejects non-finite anisotropy polynomial coefficients.
func ValidateK0Params(k0 sim.K0Params) error {
	for i, k := range k0 {
		if math.IsNaN(k) || math.IsInf(k, 0) {
			return fmt.Errorf("drift model: k0[%d] is not finite", i)
		}
	}
	return nil
}

// NewDriftModel creates the DriftModel selected by kind.
// Returns AnalyticHole for sim.AnalyticHoleModel, Empirical otherwise.
func NewDriftModel(kind sim.ModelKind, table *Table, hole sim.HoleParams, k0 sim.K0Params) (sim.DriftModel, error) {
	if table == nil || table.Len() == 0 {
		return nil, fmt.Errorf("drift model: %w: empty velocity table", sim.ErrMalformedTable)
	}
	switch kind {
	case sim.AnalyticHoleModel:
		if err := ValidateHoleParams(hole); err != nil {
			return nil, err
		}
		if err := ValidateK0Params(k0); err != nil {
			return nil, err
		}
		return NewAnalyticHole(table, hole, k0), nil
	case sim.EmpiricalModel, "":
		return NewEmpirical(table), nil
	default:
		return nil, fmt.Errorf("drift model: unknown kind %q", kind)
	}
}
