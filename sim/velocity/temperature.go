package velocity

import (
	"math"

	"github.com/siggen-go/siggen/sim"
)

// TemperatureModel parameterizes the temperature dependence of carrier mobility
// (Omar and Reggiani): mu0(T) = Mu0 * T^Pwr, vsat(T) = B * sqrt(tanh(Theta / 2T)).
type TemperatureModel struct {
	Mu0   float64
	Pwr   float64
	B     float64
	Theta float64
}

// DefaultElectronModel returns the reference electron parameters for germanium.
func DefaultElectronModel() TemperatureModel {
	return TemperatureModel{Mu0: 5.66e7, Pwr: -1.680, B: 1.3e7, Theta: 200}
}

// DefaultHoleModel returns the reference hole parameters for germanium.
func DefaultHoleModel() TemperatureModel {
	return TemperatureModel{Mu0: 1.63e9, Pwr: -2.398, B: 1.2e7, Theta: 200}
}

// saturation returns the saturation velocity and critical field at temperature t.
func (m TemperatureModel) saturation(t float64) (vs, ec float64) {
	mu0 := m.Mu0 * math.Pow(t, m.Pwr)
	vs = m.B * math.Sqrt(math.Tanh(0.5*m.Theta/t))
	return vs, vs / mu0
}

// speed evaluates the saturating drift-speed curve at field e.
func speed(e, vs, ec float64) float64 {
	x := e / ec
	return vs * x / math.Sqrt(1+x*x)
}

// Factor returns the ratio of drift speed at temperature t to drift speed at
// sim.RefTemp for field e. Fields below 1 V/cm are not corrected and return 1.
func (m TemperatureModel) Factor(e, t float64) float64 {
	if e < 1 {
		return 1
	}
	vsRef, ecRef := m.saturation(sim.RefTemp)
	vs, ec := m.saturation(t)
	return speed(e, vs, ec) / speed(e, vsRef, ecRef)
}
