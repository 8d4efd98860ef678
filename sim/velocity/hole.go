package velocity

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/siggen-go/siggen/sim"
)

// mobilityScale converts mu0 [cm^2/Vs] * E [V/cm] into mm/ns.
const mobilityScale = 10 * 1e-9

// AnalyticHole computes hole drift velocities from closed-form mobility curves
// along <100> and <111> with an angular correction for the cubic lattice.
// Electrons are delegated to the empirical table model.
type AnalyticHole struct {
	params    sim.HoleParams
	k0        sim.K0Params
	electrons *Empirical
}

// NewAnalyticHole returns an analytic hole model that uses table for electrons.
func NewAnalyticHole(table *Table, params sim.HoleParams, k0 sim.K0Params) *AnalyticHole {
	return &AnalyticHole{params: params, k0: k0, electrons: NewEmpirical(table)}
}

// mobilitySpeed evaluates v(E) = mu0*E / (1+(E/E0)^beta)^(1/beta) in mm/ns.
func mobilitySpeed(e, mu0, beta, e0 float64) float64 {
	return mu0 * e / math.Pow(1+math.Pow(e/e0, beta), 1/beta) * mobilityScale
}

// mobilitySlope is dv/dE of mobilitySpeed.
func mobilitySlope(e, mu0, beta, e0 float64) float64 {
	return mu0 * math.Pow(1+math.Pow(e/e0, beta), -1/beta-1) * mobilityScale
}

func polynomial(x float64, c ...float64) float64 {
	var sum, p float64 = 0, 1
	for _, ci := range c {
		sum += ci * p
		p *= x
	}
	return sum
}

// local returns the hole velocity in the frame whose first axis is the field
// direction (theta, phi), and the <100> speed.
func (m *AnalyticHole) local(e, theta, phi float64) (r3.Vec, float64) {
	p := m.params
	v100 := mobilitySpeed(e, p.H100Mu0, p.H100Beta, p.H100E0)
	if v100 == 0 {
		return r3.Vec{}, 0
	}
	v111 := mobilitySpeed(e, p.H111Mu0, p.H111Beta, p.H111E0)
	vrel := v111 / v100

	k0 := polynomial(vrel, m.k0[0], m.k0[1], m.k0[2], m.k0[3])
	lambda := polynomial(k0, 0, -0.01322, 0.41145, -0.23657, 0.04077)
	omega := polynomial(k0, 0, 0.006550, -0.19946, 0.09859, -0.01559)

	sinT, cosT := math.Sincos(theta)
	sin2P := math.Sin(2 * phi)
	sin2T := math.Sin(2 * theta)
	sin3T := sinT * sinT * sinT

	return r3.Vec{
		X: v100 * (1 - lambda*(sin3T*sinT*sin2P*sin2P+sin2T*sin2T)),
		Y: v100 * omega * (2*sin3T*cosT*sin2P*sin2P + math.Sin(4*theta)),
		Z: v100 * omega * sin3T * math.Sin(4*phi),
	}, v100
}

// toCrystal returns the rotation from the local field frame to crystal axes.
func toCrystal(theta, phi float64) *r3.Mat {
	sinT, cosT := math.Sincos(theta)
	sinP, cosP := math.Sincos(phi)
	return r3.NewMat([]float64{
		cosP * sinT, cosP * cosT, -sinP,
		sinP * sinT, sinP * cosT, cosP,
		cosT, -sinT, 0,
	})
}

func (m *AnalyticHole) Velocity(e float64, dir r3.Vec, q sim.Charge) sim.DriftResult {
	if q < 0 {
		return m.electrons.Velocity(e, dir, q)
	}
	if e == 0 {
		return sim.DriftResult{}
	}
	phi := math.Atan2(dir.Y, dir.X)
	theta := math.Acos(math.Max(-1, math.Min(1, dir.Z)))

	vl, v100 := m.local(e, theta, phi)
	if v100 == 0 {
		return sim.DriftResult{}
	}
	v := toCrystal(theta, phi).MulVec(vl)
	p := m.params
	return sim.DriftResult{
		V:      v,
		DvDE:   mobilitySlope(e, p.H100Mu0, p.H100Beta, p.H100E0),
		VOverE: r3.Norm(v) / e,
	}
}
