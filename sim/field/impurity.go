package field

import (
	"fmt"

	"github.com/siggen-go/siggen/sim"
)

// ImpurityAxes describes the discretized impurity-profile axes of a Table4 and the
// detector's setpoints on them.
type ImpurityAxes struct {
	NumGrads int
	NumImps  int
	MinGrad  float64 // impurity gradient of table slice 0
	GradStep float64
	MinAvg   float64 // average impurity of table slice 0
	AvgStep  float64
	Gradient float64 // configured impurity gradient
	Average  float64 // configured average impurity
}

// AxesFromConfig converts the YAML impurity section.
func AxesFromConfig(c sim.ImpurityConfig) ImpurityAxes {
	return ImpurityAxes{
		NumGrads: c.NumGrads, NumImps: c.NumImps,
		MinGrad: c.MinGrad, GradStep: c.GradStep,
		MinAvg: c.MinAvg, AvgStep: c.AvgStep,
		Gradient: c.Gradient, Average: c.Average,
	}
}

// impuritySlice is the lower (gradient, impurity) slice bracketing the setpoints
// and the weights blending it with its upper neighbours.
type impuritySlice struct {
	grad, imp int
	w         Weights
}

// locate positions the setpoints on the impurity grid. Indices truncate toward
// zero, so a setpoint just below the tabulated range yields index 0 with a
// negative offset. The returned error wraps sim.ErrImpurityOutOfRange when the
// setpoints fall outside the tabulated range; the slice is still usable.
func (a ImpurityAxes) locate() (impuritySlice, error) {
	xg := (a.Gradient - a.MinGrad) / a.GradStep
	xa := (a.Average - a.MinAvg) / a.AvgStep
	ig, ia := int(xg), int(xa)
	fg, fa := xg-float64(ig), xa-float64(ia)
	s := impuritySlice{grad: ig, imp: ia, w: Bilinear(fg, fa)}

	if fg < 0 || fa < 0 || ig < 0 || ia < 0 ||
		ig >= a.NumGrads || ia >= a.NumImps ||
		(ig+1 >= a.NumGrads && fg > 0) || (ia+1 >= a.NumImps && fa > 0) {
		return s, fmt.Errorf("%w: gradient %v (index %d, offset %.4f), average %v (index %d, offset %.4f), table %dx%d",
			sim.ErrImpurityOutOfRange, a.Gradient, ig, fg, a.Average, ia, fa, a.NumGrads, a.NumImps)
	}
	return s, nil
}
