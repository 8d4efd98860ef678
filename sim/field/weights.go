package field

// Weights holds bilinear blending weights for the four corners of a cell,
// indexed [first axis][second axis] with 0 = lower corner, 1 = upper corner.
type Weights [2][2]float64

// Bilinear returns the weights for fractional offsets (f1, f2) within a cell.
// Offsets outside [0, 1] extrapolate; the weights sum to one for any input.
func Bilinear(f1, f2 float64) Weights {
	return Weights{
		{(1 - f1) * (1 - f2), (1 - f1) * f2},
		{f1 * (1 - f2), f1 * f2},
	}
}

// Sum returns the total of the four weights.
func (w Weights) Sum() float64 {
	return w[0][0] + w[0][1] + w[1][0] + w[1][1]
}
