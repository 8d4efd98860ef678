package sim

import "errors"

var (
	// ErrOutOfDomain is returned when a point is outside the crystal or beyond the
	// search neighbourhood of the field grid. Callers skip the point.
	ErrOutOfDomain = errors.New("point outside field domain")

	// ErrImpurityOutOfRange flags impurity setpoints that fall outside the tabulated
	// gradient/average-impurity grid. Computation still proceeds.
	ErrImpurityOutOfRange = errors.New("impurity setpoint outside tabulated range")

	// ErrMalformedTable is returned for missing, unreadable or empty input tables.
	ErrMalformedTable = errors.New("malformed table")

	// ErrTemperatureOutOfRange is returned when a crystal temperature outside
	// [MinTemp, MaxTemp] is requested.
	ErrTemperatureOutOfRange = errors.New("temperature out of range")
)
