// Package field samples the precomputed electrostatic field and weighting potential
// of a detector.
//
// Tables are stored on a regular (r, z) grid; azimuthal symmetry is assumed. The field
// table carries two extra axes (impurity gradient and average impurity) so that one
// detector can be evaluated at impurity setpoints between the tabulated solutions.
//
// Lookups go through a Locator, which maps a point onto the grid cell whose four
// corners all hold field data, searching the 3x3 neighbourhood of grid steps when the
// point's own cell is empty. Results from neighbouring cells are extrapolated with the
// same bilinear weights used for interpolation.
package field
