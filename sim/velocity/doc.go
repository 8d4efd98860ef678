// Package velocity builds drift velocity lookup tables and evaluates carrier drift
// velocities in a cubic crystal.
//
// A raw table lists measured drift speeds along the <100>, <110> and <111> axes as a
// function of field magnitude. Build corrects those speeds from the 77 K reference to
// the crystal temperature and derives the anisotropy coefficients used by the
// Empirical model. AnalyticHole replaces the table for holes with a closed-form
// mobility model and an angular correction, and falls back to the table for electrons.
package velocity
