// Package sim provides the shared types for the siggen charge-transport engine.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - charge.go: charge carriers, cylindrical points and locator resolution classes
//   - drift_model.go: the DriftModel extension point and its tuning parameters
//   - config.go: detector configuration as loaded from YAML
//
// # Architecture
//
// The sim package defines interfaces and bridge types; implementations live in
// sub-packages:
//   - sim/field/: grid locator, bilinear weights, field and weighting-potential sampling
//   - sim/velocity/: drift velocity lookup tables, temperature correction, drift models
//   - sim/detector/: setup context composing the above behind the public operations
//
// # Key Interfaces
//
//   - Geometry: decides whether a cylindrical point lies outside the crystal
//   - DriftModel: maps a field magnitude, direction and charge to a drift velocity
package sim
