// Package detector is the setup context that ties the field sampler to the drift
// velocity model.
//
// A Detector is built once from a sim.DetectorConfig (or from in-memory tables) and
// then answers three point queries: WeightingPotential, ElectricField and
// DriftVelocity. Queries take Cartesian points in mm and a caller-owned *Probe,
// which carries the locator memo and receives the drift diagnostics.
//
// The velocity lookup table and drift model are held in an immutable state
// published through an atomic pointer. SetTemperature, SetHoleModelParams and
// SetAnisotropyParams build a replacement state and swap it in; queries already in
// flight finish against the state they loaded. Queries are safe for concurrent use
// as long as each goroutine uses its own Probe.
package detector
