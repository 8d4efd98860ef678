package detector

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/siggen-go/siggen/sim"
	"github.com/siggen-go/siggen/sim/field"
	"github.com/siggen-go/siggen/sim/velocity"
)

// axisTolerance is the radius (mm) below which the field is treated as purely axial.
const axisTolerance = 0.001

// Params selects the drift model and crystal temperature.
type Params struct {
	Temperature float64
	Model       sim.ModelKind
	Hole        sim.HoleParams
	K0          sim.K0Params
}

// ParamsFromConfig extracts drift parameters from a defaulted config.
func ParamsFromConfig(cfg *sim.DetectorConfig) Params {
	p := Params{
		Temperature: cfg.Temperature,
		Model:       cfg.Velocity.Model,
		Hole:        sim.DefaultHoleParams(),
		K0:          cfg.K0Params(),
	}
	if cfg.Velocity.Hole != nil {
		p.Hole = *cfg.Velocity.Hole
	}
	return p
}

// driftState is an immutable snapshot of everything temperature dependent.
type driftState struct {
	temperature float64
	table       *velocity.Table
	kind        sim.ModelKind
	hole        sim.HoleParams
	k0          sim.K0Params
	model       sim.DriftModel
}

// rebuild returns a copy of s with a new model built from its fields.
func (s driftState) rebuild() (*driftState, error) {
	model, err := velocity.NewDriftModel(s.kind, s.table, s.hole, s.k0)
	if err != nil {
		return nil, err
	}
	s.model = model
	return &s, nil
}

// Detector answers field and drift queries for one detector configuration.
type Detector struct {
	sampler *field.Sampler
	raw     *velocity.RawTable

	mu    sync.Mutex // serializes state writers
	state atomic.Pointer[driftState]
}

// New loads every table named by cfg and builds a Detector. cfg must have had
// defaults applied; it is validated here.
func New(cfg *sim.DetectorConfig) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	geom := cfg.Geometry.Cylinder()
	grid, err := field.CrystalGrid(geom.Radius, geom.Length, cfg.Grid.Step)
	if err != nil {
		return nil, fmt.Errorf("detector setup: %w", err)
	}
	axes := field.AxesFromConfig(cfg.Impurity)
	fields, err := field.LoadFieldTable(cfg.Fields, grid, geom, axes)
	if err != nil {
		return nil, fmt.Errorf("detector setup: %w", err)
	}
	wp, err := field.LoadWeightingPotential(cfg.WeightingPotential, grid)
	if err != nil {
		return nil, fmt.Errorf("detector setup: %w", err)
	}
	sampler, err := field.NewSampler(grid, geom, wp, fields, axes)
	if err != nil {
		return nil, fmt.Errorf("detector setup: %w", err)
	}
	raw, err := velocity.LoadRawTable(cfg.Velocity.Table)
	if err != nil {
		return nil, fmt.Errorf("detector setup: %w", err)
	}
	return NewFromTables(sampler, raw, ParamsFromConfig(cfg))
}

// NewFromTables builds a Detector from already populated tables. A temperature
// outside [sim.MinTemp, sim.MaxTemp] is clamped with a warning.
func NewFromTables(sampler *field.Sampler, raw *velocity.RawTable, p Params) (*Detector, error) {
	if sampler == nil {
		return nil, fmt.Errorf("detector setup: field sampler is required")
	}
	t := p.Temperature
	switch {
	case math.IsNaN(t):
		return nil, fmt.Errorf("detector setup: %w: temperature is NaN", sim.ErrTemperatureOutOfRange)
	case t < sim.MinTemp:
		logrus.Warnf("Crystal temperature %.1f K is below the minimum; using %.1f K", t, sim.MinTemp)
		t = sim.MinTemp
	case t > sim.MaxTemp:
		logrus.Warnf("Crystal temperature %.1f K is above the maximum; using %.1f K", t, sim.MaxTemp)
		t = sim.MaxTemp
	}
	table, err := velocity.Build(raw, t)
	if err != nil {
		return nil, fmt.Errorf("detector setup: %w", err)
	}
	if p.Model == "" {
		p.Model = sim.EmpiricalModel
	}
	st, err := driftState{temperature: t, table: table, kind: p.Model, hole: p.Hole, k0: p.K0}.rebuild()
	if err != nil {
		return nil, fmt.Errorf("detector setup: %w", err)
	}

	d := &Detector{sampler: sampler, raw: raw}
	d.state.Store(st)
	logrus.Infof("Detector ready: grid %v, temperature %.1f K, %s drift model", sampler.Grid(), t, p.Model)
	return d, nil
}

// Sampler returns the detector's field sampler.
func (d *Detector) Sampler() *field.Sampler {
	return d.sampler
}

// Temperature returns the crystal temperature currently in effect.
func (d *Detector) Temperature() float64 {
	return d.state.Load().temperature
}

// VelocityTable returns the lookup table currently in effect.
func (d *Detector) VelocityTable() *velocity.Table {
	return d.state.Load().table
}

// Model returns the configured drift model kind.
func (d *Detector) Model() sim.ModelKind {
	return d.state.Load().kind
}

// HoleParams returns the analytic hole model parameters currently in effect.
func (d *Detector) HoleParams() sim.HoleParams {
	return d.state.Load().hole
}

// K0Params returns the anisotropy polynomial currently in effect.
func (d *Detector) K0Params() sim.K0Params {
	return d.state.Load().k0
}

// update applies fn to a copy of the current state and publishes the result.
// The current state is left in place if fn or the model rebuild fails.
func (d *Detector) update(fn func(s *driftState) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	next := *d.state.Load()
	if err := fn(&next); err != nil {
		return err
	}
	st, err := next.rebuild()
	if err != nil {
		return err
	}
	d.state.Store(st)
	return nil
}

// SetTemperature rebuilds the velocity lookup table for crystal temperature t (K).
// Temperatures outside [sim.MinTemp, sim.MaxTemp] are rejected and the previous
// table stays in effect.
func (d *Detector) SetTemperature(t float64) error {
	if !(t >= sim.MinTemp && t <= sim.MaxTemp) {
		logrus.Warnf("Crystal temperature %v K is outside [%.0f, %.0f] K; keeping %.1f K", t, sim.MinTemp, sim.MaxTemp, d.Temperature())
		return fmt.Errorf("set temperature: %w: %v K not in [%v, %v]", sim.ErrTemperatureOutOfRange, t, sim.MinTemp, sim.MaxTemp)
	}
	return d.update(func(s *driftState) error {
		table, err := velocity.Build(d.raw, t)
		if err != nil {
			return fmt.Errorf("set temperature: %w", err)
		}
		s.temperature = t
		s.table = table
		return nil
	})
}

// SetHoleModelParams replaces the analytic hole model parameters. They are
// validated even when the empirical model is selected.
func (d *Detector) SetHoleModelParams(p sim.HoleParams) error {
	if err := velocity.ValidateHoleParams(p); err != nil {
		return fmt.Errorf("set hole model params: %w", err)
	}
	return d.update(func(s *driftState) error {
		s.hole = p
		return nil
	})
}

// SetAnisotropyParams replaces the k0 polynomial of the analytic hole model.
func (d *Detector) SetAnisotropyParams(k0 sim.K0Params) error {
	if err := velocity.ValidateK0Params(k0); err != nil {
		return fmt.Errorf("set anisotropy params: %w", err)
	}
	return d.update(func(s *driftState) error {
		s.k0 = k0
		return nil
	})
}

// SetModel switches between the empirical and analytic hole drift models.
func (d *Detector) SetModel(kind sim.ModelKind) error {
	if !sim.ValidModelKinds[kind] {
		return fmt.Errorf("set model: unknown drift model %q", kind)
	}
	return d.update(func(s *driftState) error {
		s.kind = kind
		return nil
	})
}

// cylindrical maps pt onto the (r, z) half-plane. The field is azimuthally
// symmetric, so Phi is always zero and the field's Phi component stays zero.
func cylindrical(pt r3.Vec) sim.CylPoint {
	return sim.CylPoint{R: math.Hypot(pt.X, pt.Y), Z: pt.Z}
}

func outOfDomain(pt r3.Vec) error {
	return fmt.Errorf("%w: (%g, %g, %g)", sim.ErrOutOfDomain, pt.X, pt.Y, pt.Z)
}

func probeOrScratch(p *Probe) *Probe {
	if p == nil {
		return &Probe{}
	}
	return p
}

// WeightingPotential returns the weighting potential at Cartesian point pt (mm).
// p may be nil. The error wraps sim.ErrOutOfDomain when pt cannot be located.
func (d *Detector) WeightingPotential(pt r3.Vec, p *Probe) (float64, error) {
	p = probeOrScratch(p)
	wp, res := d.sampler.WeightingPotential(cylindrical(pt), &p.memo)
	p.Resolution = res
	if res == sim.Outside {
		return 0, outOfDomain(pt)
	}
	return wp, nil
}

// ElectricField returns the field at Cartesian point pt in cylindrical
// components (V/cm). The Phi component is always zero. p may be nil.
func (d *Detector) ElectricField(pt r3.Vec, p *Probe) (sim.CylPoint, error) {
	p = probeOrScratch(p)
	e, res := d.sampler.ElectricField(cylindrical(pt), &p.memo)
	p.Resolution = res
	if res == sim.Outside {
		return sim.CylPoint{}, outOfDomain(pt)
	}
	return e, nil
}

// DriftVelocity returns the drift velocity (mm/ns) of charge q at Cartesian point
// pt and records dv/dE and v/E on p. Extrapolated points are accepted.
func (d *Detector) DriftVelocity(pt r3.Vec, q sim.Charge, p *Probe) (r3.Vec, error) {
	p = probeOrScratch(p)
	p.DvDE, p.VOverE = 0, 0
	e, err := d.ElectricField(pt, p)
	if err != nil {
		return r3.Vec{}, err
	}
	mag, dir := fieldDirection(pt, e)
	res := d.state.Load().model.Velocity(mag, dir, q)
	p.DvDE, p.VOverE = res.DvDE, res.VOverE
	return res.V, nil
}

// fieldDirection returns the field magnitude and its direction in crystal axes.
// Within axisTolerance of the axis only the axial component is kept. A zero field
// has no direction.
func fieldDirection(pt r3.Vec, e sim.CylPoint) (float64, r3.Vec) {
	mag := math.Hypot(e.R, e.Z)
	if mag == 0 {
		return 0, r3.Vec{}
	}
	enR, enZ := e.R/mag, e.Z/mag
	r := math.Hypot(pt.X, pt.Y)
	if r <= axisTolerance {
		return mag, r3.Vec{Z: enZ}
	}
	return mag, r3.Vec{X: enR * pt.X / r, Y: enR * pt.Y / r, Z: enZ}
}
