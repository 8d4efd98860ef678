package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Crystal temperature limits in Kelvin. Tabulated drift velocities are measured at RefTemp.
const (
	RefTemp = 77.0
	MinTemp = 40.0
	MaxTemp = 120.0
)

// DetectorConfig is the full detector description loadable from a YAML file.
type DetectorConfig struct {
	Geometry           GeometryConfig `yaml:"geometry"`
	Grid               GridConfig     `yaml:"grid"`
	Temperature        float64        `yaml:"temperature"` // Kelvin; clamped to [MinTemp, MaxTemp] at setup
	Velocity           VelocityConfig `yaml:"velocity"`
	Impurity           ImpurityConfig `yaml:"impurity"`
	Fields             []FieldFile    `yaml:"fields"`
	WeightingPotential string         `yaml:"weighting_potential"`
}

// GeometryConfig describes the crystal volume.
type GeometryConfig struct {
	Radius   float64 `yaml:"radius"`    // mm
	Length   float64 `yaml:"length"`    // mm
	PCRadius float64 `yaml:"pc_radius"` // mm
	PCLength float64 `yaml:"pc_length"` // mm
}

// Cylinder returns the Geometry described by the config.
func (g GeometryConfig) Cylinder() Cylinder {
	return Cylinder{Radius: g.Radius, Length: g.Length, PCRadius: g.PCRadius, PCLength: g.PCLength}
}

// GridConfig holds the field-grid spacing. The grid spans [0, radius] x [0, length].
type GridConfig struct {
	Step float64 `yaml:"step"` // mm
}

// VelocityConfig selects the drift velocity table and model.
type VelocityConfig struct {
	Table string      `yaml:"table"`
	Model ModelKind   `yaml:"model"`
	Hole  *HoleParams `yaml:"hole"`
	K0    []float64   `yaml:"k0"`
}

// ImpurityConfig describes the discretized impurity-profile axes of the field tables
// and the detector's setpoints on them.
type ImpurityConfig struct {
	NumGrads int     `yaml:"num_grads"`
	NumImps  int     `yaml:"num_imps"`
	MinGrad  float64 `yaml:"min_grad"`
	GradStep float64 `yaml:"grad_step"`
	MinAvg   float64 `yaml:"min_avg"`
	AvgStep  float64 `yaml:"avg_step"`
	Gradient float64 `yaml:"gradient"`
	Average  float64 `yaml:"average"`
}

// FieldFile names one field table and its position on the impurity axes.
type FieldFile struct {
	Path      string `yaml:"path"`
	GradIndex int    `yaml:"grad_index"`
	ImpIndex  int    `yaml:"imp_index"`
}

// LoadDetectorConfig reads and parses a YAML detector configuration file.
// Relative table paths are resolved against the config file's directory.
// Defaults are applied; the result is not validated.
func LoadDetectorConfig(path string) (*DetectorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading detector config: %w", err)
	}
	var cfg DetectorConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing detector config: %w", err)
	}
	dir := filepath.Dir(path)
	cfg.Velocity.Table = resolvePath(dir, cfg.Velocity.Table)
	cfg.WeightingPotential = resolvePath(dir, cfg.WeightingPotential)
	for i := range cfg.Fields {
		cfg.Fields[i].Path = resolvePath(dir, cfg.Fields[i].Path)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// ApplyDefaults fills unset optional fields.
func (c *DetectorConfig) ApplyDefaults() {
	if c.Temperature == 0 {
		c.Temperature = RefTemp
	}
	if c.Velocity.Model == "" {
		c.Velocity.Model = EmpiricalModel
	}
	if c.Velocity.Hole == nil {
		hp := DefaultHoleParams()
		c.Velocity.Hole = &hp
	}
	if len(c.Velocity.K0) == 0 {
		k0 := DefaultK0Params()
		c.Velocity.K0 = k0[:]
	}
	if c.Impurity.NumGrads == 0 {
		c.Impurity.NumGrads = 1
	}
	if c.Impurity.NumImps == 0 {
		c.Impurity.NumImps = 1
	}
	if c.Impurity.GradStep == 0 {
		c.Impurity.GradStep = 1
	}
	if c.Impurity.AvgStep == 0 {
		c.Impurity.AvgStep = 1
	}
}

// K0Params returns the configured k0 polynomial. Validate must have succeeded.
func (c *DetectorConfig) K0Params() K0Params {
	var k K0Params
	copy(k[:], c.Velocity.K0)
	return k
}

func invalidPositive(v float64) bool {
	return v <= 0 || math.IsNaN(v) || math.IsInf(v, 0)
}

func invalidFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// Validate checks every field and returns an error listing all problems, or nil.
func (c *DetectorConfig) Validate() error {
	var problems []string

	if invalidPositive(c.Geometry.Radius) {
		problems = append(problems, fmt.Sprintf("geometry.radius must be a valid positive number, got %v", c.Geometry.Radius))
	}
	if invalidPositive(c.Geometry.Length) {
		problems = append(problems, fmt.Sprintf("geometry.length must be a valid positive number, got %v", c.Geometry.Length))
	}
	if c.Geometry.PCRadius < 0 || c.Geometry.PCLength < 0 {
		problems = append(problems, "geometry point contact dimensions must be >= 0")
	}
	if invalidPositive(c.Grid.Step) {
		problems = append(problems, fmt.Sprintf("grid.step must be a valid positive number, got %v", c.Grid.Step))
	}
	if invalidFinite(c.Temperature) {
		problems = append(problems, fmt.Sprintf("temperature must be finite, got %v", c.Temperature))
	}
	if c.Velocity.Table == "" {
		problems = append(problems, "velocity.table is required")
	}
	if !ValidModelKinds[c.Velocity.Model] {
		problems = append(problems, fmt.Sprintf("unknown velocity.model %q", c.Velocity.Model))
	}
	if len(c.Velocity.K0) != 4 {
		problems = append(problems, fmt.Sprintf("velocity.k0 requires exactly 4 coefficients, got %d", len(c.Velocity.K0)))
	}
	for i, k := range c.Velocity.K0 {
		if invalidFinite(k) {
			problems = append(problems, fmt.Sprintf("velocity.k0[%d] must be finite, got %v", i, k))
		}
	}
	if h := c.Velocity.Hole; h != nil {
		fields := []struct {
			name string
			v    float64
		}{
			{"h100_mu0", h.H100Mu0}, {"h100_beta", h.H100Beta}, {"h100_e0", h.H100E0},
			{"h111_mu0", h.H111Mu0}, {"h111_beta", h.H111Beta}, {"h111_e0", h.H111E0},
		}
		for _, f := range fields {
			if invalidFinite(f.v) {
				problems = append(problems, fmt.Sprintf("velocity.hole.%s must be finite, got %v", f.name, f.v))
			}
		}
	}
	imp := c.Impurity
	if imp.NumGrads <= 0 || imp.NumImps <= 0 {
		problems = append(problems, fmt.Sprintf("impurity axes must have at least one entry, got num_grads=%d num_imps=%d", imp.NumGrads, imp.NumImps))
	}
	if invalidPositive(imp.GradStep) || invalidPositive(imp.AvgStep) {
		problems = append(problems, fmt.Sprintf("impurity steps must be valid positive numbers, got grad_step=%v avg_step=%v", imp.GradStep, imp.AvgStep))
	}
	if len(c.Fields) == 0 {
		problems = append(problems, "at least one field table is required")
	}
	seen := make(map[[2]int]int, len(c.Fields))
	for i, f := range c.Fields {
		if f.Path == "" {
			problems = append(problems, fmt.Sprintf("fields[%d].path is required", i))
		}
		if f.GradIndex < 0 || f.GradIndex >= imp.NumGrads || f.ImpIndex < 0 || f.ImpIndex >= imp.NumImps {
			problems = append(problems, fmt.Sprintf("fields[%d] index (%d,%d) outside impurity axes %dx%d", i, f.GradIndex, f.ImpIndex, imp.NumGrads, imp.NumImps))
			continue
		}
		key := [2]int{f.GradIndex, f.ImpIndex}
		if prev, ok := seen[key]; ok {
			problems = append(problems, fmt.Sprintf("fields[%d] duplicates impurity slice (%d,%d) of fields[%d]", i, f.GradIndex, f.ImpIndex, prev))
			continue
		}
		seen[key] = i
	}
	// Every impurity slice must be tabulated; a missing one would interpolate against zeros.
	if len(c.Fields) > 0 {
		var missing []string
		for g := 0; g < imp.NumGrads; g++ {
			for j := 0; j < imp.NumImps; j++ {
				if _, ok := seen[[2]int{g, j}]; !ok {
					missing = append(missing, fmt.Sprintf("(%d,%d)", g, j))
				}
			}
		}
		if len(missing) > 0 {
			problems = append(problems, fmt.Sprintf("no field table for impurity slices %s", strings.Join(missing, " ")))
		}
	}
	if c.WeightingPotential == "" {
		problems = append(problems, "weighting_potential is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid detector config: %s", strings.Join(problems, "; "))
	}
	return nil
}
