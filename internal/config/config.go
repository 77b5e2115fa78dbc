package config

import (
	"fmt"
	"os"

	"github.com/san-kum/kinsolve/internal/kinematics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultName      = "problem"
	DefaultSamples   = kinematics.DefaultSamples
	DefaultTolerance = kinematics.DefaultTolerance
)

// Config is a problem file: known values at both instants and the ordered
// targets to solve for.
type Config struct {
	Name      string             `yaml:"name"`
	Initial   map[string]float64 `yaml:"initial"`
	Final     map[string]float64 `yaml:"final"`
	Find      []string           `yaml:"find"`
	Samples   int                `yaml:"samples"`
	Tolerance float64            `yaml:"tolerance"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:      DefaultName,
		Initial:   map[string]float64{},
		Final:     map[string]float64{},
		Samples:   DefaultSamples,
		Tolerance: DefaultTolerance,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy so presets can be edited safely.
func (c *Config) Clone() *Config {
	out := *c
	out.Initial = copyValues(c.Initial)
	out.Final = copyValues(c.Final)
	out.Find = append([]string(nil), c.Find...)
	return &out
}

// Merge overlays non-empty values from other onto c.
func (c *Config) Merge(other *Config) {
	if other.Name != "" {
		c.Name = other.Name
	}
	if c.Initial == nil {
		c.Initial = map[string]float64{}
	}
	if c.Final == nil {
		c.Final = map[string]float64{}
	}
	for k, v := range other.Initial {
		c.Initial[k] = v
	}
	for k, v := range other.Final {
		c.Final[k] = v
	}
	if len(other.Find) > 0 {
		c.Find = append([]string(nil), other.Find...)
	}
	if other.Samples > 0 {
		c.Samples = other.Samples
	}
	if other.Tolerance > 0 {
		c.Tolerance = other.Tolerance
	}
}

// Problem converts the file into solver input.
func (c *Config) Problem() (kinematics.Problem, error) {
	initial, err := kinematics.NewState(kinematics.Initial, c.Initial)
	if err != nil {
		return kinematics.Problem{}, err
	}
	final, err := kinematics.NewState(kinematics.Final, c.Final)
	if err != nil {
		return kinematics.Problem{}, err
	}
	find, err := kinematics.ParseVarRefs(c.Find...)
	if err != nil {
		return kinematics.Problem{}, err
	}
	if len(find) == 0 {
		return kinematics.Problem{}, fmt.Errorf("%w: nothing to find", kinematics.ErrInvalidVarRef)
	}
	return kinematics.Problem{Initial: initial, Final: final, Find: find}, nil
}

func copyValues(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
