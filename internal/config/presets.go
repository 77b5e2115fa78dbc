package config

import "sort"

var Presets = map[string]*Config{
	"light-speed": {
		Name:    "light-speed",
		Initial: map[string]float64{"s": 0, "t": 0, "v": 0, "a": 9.8},
		Final:   map[string]float64{"v": 3e8},
		Find:    []string{"t1", "s1"},
		Samples: DefaultSamples, Tolerance: DefaultTolerance,
	},
	"free-fall": {
		Name:    "free-fall",
		Initial: map[string]float64{"s": 0, "t": 0, "v": 0, "a": 9.81},
		Final:   map[string]float64{"t": 3},
		Find:    []string{"v1", "s1"},
		Samples: DefaultSamples, Tolerance: DefaultTolerance,
	},
	"braking": {
		Name:    "braking",
		Initial: map[string]float64{"s": 0, "t": 0, "v": 27.8, "a": -7.5},
		Final:   map[string]float64{"v": 0},
		Find:    []string{"t1", "s1"},
		Samples: DefaultSamples, Tolerance: DefaultTolerance,
	},
	"ramp": {
		Name:    "ramp",
		Initial: map[string]float64{"s": 0, "t": 0, "v": 0},
		Final:   map[string]float64{"s": 100, "t": 10},
		Find:    []string{"a0", "v1"},
		Samples: DefaultSamples, Tolerance: DefaultTolerance,
	},
	"coast": {
		Name:    "coast",
		Initial: map[string]float64{"s": 0, "t": 0, "v": 12, "a": 0},
		Final:   map[string]float64{"v": 12, "t": 5},
		Find:    []string{"s1"},
		Samples: DefaultSamples, Tolerance: DefaultTolerance,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
