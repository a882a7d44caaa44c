// Copyright 2023 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS-IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package snap

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig is the TOML layout of a configuration file. Unset fields keep
// the value of the preset named by performance_level.
//
//	performance_level = "high"
//	tolerance = 12
//	max_results = 80
//	debug = true
//	grid_spacing = 5
//	enabled = ["endpoint", "midpoint", "center"]
//
//	[priority]
//	endpoint = 100
//	midpoint = 60
type fileConfig struct {
	PerformanceLevel string             `toml:"performance_level"`
	Tolerance        *float64           `toml:"tolerance"`
	MaxResults       *int               `toml:"max_results"`
	Debug            *bool              `toml:"debug"`
	GridSpacing      *float64           `toml:"grid_spacing"`
	Enabled          []string           `toml:"enabled"`
	Priority         map[string]float64 `toml:"priority"`
}

// LoadConfigFile reads a TOML configuration file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading snap config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes a TOML configuration document layered over its preset.
// Out-of-range numbers are clamped like the matching Option would.
func ParseConfig(data []byte) (Config, error) {
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parsing snap config: %w", err)
	}

	level := PerformanceBalanced
	if fc.PerformanceLevel != "" {
		l, err := ParsePerformanceLevel(fc.PerformanceLevel)
		if err != nil {
			return Config{}, err
		}
		level = l
	}
	cfg := Preset(level)

	var opts []Option
	if fc.Tolerance != nil {
		opts = append(opts, WithTolerance(*fc.Tolerance))
	}
	if fc.MaxResults != nil {
		opts = append(opts, WithMaxResults(*fc.MaxResults))
	}
	if fc.Debug != nil {
		opts = append(opts, WithDebugMode(*fc.Debug))
	}
	if fc.GridSpacing != nil {
		opts = append(opts, WithGridSpacing(*fc.GridSpacing))
	}
	if fc.Enabled != nil {
		types := make([]TargetType, 0, len(fc.Enabled))
		for _, name := range fc.Enabled {
			t, err := ParseTargetType(name)
			if err != nil {
				return Config{}, fmt.Errorf("enabled: %w", err)
			}
			types = append(types, t)
		}
		opts = append(opts, WithEnabledTypes(types...))
	}
	for name, w := range fc.Priority {
		t, err := ParseTargetType(name)
		if err != nil {
			return Config{}, fmt.Errorf("priority: %w", err)
		}
		opts = append(opts, WithPriority(t, w))
	}
	cfg.Apply(opts...)
	return cfg, nil
}
