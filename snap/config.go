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
	"maps"
	"math"
)

// Tolerance and priority weight limits.
const (
	MinTolerance     = 1
	MaxTolerance     = 100
	DefaultTolerance = 10

	MaxWeight = 100

	DefaultMaxResults = 50
)

// Config controls target generation and selection.
type Config struct {
	// Tolerance is the largest cursor-to-target distance that can snap.
	Tolerance float64

	EnabledTypes TypeSet

	// Priority holds a weight in [0, 100] per target type. A target's final
	// priority is BasePriority(type) × weight / 100. Missing types weigh 100.
	Priority map[TargetType]float64

	// MaxResults bounds the number of candidate geometries taken from the
	// spatial index per query.
	MaxResults int

	// PerformanceLevel is advisory: it records which preset the other fields
	// came from and changes nothing by itself.
	PerformanceLevel PerformanceLevel

	DebugMode bool

	// GridSpacing is the pitch of grid targets; zero disables them.
	GridSpacing float64
}

// DefaultConfig returns the balanced preset.
func DefaultConfig() Config {
	return Preset(PerformanceBalanced)
}

// DefaultPriorities returns the default per-type weights. They offset the
// base priorities so that the generated kinds start out close together and
// distance decides between nearby targets of different kinds.
func DefaultPriorities() map[TargetType]float64 {
	return map[TargetType]float64{
		TargetEndpoint:      80,
		TargetVertex:        80,
		TargetCenter:        90,
		TargetMidpoint:      100,
		TargetIntersection:  100,
		TargetPerpendicular: 70,
		TargetTangent:       70,
		TargetNearest:       60,
		TargetGrid:          50,
		TargetEdge:          60,
	}
}

// BasePriority returns the fixed, non-configurable priority of a target type.
func BasePriority(t TargetType) float64 {
	switch t {
	case TargetEndpoint, TargetVertex:
		return 100
	case TargetCenter:
		return 90
	case TargetMidpoint:
		return 80
	case TargetNearest:
		return 50
	case TargetGrid:
		return 40
	case TargetNone:
		return 0
	}
	return 70
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c.Priority = maps.Clone(c.Priority)
	return c
}

// Weight returns the configured weight of t.
func (c Config) Weight(t TargetType) float64 {
	if w, ok := c.Priority[t]; ok {
		return w
	}
	return MaxWeight
}

// TargetPriority returns the final priority of a target of type t.
func (c Config) TargetPriority(t TargetType) float64 {
	return BasePriority(t) * c.Weight(t) / MaxWeight
}

// Normalized returns a copy of c with every numeric field clamped the way
// the matching Option clamps it.
func (c Config) Normalized() Config {
	c = c.Clone()
	c.Tolerance = ClampTolerance(c.Tolerance)
	c.MaxResults = max(1, c.MaxResults)
	for t, w := range c.Priority {
		c.Priority[t] = clampWeight(w)
	}
	if !(c.GridSpacing > 0) || math.IsInf(c.GridSpacing, 0) {
		c.GridSpacing = 0
	}
	return c
}

// Apply applies the options to c in order.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Option mutates a Config.
type Option func(*Config)

// ClampTolerance limits t to [MinTolerance, MaxTolerance]. NaN maps to
// DefaultTolerance.
func ClampTolerance(t float64) float64 {
	if math.IsNaN(t) {
		return DefaultTolerance
	}
	return math.Max(MinTolerance, math.Min(MaxTolerance, t))
}

func clampWeight(w float64) float64 {
	if math.IsNaN(w) {
		return MaxWeight
	}
	return math.Max(0, math.Min(MaxWeight, w))
}

func WithTolerance(t float64) Option {
	return func(c *Config) { c.Tolerance = ClampTolerance(t) }
}

// WithEnabledTypes replaces the set of enabled target types.
func WithEnabledTypes(types ...TargetType) Option {
	return func(c *Config) { c.EnabledTypes = NewTypeSet(types...) }
}

// WithSnapType enables or disables a single target type.
func WithSnapType(t TargetType, enabled bool) Option {
	return func(c *Config) {
		if enabled {
			c.EnabledTypes = c.EnabledTypes.With(t)
		} else {
			c.EnabledTypes = c.EnabledTypes.Without(t)
		}
	}
}

func WithPriority(t TargetType, weight float64) Option {
	return func(c *Config) {
		if c.Priority == nil {
			c.Priority = make(map[TargetType]float64)
		}
		c.Priority[t] = clampWeight(weight)
	}
}

// WithPriorities merges the given weights into the configured ones.
func WithPriorities(weights map[TargetType]float64) Option {
	return func(c *Config) {
		for t, w := range weights {
			WithPriority(t, w)(c)
		}
	}
}

func WithMaxResults(n int) Option {
	return func(c *Config) { c.MaxResults = max(1, n) }
}

func WithPerformanceLevel(l PerformanceLevel) Option {
	return func(c *Config) { c.PerformanceLevel = l }
}

func WithDebugMode(on bool) Option {
	return func(c *Config) { c.DebugMode = on }
}

func WithGridSpacing(s float64) Option {
	return func(c *Config) {
		if s > 0 && !math.IsInf(s, 0) {
			c.GridSpacing = s
		} else {
			c.GridSpacing = 0
		}
	}
}
