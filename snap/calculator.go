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

// Package snap turns a cursor position and a set of nearby geometries into
// a single snap decision.
//
// Every geometry yields typed targets (endpoints, midpoints, centers,
// vertices and so on). Targets farther than the tolerance are discarded and
// the rest are scored as
//
//	score = priority - (distance / tolerance) × 10
//
// The highest score wins. Scores within 0.1 of each other count as a tie,
// which goes to the target closer to the cursor.
package snap

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/akhenakh/geosnap/geometry"
)

// tieEpsilon is the score difference below which two targets are tied.
const tieEpsilon = 0.1

// Calculator generates and scores snap targets under a Config. It holds no
// state besides the configuration.
type Calculator struct {
	cfg Config
}

// NewCalculator returns a calculator using a normalized copy of cfg.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg.Normalized()}
}

// Config returns a copy of the current configuration.
func (c *Calculator) Config() Config {
	return c.cfg.Clone()
}

// Tolerance returns the configured tolerance.
func (c *Calculator) Tolerance() float64 {
	return c.cfg.Tolerance
}

// MaxResults returns the configured candidate limit.
func (c *Calculator) MaxResults() int {
	return c.cfg.MaxResults
}

// DebugMode reports whether debug mode is on.
func (c *Calculator) DebugMode() bool {
	return c.cfg.DebugMode
}

// UpdateConfiguration applies opts to the held configuration.
func (c *Calculator) UpdateConfiguration(opts ...Option) {
	c.cfg.Apply(opts...)
}

// SetSnapTypeEnabled enables or disables one target type.
func (c *Calculator) SetSnapTypeEnabled(t TargetType, enabled bool) {
	c.cfg.Apply(WithSnapType(t, enabled))
}

// IsSnapTypeEnabled reports whether targets of type t are generated.
func (c *Calculator) IsSnapTypeEnabled(t TargetType) bool {
	return c.cfg.EnabledTypes.Has(t)
}

func snappable(g *geometry.Geometry) bool {
	return g.Visible && g.Selectable
}

// CalculateSnap picks the best target among the visible, selectable
// geometries. Targets reference elements of geoms.
func (c *Calculator) CalculateSnap(cursor orb.Point, geoms []geometry.Geometry) Result {
	var targets []Target
	for i := range geoms {
		if snappable(&geoms[i]) {
			targets = append(targets, c.GenerateSnapTargets(&geoms[i])...)
		}
	}
	targets = append(targets, c.continuousTargets(cursor, geoms)...)

	best, dist, ok := SelectTarget(cursor, targets, c.cfg.Tolerance)
	if !ok {
		return NoSnap(cursor)
	}
	return Result{
		Target:    &best,
		Snapped:   true,
		Distance:  dist,
		Cursor:    cursor,
		SnapPoint: best.Point,
		SnapType:  best.Type,
	}
}

// Score combines a target's priority with its distance from the cursor.
func Score(priority, distance, tolerance float64) float64 {
	return priority - (distance/tolerance)*10
}

// SelectTarget returns the highest-scoring target within tolerance of the
// cursor and its distance. It reports false when no target is in range.
func SelectTarget(cursor orb.Point, targets []Target, tolerance float64) (Target, float64, bool) {
	if !(tolerance > 0) {
		return Target{}, 0, false
	}
	best := -1
	var bestScore, bestDist float64
	for i := range targets {
		d := planar.Distance(cursor, targets[i].Point)
		if d > tolerance {
			continue
		}
		s := Score(targets[i].Priority, d, tolerance)
		switch {
		case best < 0:
		case math.Abs(s-bestScore) < tieEpsilon:
			if d >= bestDist {
				continue
			}
		case s < bestScore:
			continue
		}
		best, bestScore, bestDist = i, s, d
	}
	if best < 0 {
		return Target{}, 0, false
	}
	return targets[best], bestDist, true
}
