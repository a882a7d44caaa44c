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

package geometry

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// ValidationResult collects the problems found by Validate.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

func (r *ValidationResult) addf(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Validate checks that g is structurally usable. It never fails; callers
// decide what to do with an invalid geometry.
//
// Unset bounds are accepted. Bounds that are set must be ordered and must
// enclose the shape.
func Validate(g Geometry) ValidationResult {
	res := ValidationResult{Valid: true}
	if g.ID == "" {
		res.addf("missing id")
	}
	if g.Shape == nil {
		res.addf("missing shape type")
		return res
	}
	if !g.Bounds.IsZero() {
		if !ValidBound(g.Bounds) {
			res.addf("invalid bounds: min %v exceeds max %v", g.Bounds.Min, g.Bounds.Max)
		}
	}

	switch s := g.Shape.(type) {
	case Line:
		checkFinite(&res, "start", s.Start)
		checkFinite(&res, "end", s.End)
	case Circle:
		checkFinite(&res, "center", s.Center)
		checkRadius(&res, s.Radius)
	case Arc:
		checkFinite(&res, "center", s.Center)
		checkRadius(&res, s.Radius)
		if math.IsNaN(s.StartAngle) || math.IsInf(s.StartAngle, 0) ||
			math.IsNaN(s.EndAngle) || math.IsInf(s.EndAngle, 0) {
			res.addf("arc angles must be finite")
		}
	case Polyline:
		checkVertices(&res, "polyline", s.Points, 2)
	case Polygon:
		checkVertices(&res, "polygon", s.Points, 3)
	case Point:
		checkFinite(&res, "position", s.Position)
	case Spline:
		checkVertices(&res, "spline", s.ControlPoints, 2)
	case Ellipse:
		checkFinite(&res, "center", s.Center)
		checkFinite(&res, "major axis", s.MajorAxis)
		if s.MajorAxis == (orb.Point{}) {
			res.addf("ellipse major axis must be non-zero")
		}
		if !(s.Ratio > 0 && s.Ratio <= 1) {
			res.addf("ellipse ratio %v must be in (0, 1]", s.Ratio)
		}
	case Rectangle:
		checkFinite(&res, "min", s.Min)
		checkFinite(&res, "max", s.Max)
	default:
		res.addf("unknown shape type %T", s)
	}

	if res.Valid && !g.Bounds.IsZero() {
		if b, err := CalculateBounds(g.Shape); err == nil && !Encloses(g.Bounds, b) {
			res.addf("bounds %v do not enclose shape extent %v", g.Bounds, b)
		}
	}
	return res
}

func checkFinite(res *ValidationResult, what string, p orb.Point) {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			res.addf("%s has non-finite coordinate %v", what, p)
			return
		}
	}
}

func checkRadius(res *ValidationResult, r float64) {
	if !(r > 0) || math.IsInf(r, 0) {
		res.addf("radius %v must be positive", r)
	}
}

func checkVertices(res *ValidationResult, what string, pts []orb.Point, minCount int) {
	if len(pts) < minCount {
		res.addf("%s needs at least %d vertices, got %d", what, minCount, len(pts))
	}
	for i, p := range pts {
		checkFinite(res, fmt.Sprintf("vertex %d", i), p)
	}
}
