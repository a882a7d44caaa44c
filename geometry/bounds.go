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
	"math"

	"github.com/paulmach/orb"
)

// PointEpsilon is the half-width of the box given to a Point shape so that it
// has a non-degenerate extent in the index.
const PointEpsilon = 1e-6

// CalculateBounds returns the axis-aligned box enclosing every coordinate the
// shape references. Circles and arcs get the full center ± radius box.
func CalculateBounds(s Shape) (orb.Bound, error) {
	switch s := s.(type) {
	case Line:
		return orb.Bound{Min: s.Start, Max: s.Start}.Extend(s.End), nil
	case Circle:
		return centeredBound(s.Center, s.Radius, s.Radius), nil
	case Arc:
		return centeredBound(s.Center, s.Radius, s.Radius), nil
	case Polyline:
		return verticesBound(s.Points)
	case Polygon:
		return verticesBound(s.Points)
	case Point:
		return centeredBound(s.Position, PointEpsilon, PointEpsilon), nil
	case Spline:
		return verticesBound(s.ControlPoints)
	case Ellipse:
		// Half extents of c + M·cos t + m·sin t along each axis.
		m := s.MinorAxis()
		hx := math.Hypot(s.MajorAxis[0], m[0])
		hy := math.Hypot(s.MajorAxis[1], m[1])
		return centeredBound(s.Center, hx, hy), nil
	case Rectangle:
		return orb.Bound{Min: s.Min, Max: s.Min}.Extend(s.Max), nil
	}
	return orb.Bound{}, ErrUnknownKind
}

func centeredBound(c orb.Point, hx, hy float64) orb.Bound {
	hx, hy = math.Abs(hx), math.Abs(hy)
	return orb.Bound{
		Min: orb.Point{c[0] - hx, c[1] - hy},
		Max: orb.Point{c[0] + hx, c[1] + hy},
	}
}

func verticesBound(pts []orb.Point) (orb.Bound, error) {
	if len(pts) == 0 {
		return orb.Bound{}, ErrEmptyShape
	}
	xs, ys := splitCoords(pts)
	minX, minY, maxX, maxY := BaseBoundXY(xs, ys)
	return orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}, nil
}

// splitCoords de-interleaves points into separate X and Y slices for the
// batch kernels.
func splitCoords(pts []orb.Point) (xs, ys []float64) {
	xs = make([]float64, len(pts))
	ys = make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p[0], p[1]
	}
	return xs, ys
}

// Centroid returns the average of the vertices, or false for an empty set.
func Centroid(pts []orb.Point) (orb.Point, bool) {
	if len(pts) == 0 {
		return orb.Point{}, false
	}
	xs, ys := splitCoords(pts)
	sx, sy := BaseSumPoints(xs, ys)
	n := float64(len(pts))
	return orb.Point{sx / n, sy / n}, true
}

// ValidBound reports whether b is ordered on both axes and free of NaNs.
func ValidBound(b orb.Bound) bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1]
}

// Encloses reports whether outer contains inner, allowing for a small
// relative slack so that bounds computed in a different order still match.
func Encloses(outer, inner orb.Bound) bool {
	eps := 1e-9 * (1 + math.Max(
		math.Max(math.Abs(inner.Min[0]), math.Abs(inner.Max[0])),
		math.Max(math.Abs(inner.Min[1]), math.Abs(inner.Max[1])),
	))
	return outer.Min[0] <= inner.Min[0]+eps && outer.Min[1] <= inner.Min[1]+eps &&
		outer.Max[0] >= inner.Max[0]-eps && outer.Max[1] >= inner.Max[1]-eps
}
