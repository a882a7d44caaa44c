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
	"github.com/paulmach/orb/planar"
)

// ellipseSamples is the number of points used to approximate an ellipse
// outline when measuring distance to it.
const ellipseSamples = 64

// PointToGeometryDistance returns the distance from p to the outline of g.
//
// Lines, circles, arcs, points and the segment-based kinds are exact. An
// ellipse is measured against a sampled outline and a spline against its
// control points. Anything else falls back to the distance to the center of
// the geometry's bounds.
func PointToGeometryDistance(p orb.Point, g Geometry) float64 {
	switch s := g.Shape.(type) {
	case Line:
		return planar.DistanceFromSegment(s.Start, s.End, p)
	case Circle:
		return math.Abs(planar.Distance(p, s.Center) - s.Radius)
	case Point:
		return planar.Distance(p, s.Position)
	case Arc:
		return planar.Distance(p, NearestPointOnArc(p, s))
	case Polyline:
		if d, ok := segmentsDistance(p, s.Points, s.Closed); ok {
			return d
		}
	case Polygon:
		if d, ok := segmentsDistance(p, s.Points, true); ok {
			return d
		}
	case Rectangle:
		c := s.Corners()
		d, _ := segmentsDistance(p, c[:], true)
		return d
	case Ellipse:
		return minVertexDistance(p, sampleEllipse(s, ellipseSamples))
	case Spline:
		if len(s.ControlPoints) > 0 {
			return minVertexDistance(p, s.ControlPoints)
		}
	}
	return BoundsCenterDistance(p, g)
}

// BoundsCenterDistance returns the distance from p to the center of the
// geometry's bounds. It is a cheap stand-in for the exact distance and is
// +Inf when no bounds can be determined.
func BoundsCenterDistance(p orb.Point, g Geometry) float64 {
	g, err := g.WithBounds()
	if err != nil {
		return math.Inf(1)
	}
	return planar.Distance(p, g.Bounds.Center())
}

// BoundsDistance returns the distance from p to the closest point of b. It is
// zero when p lies inside b.
func BoundsDistance(p orb.Point, b orb.Bound) float64 {
	dx := math.Max(0, math.Max(b.Min[0]-p[0], p[0]-b.Max[0]))
	dy := math.Max(0, math.Max(b.Min[1]-p[1], p[1]-b.Max[1]))
	return math.Hypot(dx, dy)
}

func segmentsDistance(p orb.Point, pts []orb.Point, closed bool) (float64, bool) {
	switch len(pts) {
	case 0:
		return 0, false
	case 1:
		return planar.Distance(p, pts[0]), true
	}
	best := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		best = math.Min(best, planar.DistanceFromSegment(pts[i-1], pts[i], p))
	}
	if closed {
		best = math.Min(best, planar.DistanceFromSegment(pts[len(pts)-1], pts[0], p))
	}
	return best, true
}

func minVertexDistance(p orb.Point, pts []orb.Point) float64 {
	xs, ys := splitCoords(pts)
	return math.Sqrt(BaseMinDistanceSquared(p[0], p[1], xs, ys, math.Inf(1)))
}

func sampleEllipse(e Ellipse, n int) []orb.Point {
	m := e.MinorAxis()
	pts := make([]orb.Point, n)
	for i := range pts {
		t := 2 * math.Pi * float64(i) / float64(n)
		c, s := math.Cos(t), math.Sin(t)
		pts[i] = orb.Point{
			e.Center[0] + e.MajorAxis[0]*c + m[0]*s,
			e.Center[1] + e.MajorAxis[1]*c + m[1]*s,
		}
	}
	return pts
}
