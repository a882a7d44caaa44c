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

// NearestPointOnLine projects p onto the segment ab. The projection parameter
// is clamped to [0, 1]; a degenerate segment yields a.
func NearestPointOnLine(p, a, b orb.Point) orb.Point {
	dx, dy := b[0]-a[0], b[1]-a[1]
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a
	}
	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return orb.Point{a[0] + t*dx, a[1] + t*dy}
}

// NearestPointOnCircle returns the point of the circle closest to p. Every
// point of the circle is equally close to its center; in that case the point
// at angle zero is returned.
func NearestPointOnCircle(p, center orb.Point, radius float64) orb.Point {
	d := planar.Distance(p, center)
	if d == 0 {
		return orb.Point{center[0] + radius, center[1]}
	}
	k := radius / d
	return orb.Point{center[0] + (p[0]-center[0])*k, center[1] + (p[1]-center[1])*k}
}

// NearestPointOnArc returns the point of the arc closest to p.
func NearestPointOnArc(p orb.Point, a Arc) orb.Point {
	if p != a.Center {
		theta := math.Atan2(p[1]-a.Center[1], p[0]-a.Center[0])
		if AngleOnArc(a, theta) {
			return NearestPointOnCircle(p, a.Center, a.Radius)
		}
	}
	start, end := a.PointAt(a.StartAngle), a.PointAt(a.EndAngle)
	if planar.DistanceSquared(p, start) <= planar.DistanceSquared(p, end) {
		return start
	}
	return end
}

// NearestPointOnSegments returns the point of the chain closest to p. A
// closed chain includes the edge from the last vertex back to the first.
func NearestPointOnSegments(p orb.Point, pts []orb.Point, closed bool) (orb.Point, bool) {
	switch len(pts) {
	case 0:
		return orb.Point{}, false
	case 1:
		return pts[0], true
	}
	best, bestD := pts[0], math.Inf(1)
	consider := func(a, b orb.Point) {
		q := NearestPointOnLine(p, a, b)
		if d := planar.DistanceSquared(p, q); d < bestD {
			best, bestD = q, d
		}
	}
	for i := 1; i < len(pts); i++ {
		consider(pts[i-1], pts[i])
	}
	if closed && len(pts) > 2 {
		consider(pts[len(pts)-1], pts[0])
	}
	return best, true
}

// NearestPoint returns the point of the shape's outline closest to p. Shapes
// without an exact projection (ellipses, splines) report false.
func NearestPoint(p orb.Point, s Shape) (orb.Point, bool) {
	switch s := s.(type) {
	case Line:
		return NearestPointOnLine(p, s.Start, s.End), true
	case Circle:
		return NearestPointOnCircle(p, s.Center, s.Radius), true
	case Arc:
		return NearestPointOnArc(p, s), true
	case Polyline:
		return NearestPointOnSegments(p, s.Points, s.Closed)
	case Polygon:
		return NearestPointOnSegments(p, s.Points, true)
	case Rectangle:
		c := s.Corners()
		return NearestPointOnSegments(p, c[:], true)
	case Point:
		return s.Position, true
	}
	return orb.Point{}, false
}

// AngleOnArc reports whether the direction theta falls within the arc's
// counter-clockwise sweep.
func AngleOnArc(a Arc, theta float64) bool {
	return normalizeAngle(theta-a.StartAngle) <= a.Sweep()
}

func pointOnCircle(c orb.Point, r, theta float64) orb.Point {
	return orb.Point{c[0] + r*math.Cos(theta), c[1] + r*math.Sin(theta)}
}

// normalizeAngle maps a to [0, 2π).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
