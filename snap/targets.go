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
	"math"

	"github.com/paulmach/orb"

	"github.com/akhenakh/geosnap/geometry"
)

// targetBuilder accumulates the targets of one geometry, dropping disabled
// types and numbering the rest per type.
type targetBuilder struct {
	cfg    *Config
	geom   *geometry.Geometry
	counts [numTargetTypes]int
	out    []Target
}

func (b *targetBuilder) add(t TargetType, p orb.Point, meta map[string]any) {
	if !b.cfg.EnabledTypes.Has(t) {
		return
	}
	id := ""
	if b.geom != nil {
		id = b.geom.ID
	}
	b.out = append(b.out, Target{
		ID:        fmt.Sprintf("%s:%s:%d", id, t, b.counts[t]),
		Type:      t,
		Point:     p,
		Geometry:  b.geom,
		Priority:  b.cfg.TargetPriority(t),
		Tolerance: b.cfg.Tolerance,
		Metadata:  meta,
	})
	b.counts[t]++
}

// vertices adds a vertex target per point and a midpoint target per edge,
// including the closing edge of a closed chain.
func (b *targetBuilder) vertices(pts []orb.Point, closed bool) {
	for i, p := range pts {
		b.add(TargetVertex, p, map[string]any{"index": i})
	}
	for i := 1; i < len(pts); i++ {
		b.add(TargetMidpoint, midpoint(pts[i-1], pts[i]), map[string]any{"segment": i - 1})
	}
	if closed && len(pts) > 2 {
		last := len(pts) - 1
		b.add(TargetMidpoint, midpoint(pts[last], pts[0]), map[string]any{"segment": last})
	}
}

func midpoint(a, b orb.Point) orb.Point {
	return orb.Point{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2}
}

// GenerateSnapTargets returns the discrete targets of g whose types are
// enabled. The targets reference g.
func (c *Calculator) GenerateSnapTargets(g *geometry.Geometry) []Target {
	b := targetBuilder{cfg: &c.cfg, geom: g}

	switch s := g.Shape.(type) {
	case geometry.Line:
		b.add(TargetEndpoint, s.Start, map[string]any{"role": "start"})
		b.add(TargetEndpoint, s.End, map[string]any{"role": "end"})
		b.add(TargetMidpoint, midpoint(s.Start, s.End), nil)

	case geometry.Circle:
		b.add(TargetCenter, s.Center, nil)
		for _, q := range [4]float64{0, 0.5, 1, 1.5} {
			theta := q * math.Pi
			b.add(TargetVertex, cardinal(s.Center, s.Radius, theta), map[string]any{"angle": theta})
		}

	case geometry.Arc:
		b.add(TargetCenter, s.Center, nil)
		b.add(TargetEndpoint, s.PointAt(s.StartAngle), map[string]any{"role": "start", "angle": s.StartAngle})
		b.add(TargetEndpoint, s.PointAt(s.EndAngle), map[string]any{"role": "end", "angle": s.EndAngle})
		mid := s.MidAngle()
		b.add(TargetMidpoint, s.PointAt(mid), map[string]any{"angle": mid})

	case geometry.Polyline:
		b.vertices(s.Points, s.Closed)

	case geometry.Polygon:
		b.vertices(s.Points, true)
		if c, ok := geometry.Centroid(s.Points); ok {
			b.add(TargetCenter, c, map[string]any{"role": "centroid"})
		}

	case geometry.Point:
		b.add(TargetEndpoint, s.Position, nil)

	case geometry.Spline:
		if n := len(s.ControlPoints); n > 0 {
			b.add(TargetEndpoint, s.ControlPoints[0], map[string]any{"role": "start"})
			if !s.Closed && n > 1 {
				b.add(TargetEndpoint, s.ControlPoints[n-1], map[string]any{"role": "end"})
			}
			for i := 1; i < n-1; i++ {
				b.add(TargetVertex, s.ControlPoints[i], map[string]any{"index": i, "role": "control"})
			}
		}

	case geometry.Ellipse:
		b.add(TargetCenter, s.Center, nil)
		minor := s.MinorAxis()
		for _, axis := range [4]orb.Point{
			s.MajorAxis,
			minor,
			{-s.MajorAxis[0], -s.MajorAxis[1]},
			{-minor[0], -minor[1]},
		} {
			b.add(TargetVertex, orb.Point{s.Center[0] + axis[0], s.Center[1] + axis[1]}, nil)
		}

	case geometry.Rectangle:
		corners := s.Corners()
		b.vertices(corners[:], true)
		b.add(TargetCenter, midpoint(corners[0], corners[2]), nil)
	}
	return b.out
}

// cardinal returns the point of a circle at one of the four axis angles,
// computed without trigonometry so the coordinates are exact.
func cardinal(c orb.Point, r, theta float64) orb.Point {
	switch theta {
	case 0:
		return orb.Point{c[0] + r, c[1]}
	case 0.5 * math.Pi:
		return orb.Point{c[0], c[1] + r}
	case math.Pi:
		return orb.Point{c[0] - r, c[1]}
	case 1.5 * math.Pi:
		return orb.Point{c[0], c[1] - r}
	}
	return orb.Point{c[0] + r*math.Cos(theta), c[1] + r*math.Sin(theta)}
}

// continuousTargets returns the cursor-dependent targets: the nearest point
// of each geometry and the nearest grid node.
func (c *Calculator) continuousTargets(cursor orb.Point, geoms []geometry.Geometry) []Target {
	var out []Target
	if c.cfg.EnabledTypes.Has(TargetNearest) {
		for i := range geoms {
			g := &geoms[i]
			if !snappable(g) {
				continue
			}
			if q, ok := geometry.NearestPoint(cursor, g.Shape); ok {
				b := targetBuilder{cfg: &c.cfg, geom: g}
				b.add(TargetNearest, q, nil)
				out = append(out, b.out...)
			}
		}
	}
	if c.cfg.EnabledTypes.Has(TargetGrid) && c.cfg.GridSpacing > 0 {
		s := c.cfg.GridSpacing
		b := targetBuilder{cfg: &c.cfg}
		b.add(TargetGrid, orb.Point{math.Round(cursor[0]/s) * s, math.Round(cursor[1]/s) * s},
			map[string]any{"spacing": s})
		out = append(out, b.out...)
	}
	return out
}
