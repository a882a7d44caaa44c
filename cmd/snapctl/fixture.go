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

package main

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/pelletier/go-toml/v2"

	"github.com/akhenakh/geosnap/geometry"
)

// fixtureGeometry is one [[geometry]] table of a fixture file. Coordinates
// are written as floats, angles in degrees.
//
//	[[geometry]]
//	id = "wall-1"
//	type = "line"
//	layer = "walls"
//	points = [[0.0, 0.0], [10.0, 0.0]]
//
//	[[geometry]]
//	id = "hole"
//	type = "arc"
//	center = [5.0, 5.0]
//	radius = 2.0
//	start_angle = 0.0
//	end_angle = 90.0
type fixtureGeometry struct {
	ID     string `toml:"id"`
	Type   string `toml:"type"`
	Layer  string `toml:"layer"`
	Hidden bool   `toml:"hidden"`
	Locked bool   `toml:"locked"`

	Points     [][]float64 `toml:"points"`
	Center     []float64   `toml:"center"`
	Radius     float64     `toml:"radius"`
	StartAngle float64     `toml:"start_angle"`
	EndAngle   float64     `toml:"end_angle"`
	Closed     bool        `toml:"closed"`
	MajorAxis  []float64   `toml:"major_axis"`
	Ratio      float64     `toml:"ratio"`
	Degree     int         `toml:"degree"`
}

type fixture struct {
	Geometry []fixtureGeometry `toml:"geometry"`
}

func loadFixture(path string) ([]geometry.Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", path, err)
	}
	gs, err := parseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return gs, nil
}

func parseFixture(data []byte) ([]geometry.Geometry, error) {
	var f fixture
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	out := make([]geometry.Geometry, 0, len(f.Geometry))
	for i, fg := range f.Geometry {
		g, err := fg.toGeometry()
		if err != nil {
			return nil, fmt.Errorf("geometry #%d (%q): %w", i, fg.ID, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func (fg fixtureGeometry) toGeometry() (geometry.Geometry, error) {
	kind, err := geometry.ParseKind(fg.Type)
	if err != nil {
		return geometry.Geometry{}, err
	}
	pts, err := toPoints(fg.Points)
	if err != nil {
		return geometry.Geometry{}, fmt.Errorf("points: %w", err)
	}

	var s geometry.Shape
	switch kind {
	case geometry.KindLine:
		if len(pts) != 2 {
			return geometry.Geometry{}, fmt.Errorf("line needs 2 points, got %d", len(pts))
		}
		s = geometry.Line{Start: pts[0], End: pts[1]}
	case geometry.KindCircle:
		c, err := toPoint(fg.Center)
		if err != nil {
			return geometry.Geometry{}, fmt.Errorf("center: %w", err)
		}
		s = geometry.Circle{Center: c, Radius: fg.Radius}
	case geometry.KindArc:
		c, err := toPoint(fg.Center)
		if err != nil {
			return geometry.Geometry{}, fmt.Errorf("center: %w", err)
		}
		s = geometry.Arc{
			Center:     c,
			Radius:     fg.Radius,
			StartAngle: fg.StartAngle * math.Pi / 180,
			EndAngle:   fg.EndAngle * math.Pi / 180,
		}
	case geometry.KindPolyline:
		s = geometry.Polyline{Points: pts, Closed: fg.Closed}
	case geometry.KindPolygon:
		s = geometry.Polygon{Points: pts}
	case geometry.KindPoint:
		if len(pts) != 1 {
			return geometry.Geometry{}, fmt.Errorf("point needs 1 point, got %d", len(pts))
		}
		s = geometry.Point{Position: pts[0]}
	case geometry.KindSpline:
		s = geometry.Spline{ControlPoints: pts, Degree: fg.Degree, Closed: fg.Closed}
	case geometry.KindEllipse:
		c, err := toPoint(fg.Center)
		if err != nil {
			return geometry.Geometry{}, fmt.Errorf("center: %w", err)
		}
		axis, err := toPoint(fg.MajorAxis)
		if err != nil {
			return geometry.Geometry{}, fmt.Errorf("major_axis: %w", err)
		}
		s = geometry.Ellipse{Center: c, MajorAxis: axis, Ratio: fg.Ratio}
	case geometry.KindRectangle:
		if len(pts) != 2 {
			return geometry.Geometry{}, fmt.Errorf("rectangle needs 2 corner points, got %d", len(pts))
		}
		s = geometry.Rectangle{Min: pts[0], Max: pts[1]}
	default:
		return geometry.Geometry{}, fmt.Errorf("%w: %q", geometry.ErrUnknownKind, fg.Type)
	}

	return geometry.Geometry{
		ID:         fg.ID,
		Shape:      s,
		Layer:      fg.Layer,
		Visible:    !fg.Hidden,
		Selectable: !fg.Locked,
	}, nil
}

func toPoint(c []float64) (orb.Point, error) {
	if len(c) != 2 {
		return orb.Point{}, fmt.Errorf("want [x, y], got %d values", len(c))
	}
	return orb.Point{c[0], c[1]}, nil
}

func toPoints(cs [][]float64) ([]orb.Point, error) {
	if len(cs) == 0 {
		return nil, nil
	}
	out := make([]orb.Point, len(cs))
	for i, c := range cs {
		p, err := toPoint(c)
		if err != nil {
			return nil, fmt.Errorf("#%d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}
