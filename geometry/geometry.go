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

// Package geometry defines the planar shapes that can be snapped to, together
// with the pure functions that operate on them: bounding boxes, exact
// point-to-shape distances, nearest-point projections and validation.
//
// Shapes form a closed set. Every function that dispatches on the kind of a
// shape does so with a type switch over the concrete types declared here.
package geometry

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Kind identifies the concrete type of a Shape.
type Kind int

const (
	KindUnknown Kind = iota
	KindLine
	KindCircle
	KindArc
	KindPolyline
	KindPolygon
	KindPoint
	KindSpline
	KindEllipse
	KindRectangle
)

var kindNames = [...]string{
	KindUnknown:   "unknown",
	KindLine:      "line",
	KindCircle:    "circle",
	KindArc:       "arc",
	KindPolyline:  "polyline",
	KindPolygon:   "polygon",
	KindPoint:     "point",
	KindSpline:    "spline",
	KindEllipse:   "ellipse",
	KindRectangle: "rectangle",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind returns the Kind whose name is s.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if k != int(KindUnknown) && name == s {
			return Kind(k), nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Shape is the type-specific payload of a Geometry. It is implemented only by
// the shape types of this package.
type Shape interface {
	Kind() Kind
	shape()
}

// Line is a straight segment between two points.
type Line struct {
	Start, End orb.Point
}

// Circle is a full circle.
type Circle struct {
	Center orb.Point
	Radius float64
}

// Arc is a circular arc running counter-clockwise from StartAngle to
// EndAngle. Angles are in radians.
type Arc struct {
	Center     orb.Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

// Polyline is an open or closed chain of vertices.
type Polyline struct {
	Points []orb.Point
	Closed bool
}

// Polygon is a closed ring. The closing edge from the last vertex back to the
// first is implicit; the first vertex should not be repeated.
type Polygon struct {
	Points []orb.Point
}

// Point is a single position.
type Point struct {
	Position orb.Point
}

// Spline is described by its control polygon only. The curve lies inside
// the convex hull of its control points.
type Spline struct {
	ControlPoints []orb.Point
	Degree        int
	Closed        bool
}

// Ellipse is described by its center, the vector from the center to the end
// of the major axis, and the ratio of the minor axis to the major axis.
type Ellipse struct {
	Center    orb.Point
	MajorAxis orb.Point
	Ratio     float64
}

// Rectangle is an axis-aligned rectangle given by two opposite corners.
type Rectangle struct {
	Min, Max orb.Point
}

func (Line) Kind() Kind      { return KindLine }
func (Circle) Kind() Kind    { return KindCircle }
func (Arc) Kind() Kind       { return KindArc }
func (Polyline) Kind() Kind  { return KindPolyline }
func (Polygon) Kind() Kind   { return KindPolygon }
func (Point) Kind() Kind     { return KindPoint }
func (Spline) Kind() Kind    { return KindSpline }
func (Ellipse) Kind() Kind   { return KindEllipse }
func (Rectangle) Kind() Kind { return KindRectangle }

func (Line) shape()      {}
func (Circle) shape()    {}
func (Arc) shape()       {}
func (Polyline) shape()  {}
func (Polygon) shape()   {}
func (Point) shape()     {}
func (Spline) shape()    {}
func (Ellipse) shape()   {}
func (Rectangle) shape() {}

// Geometry is a snappable feature: a shape plus the bookkeeping the spatial
// index and the snap resolver need.
//
// A zero Bounds means "not computed yet"; the index and the engine fill it in
// with CalculateBounds before storing the geometry.
type Geometry struct {
	ID         string
	Shape      Shape
	Bounds     orb.Bound
	Layer      string
	Visible    bool
	Selectable bool
}

// Kind returns the kind of the geometry's shape, or KindUnknown when the
// shape is missing.
func (g Geometry) Kind() Kind {
	if g.Shape == nil {
		return KindUnknown
	}
	return g.Shape.Kind()
}

// WithBounds returns a copy of g whose Bounds are computed from its shape if
// they were left unset.
func (g Geometry) WithBounds() (Geometry, error) {
	if !g.Bounds.IsZero() {
		return g, nil
	}
	b, err := CalculateBounds(g.Shape)
	if err != nil {
		return g, err
	}
	g.Bounds = b
	return g, nil
}

// Corners returns the four corners of r in counter-clockwise order starting at
// the minimum corner.
func (r Rectangle) Corners() [4]orb.Point {
	b := orb.Bound{Min: r.Min, Max: r.Min}.Extend(r.Max)
	return [4]orb.Point{
		b.Min,
		{b.Max[0], b.Min[1]},
		b.Max,
		{b.Min[0], b.Max[1]},
	}
}

// PointAt returns the point of the circle of the arc at angle theta.
func (a Arc) PointAt(theta float64) orb.Point {
	return pointOnCircle(a.Center, a.Radius, theta)
}

// Sweep returns the counter-clockwise angular extent of the arc in [0, 2π).
func (a Arc) Sweep() float64 {
	return normalizeAngle(a.EndAngle - a.StartAngle)
}

// MidAngle returns the angle bisecting the arc.
func (a Arc) MidAngle() float64 {
	return a.StartAngle + a.Sweep()/2
}

// MinorAxis returns the vector from the center to the end of the minor axis.
func (e Ellipse) MinorAxis() orb.Point {
	return orb.Point{-e.MajorAxis[1] * e.Ratio, e.MajorAxis[0] * e.Ratio}
}
