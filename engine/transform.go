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

package engine

import (
	"math"

	"github.com/paulmach/orb"
)

// Transform maps cursor coordinates into the coordinate space of the indexed
// geometries. It is applied to every cursor before the index is queried.
type Transform interface {
	Apply(p orb.Point) orb.Point
}

// BatchTransform is implemented by transforms that can map many points at
// once more cheaply than one at a time.
type BatchTransform interface {
	Transform
	ApplyBatch(pts []orb.Point) []orb.Point
}

// TransformFunc adapts a function to the Transform interface.
type TransformFunc func(orb.Point) orb.Point

func (f TransformFunc) Apply(p orb.Point) orb.Point {
	return f(p)
}

// IdentityTransform leaves every point where it is.
type IdentityTransform struct{}

func (IdentityTransform) Apply(p orb.Point) orb.Point {
	return p
}

// Affine maps (x, y) to (A*x + B*y + C, D*x + E*y + F).
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// NewScale returns a uniform scaling transform.
func NewScale(s float64) Affine {
	return Affine{A: s, E: s}
}

// NewScaleOffset scales each axis and then translates.
func NewScaleOffset(sx, sy, dx, dy float64) Affine {
	return Affine{A: sx, C: dx, E: sy, F: dy}
}

func (a Affine) Apply(p orb.Point) orb.Point {
	return orb.Point{
		a.A*p[0] + a.B*p[1] + a.C,
		a.D*p[0] + a.E*p[1] + a.F,
	}
}

func (a Affine) ApplyBatch(pts []orb.Point) []orb.Point {
	if len(pts) == 0 {
		return nil
	}
	xs, ys := make([]float64, len(pts)), make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p[0], p[1]
	}
	BaseAffineBatch(a.A, a.B, a.C, a.D, a.E, a.F, xs, ys, xs, ys)

	out := make([]orb.Point, len(pts))
	for i := range out {
		out[i] = orb.Point{xs[i], ys[i]}
	}
	return out
}

// maxMercatorLatitude is the latitude, in degrees, at which web mercator
// becomes square.
const maxMercatorLatitude = 85.05112878

// PlateCarree projects (longitude, latitude) in degrees onto the plane by
// scaling both axes linearly. Longitude 180 maps to x = XScale.
type PlateCarree struct {
	XScale float64
}

func NewPlateCarree(xScale float64) PlateCarree {
	return PlateCarree{XScale: xScale}
}

func (p PlateCarree) Apply(ll orb.Point) orb.Point {
	f := p.XScale / math.Pi
	return orb.Point{
		degreesToRadians(ll[0]) * f,
		degreesToRadians(ll[1]) * f,
	}
}

func (p PlateCarree) ApplyBatch(pts []orb.Point) []orb.Point {
	return projectBatch(pts, func(lngs, lats, xs, ys []float64) {
		BasePlateCarreeDegrees(lngs, lats, xs, ys, p.XScale/math.Pi)
	})
}

// Mercator projects (longitude, latitude) in degrees with the spherical
// mercator projection. Latitudes are clamped to ±85.05112878 so that the
// poles stay finite. Longitude 180 maps to x = XScale.
type Mercator struct {
	XScale float64
}

func NewMercator(xScale float64) Mercator {
	return Mercator{XScale: xScale}
}

func (m Mercator) Apply(ll orb.Point) orb.Point {
	f := m.XScale / math.Pi
	lat := degreesToRadians(clampLatitude(ll[1], maxMercatorLatitude))
	s := math.Sin(lat)
	return orb.Point{
		degreesToRadians(ll[0]) * f,
		0.5 * math.Log((1+s)/(1-s)) * f,
	}
}

func (m Mercator) ApplyBatch(pts []orb.Point) []orb.Point {
	return projectBatch(pts, func(lngs, lats, xs, ys []float64) {
		BaseMercatorDegrees(lngs, lats, xs, ys, m.XScale/math.Pi, maxMercatorLatitude)
	})
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}

func clampLatitude(lat, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, lat))
}

// projectBatch de-interleaves the points, runs the projection kernel and
// interleaves the result.
func projectBatch(pts []orb.Point, kernel func(lngs, lats, xs, ys []float64)) []orb.Point {
	if len(pts) == 0 {
		return nil
	}
	lngs := make([]float64, len(pts))
	lats := make([]float64, len(pts))
	for i, p := range pts {
		lngs[i], lats[i] = p[0], p[1]
	}
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	kernel(lngs, lats, xs, ys)

	out := make([]orb.Point, len(pts))
	for i := range out {
		out[i] = orb.Point{xs[i], ys[i]}
	}
	return out
}

// applyAll maps every point through t, using the batch path when t has one.
func applyAll(t Transform, pts []orb.Point) []orb.Point {
	if bt, ok := t.(BatchTransform); ok {
		return bt.ApplyBatch(pts)
	}
	out := make([]orb.Point, len(pts))
	for i, p := range pts {
		out[i] = t.Apply(p)
	}
	return out
}
