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

package spatialindex

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/akhenakh/geosnap/geometry"
)

// Candidate is a geometry returned by SearchNearPoint together with its
// pre-filter distance to the query point.
type Candidate struct {
	Geometry geometry.Geometry
	Distance float64
}

// Less compares two candidates first by distance, then by id.
func (c Candidate) Less(other Candidate) bool {
	if c.Distance != other.Distance {
		return c.Distance < other.Distance
	}
	return c.Geometry.ID < other.Geometry.ID
}

// SearchInBounds returns every geometry whose bounds intersect b, ordered by id.
func (ix *Index) SearchInBounds(b orb.Bound) ([]geometry.Geometry, error) {
	if ix.indexedCount == 0 {
		return nil, nil
	}
	r, err := toRect(b)
	if err != nil {
		return nil, err
	}
	hits := ix.tree.SearchIntersect(r)
	out := make([]geometry.Geometry, 0, len(hits))
	for _, h := range hits {
		if s, ok := ix.lookup(h); ok {
			out = append(out, s.geom)
		}
	}
	slices.SortFunc(out, func(a, b geometry.Geometry) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// SearchNearPoint returns the geometries within tolerance of p, nearest
// first, truncated to maxResults when maxResults is positive.
//
// The tree is queried with the box of half-width tolerance around p. Each hit
// is then measured with the index's PrefilterMode and kept if its distance is
// at most tolerance. This is a pre-filter; it does not decide the snap.
func (ix *Index) SearchNearPoint(p orb.Point, tolerance float64, maxResults int) ([]Candidate, error) {
	if !(tolerance >= 0) || math.IsInf(tolerance, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTolerance, tolerance)
	}
	if ix.indexedCount == 0 {
		return nil, nil
	}
	r, err := toRect(orb.Bound{Min: p, Max: p}.Pad(tolerance))
	if err != nil {
		return nil, err
	}

	hits := ix.tree.SearchIntersect(r)
	out := make([]Candidate, 0, len(hits))
	for _, h := range hits {
		s, ok := ix.lookup(h)
		if !ok {
			continue
		}
		d := ix.prefilterDistance(p, s.geom)
		if d <= tolerance {
			out = append(out, Candidate{Geometry: s.geom, Distance: d})
		}
	}
	slices.SortFunc(out, func(a, b Candidate) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}

func (ix *Index) prefilterDistance(p orb.Point, g geometry.Geometry) float64 {
	switch ix.opts.Prefilter {
	case PrefilterBoundsCenter:
		return planar.Distance(p, g.Bounds.Center())
	case PrefilterExact:
		return geometry.PointToGeometryDistance(p, g)
	}
	return geometry.BoundsDistance(p, g.Bounds)
}

// FindKNearest returns up to k geometries ordered by the distance from p to
// their bounds.
func (ix *Index) FindKNearest(p orb.Point, k int) []geometry.Geometry {
	if k <= 0 || ix.indexedCount == 0 {
		return nil
	}
	hits := ix.tree.NearestNeighbors(k, rtreego.Point{p[0], p[1]})
	out := make([]geometry.Geometry, 0, len(hits))
	for _, h := range hits {
		if h == nil {
			continue
		}
		if s, ok := ix.lookup(h); ok {
			out = append(out, s.geom)
		}
	}
	return out
}

func (ix *Index) lookup(h rtreego.Spatial) (*slot, bool) {
	e, ok := h.(*entry)
	if !ok {
		return nil, false
	}
	return ix.arena.get(e.id)
}
