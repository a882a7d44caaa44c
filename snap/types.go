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
	"strings"

	"github.com/paulmach/orb"

	"github.com/akhenakh/geosnap/geometry"
)

// TargetType is the kind of feature a snap target marks on its geometry.
type TargetType uint8

const (
	// TargetNone is the snap type of a result that did not snap.
	TargetNone TargetType = iota
	TargetEndpoint
	TargetMidpoint
	TargetCenter
	TargetVertex
	TargetIntersection
	TargetPerpendicular
	TargetTangent
	TargetNearest
	TargetGrid
	TargetEdge

	numTargetTypes
)

var targetTypeNames = [...]string{
	TargetNone:          "",
	TargetEndpoint:      "endpoint",
	TargetMidpoint:      "midpoint",
	TargetCenter:        "center",
	TargetVertex:        "vertex",
	TargetIntersection:  "intersection",
	TargetPerpendicular: "perpendicular",
	TargetTangent:       "tangent",
	TargetNearest:       "nearest",
	TargetGrid:          "grid",
	TargetEdge:          "edge",
}

func (t TargetType) String() string {
	if int(t) >= len(targetTypeNames) {
		return fmt.Sprintf("TargetType(%d)", uint8(t))
	}
	return targetTypeNames[t]
}

// ParseTargetType returns the target type named s. Matching ignores case.
func ParseTargetType(s string) (TargetType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t := TargetEndpoint; t < numTargetTypes; t++ {
		if targetTypeNames[t] == s {
			return t, nil
		}
	}
	return TargetNone, fmt.Errorf("%w: %q", ErrUnknownTargetType, s)
}

// AllTargetTypes returns every target type except TargetNone.
func AllTargetTypes() []TargetType {
	out := make([]TargetType, 0, numTargetTypes-1)
	for t := TargetEndpoint; t < numTargetTypes; t++ {
		out = append(out, t)
	}
	return out
}

// TypeSet is a set of target types.
type TypeSet uint16

// NewTypeSet returns the set holding the given types.
func NewTypeSet(types ...TargetType) TypeSet {
	var s TypeSet
	for _, t := range types {
		s = s.With(t)
	}
	return s
}

// Has reports whether t is in the set.
func (s TypeSet) Has(t TargetType) bool {
	return t != TargetNone && t < numTargetTypes && s&(1<<t) != 0
}

// With returns the set plus t.
func (s TypeSet) With(t TargetType) TypeSet {
	if t == TargetNone || t >= numTargetTypes {
		return s
	}
	return s | 1<<t
}

// Without returns the set minus t.
func (s TypeSet) Without(t TargetType) TypeSet {
	if t >= numTargetTypes {
		return s
	}
	return s &^ (1 << t)
}

// Types lists the members of the set in declaration order.
func (s TypeSet) Types() []TargetType {
	var out []TargetType
	for t := TargetEndpoint; t < numTargetTypes; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s TypeSet) String() string {
	names := make([]string, 0, numTargetTypes)
	for _, t := range s.Types() {
		names = append(names, t.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Target is a candidate point on a geometry. Targets are regenerated on every
// query and never stored.
type Target struct {
	ID    string
	Type  TargetType
	Point orb.Point

	// Geometry is the geometry the target was generated from. It is nil for
	// grid targets, which belong to no geometry.
	Geometry *geometry.Geometry

	Priority  float64
	Tolerance float64
	Metadata  map[string]any
}

// Result is the outcome of a snap query.
type Result struct {
	Target    *Target
	Snapped   bool
	Distance  float64
	Cursor    orb.Point
	SnapPoint orb.Point
	SnapType  TargetType
}

// NoSnap returns the result for a query that did not snap: the snap point is
// the cursor itself.
func NoSnap(cursor orb.Point) Result {
	return Result{Cursor: cursor, SnapPoint: cursor}
}
