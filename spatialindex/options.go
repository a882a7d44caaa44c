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
	"log/slog"
	"time"
)

// Default tree fan-out and auto-rebuild thresholds.
const (
	DefaultMinChildren = 25
	DefaultMaxChildren = 50

	DefaultRebuildMinCount    = 1000
	DefaultRebuildGrowthRatio = 0.1
	DefaultRebuildMinDuration = 100 * time.Millisecond
)

// PrefilterMode selects the distance SearchNearPoint uses to decide whether a
// candidate is within tolerance.
type PrefilterMode int

const (
	// PrefilterBoundsDistance measures to the closest point of the candidate's
	// bounds. It never drops a geometry that has a snap target within
	// tolerance, since every target lies inside its geometry's bounds.
	PrefilterBoundsDistance PrefilterMode = iota

	// PrefilterBoundsCenter measures to the center of the candidate's bounds.
	// It is cheap but drops large geometries whose outline is near the query
	// point while their center is not.
	PrefilterBoundsCenter

	// PrefilterExact measures to the geometry outline itself.
	PrefilterExact
)

func (m PrefilterMode) String() string {
	switch m {
	case PrefilterBoundsDistance:
		return "bounds-distance"
	case PrefilterBoundsCenter:
		return "bounds-center"
	case PrefilterExact:
		return "exact"
	}
	return "unknown"
}

// Options controls the shape of the tree and the auto-rebuild heuristic.
type Options struct {
	MinChildren int
	MaxChildren int

	// AutoRebuild enables the post-insert rebuild check: the index is rebuilt
	// when its size exceeds max(RebuildMinCount, size*RebuildGrowthRatio) and
	// the previous rebuild took longer than RebuildMinDuration.
	AutoRebuild        bool
	RebuildMinCount    int
	RebuildGrowthRatio float64
	RebuildMinDuration time.Duration

	Prefilter PrefilterMode

	Logger *slog.Logger
}

// DefaultOptions returns the default index options.
func DefaultOptions() Options {
	return Options{
		MinChildren:        DefaultMinChildren,
		MaxChildren:        DefaultMaxChildren,
		AutoRebuild:        true,
		RebuildMinCount:    DefaultRebuildMinCount,
		RebuildGrowthRatio: DefaultRebuildGrowthRatio,
		RebuildMinDuration: DefaultRebuildMinDuration,
		Prefilter:          PrefilterBoundsDistance,
	}
}

func (o *Options) Fanout(minChildren, maxChildren int) *Options {
	o.MinChildren = minChildren
	o.MaxChildren = maxChildren
	return o
}

func (o *Options) RebuildThresholds(minCount int, growthRatio float64, minDuration time.Duration) *Options {
	o.AutoRebuild = true
	o.RebuildMinCount = minCount
	o.RebuildGrowthRatio = growthRatio
	o.RebuildMinDuration = minDuration
	return o
}

func (o *Options) DisableAutoRebuild() *Options {
	o.AutoRebuild = false
	return o
}

func (o *Options) UsePrefilter(m PrefilterMode) *Options {
	o.Prefilter = m
	return o
}

func (o *Options) WithLogger(l *slog.Logger) *Options {
	o.Logger = l
	return o
}

// normalized fills in defaults for unusable values.
func (o Options) normalized() Options {
	if o.MaxChildren < 2 {
		o.MaxChildren = DefaultMaxChildren
	}
	if o.MinChildren < 1 || o.MinChildren > o.MaxChildren/2 {
		o.MinChildren = max(1, o.MaxChildren/2)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
