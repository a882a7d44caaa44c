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
)

// PerformanceLevel names a preset bundle of configuration values.
type PerformanceLevel string

const (
	PerformanceLow      PerformanceLevel = "low"
	PerformanceBalanced PerformanceLevel = "balanced"
	PerformanceHigh     PerformanceLevel = "high"
	PerformanceUltra    PerformanceLevel = "ultra"
)

// ParsePerformanceLevel returns the level named s. Matching ignores case.
func ParsePerformanceLevel(s string) (PerformanceLevel, error) {
	switch l := PerformanceLevel(strings.ToLower(strings.TrimSpace(s))); l {
	case PerformanceLow, PerformanceBalanced, PerformanceHigh, PerformanceUltra:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPerformanceLevel, s)
}

// Preset returns the configuration bundle for a performance level. Lower
// levels look at fewer candidates and fewer target kinds. Unknown levels get
// the balanced preset.
func Preset(l PerformanceLevel) Config {
	cfg := Config{
		Tolerance:        DefaultTolerance,
		Priority:         DefaultPriorities(),
		PerformanceLevel: l,
	}
	switch l {
	case PerformanceLow:
		cfg.MaxResults = 10
		cfg.EnabledTypes = NewTypeSet(TargetEndpoint, TargetCenter)
	case PerformanceHigh:
		cfg.MaxResults = 100
		cfg.EnabledTypes = NewTypeSet(TargetEndpoint, TargetMidpoint, TargetCenter, TargetVertex,
			TargetIntersection, TargetNearest)
	case PerformanceUltra:
		cfg.MaxResults = 250
		cfg.EnabledTypes = NewTypeSet(TargetEndpoint, TargetMidpoint, TargetCenter, TargetVertex,
			TargetIntersection, TargetPerpendicular, TargetTangent, TargetNearest)
	default:
		cfg.PerformanceLevel = PerformanceBalanced
		cfg.MaxResults = DefaultMaxResults
		cfg.EnabledTypes = NewTypeSet(TargetEndpoint, TargetMidpoint, TargetCenter, TargetVertex,
			TargetIntersection)
	}
	return cfg
}
