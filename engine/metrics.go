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
	"time"

	"github.com/akhenakh/geosnap/spatialindex"
)

type queryStats struct {
	queries   int
	snaps     int
	total     time.Duration
	lastQuery time.Duration
}

func (s *queryStats) record(d time.Duration, snapped bool) {
	s.queries++
	if snapped {
		s.snaps++
	}
	s.total += d
	s.lastQuery = d
}

// PerformanceMetrics combines the index metrics with query counters.
type PerformanceMetrics struct {
	spatialindex.Metrics

	Queries          int
	Snaps            int
	LastQueryTime    time.Duration
	AverageQueryTime time.Duration
}

// PerformanceMetrics returns a snapshot of the index and query metrics.
func (e *Engine) PerformanceMetrics() PerformanceMetrics {
	e.mu.Lock()
	defer e.mu.Unlock()

	m := PerformanceMetrics{
		Metrics:       e.index.Metrics(),
		Queries:       e.stats.queries,
		Snaps:         e.stats.snaps,
		LastQueryTime: e.stats.lastQuery,
	}
	if e.stats.queries > 0 {
		m.AverageQueryTime = e.stats.total / time.Duration(e.stats.queries)
	}
	return m
}
