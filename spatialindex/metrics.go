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
	"fmt"
	"math"
	"time"

	"fortio.org/safecast"
)

// Per-geometry memory estimate: one tree entry plus the stored geometry.
const (
	entryOverheadBytes    = 64
	geometryOverheadBytes = 256
)

// Metrics is a snapshot of the index state.
type Metrics struct {
	IndexedCount    int
	LastRebuildTime time.Duration
	Rebuilds        int

	// MemoryUsage is a linear estimate in bytes, not a measurement.
	MemoryUsage int64

	// EstimatedTreeDepth is ⌈log_MaxChildren(IndexedCount)⌉; TreeDepth is the
	// depth reported by the tree itself.
	EstimatedTreeDepth int
	TreeDepth          int
}

// Metrics returns the current index metrics.
func (ix *Index) Metrics() Metrics {
	return Metrics{
		IndexedCount:       ix.indexedCount,
		LastRebuildTime:    ix.lastRebuildTime,
		Rebuilds:           ix.rebuilds,
		MemoryUsage:        ix.memoryUsage(),
		EstimatedTreeDepth: estimatedDepth(ix.indexedCount, ix.opts.MaxChildren),
		TreeDepth:          ix.tree.Depth(),
	}
}

func (ix *Index) memoryUsage() int64 {
	n, err := safecast.Conv[int64](ix.indexedCount)
	if err != nil {
		return math.MaxInt64
	}
	return n * (entryOverheadBytes + geometryOverheadBytes)
}

func estimatedDepth(count, maxEntries int) int {
	if count <= 1 || maxEntries < 2 {
		return count
	}
	d := math.Ceil(math.Log(float64(count)) / math.Log(float64(maxEntries)))
	depth, err := safecast.Truncate[int](d)
	if err != nil {
		return 0
	}
	return max(1, depth)
}

// ValidationResult collects inconsistencies found by Validate.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Validate cross-checks the tree size, the running count and the arena size,
// and flags entries with inverted bounds. It only reports; it never repairs.
func (ix *Index) Validate() ValidationResult {
	res := ValidationResult{Valid: true}
	fail := func(format string, args ...any) {
		res.Valid = false
		res.Errors = append(res.Errors, fmt.Sprintf(format, args...))
	}

	if size := ix.tree.Size(); size != ix.indexedCount {
		fail("tree holds %d entries, indexed count is %d", size, ix.indexedCount)
	}
	if n := ix.arena.len(); n != ix.indexedCount {
		fail("arena holds %d geometries, indexed count is %d", n, ix.indexedCount)
	}
	for it := ix.arena.Iterator(); !it.Done(); it.Next() {
		e, g := it.Entry(), it.Geometry()
		if e.bound.Min[0] > e.bound.Max[0] || e.bound.Min[1] > e.bound.Max[1] {
			fail("entry %q has inverted bounds %v", e.id, e.bound)
		}
		if e.id != g.ID {
			fail("entry %q points at geometry %q", e.id, g.ID)
		}
	}
	return res
}
