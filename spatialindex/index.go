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

// Package spatialindex stores geometries in an R-tree keyed by their bounds
// and answers the range, radius and nearest-neighbor queries that feed the
// snap resolver.
//
// An Index is not safe for concurrent use. Callers serialize writers
// (Insert, InsertBatch, Remove, Clear, Rebuild) against readers.
package spatialindex

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/akhenakh/geosnap/geometry"
)

// minExtent is the smallest side length given to a tree rectangle; rtreego
// rejects rectangles with a zero-length side.
const minExtent = 1e-9

// entry is what the tree stores: the id of a geometry and its bounds.
type entry struct {
	id    string
	bound orb.Bound
	rect  rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *entry) Bounds() rtreego.Rect {
	return e.rect
}

func newEntry(id string, b orb.Bound) (*entry, error) {
	r, err := toRect(b)
	if err != nil {
		return nil, err
	}
	return &entry{id: id, bound: b, rect: r}, nil
}

func toRect(b orb.Bound) (rtreego.Rect, error) {
	if !geometry.ValidBound(b) {
		return rtreego.Rect{}, fmt.Errorf("%w: %v", ErrInvalidBounds, b)
	}
	dx := math.Max(minExtent, b.Max[0]-b.Min[0])
	dy := math.Max(minExtent, b.Max[1]-b.Min[1])
	r, err := rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, []float64{dx, dy})
	if err != nil {
		return rtreego.Rect{}, fmt.Errorf("%w: %v", ErrInvalidBounds, err)
	}
	return r, nil
}

// sameEntry matches tree entries by id and bounds.
func sameEntry(a, b rtreego.Spatial) bool {
	ea, ok := a.(*entry)
	if !ok {
		return false
	}
	eb, ok := b.(*entry)
	return ok && ea.id == eb.id && ea.bound == eb.bound
}

// Index is an R-tree over geometry bounds plus the arena owning the
// geometries themselves.
type Index struct {
	opts  Options
	tree  *rtreego.Rtree
	arena *arena

	indexedCount    int
	lastRebuildTime time.Duration
	rebuilds        int

	logger *slog.Logger
	now    func() time.Time
}

// New creates an empty index. A nil opts uses DefaultOptions.
func New(opts *Options) *Index {
	if opts == nil {
		def := DefaultOptions()
		opts = &def
	}
	o := opts.normalized()
	ix := &Index{
		opts:   o,
		arena:  newArena(0),
		logger: o.Logger,
		now:    time.Now,
	}
	ix.tree = ix.newTree()
	return ix
}

func (ix *Index) newTree(items ...rtreego.Spatial) *rtreego.Rtree {
	return rtreego.NewTree(2, ix.opts.MinChildren, ix.opts.MaxChildren, items...)
}

// Options returns the options the index was created with.
func (ix *Index) Options() Options {
	return ix.opts
}

// prepare checks the fields the index relies on and fills in missing bounds.
func prepare(g geometry.Geometry) (geometry.Geometry, error) {
	if g.ID == "" {
		return g, ErrMissingID
	}
	g, err := g.WithBounds()
	if err != nil {
		return g, fmt.Errorf("geometry %q: %w", g.ID, err)
	}
	if !geometry.ValidBound(g.Bounds) {
		return g, fmt.Errorf("geometry %q: %w: %v", g.ID, ErrInvalidBounds, g.Bounds)
	}
	return g, nil
}

// Insert adds g to the index, replacing any geometry with the same id. It may
// rebuild the whole tree afterwards, see Options.AutoRebuild.
func (ix *Index) Insert(g geometry.Geometry) error {
	g, err := prepare(g)
	if err != nil {
		return err
	}
	e, err := newEntry(g.ID, g.Bounds)
	if err != nil {
		return err
	}
	if _, ok := ix.arena.get(g.ID); ok {
		ix.Remove(g.ID)
	}
	ix.tree.Insert(e)
	ix.arena.put(g, e)
	ix.indexedCount++

	if ix.shouldRebuild() {
		if _, err := ix.Rebuild(); err != nil {
			return err
		}
	}
	return nil
}

// BatchMetrics describes a bulk load or rebuild.
type BatchMetrics struct {
	IndexTime     time.Duration
	GeometryCount int
	MemoryUsage   int64
}

// InsertBatch adds all geometries in one bulk load. The resulting tree holds
// the union of the existing geometries and the batch, later entries winning on
// duplicate ids. The batch is applied all-or-nothing: if any geometry is
// unusable the index is left untouched.
func (ix *Index) InsertBatch(gs []geometry.Geometry) (BatchMetrics, error) {
	start := ix.now()

	merged := newArena(ix.arena.len() + len(gs))
	for it := ix.arena.Iterator(); !it.Done(); it.Next() {
		merged.put(it.Geometry(), it.Entry())
	}
	for _, g := range gs {
		g, err := prepare(g)
		if err != nil {
			return BatchMetrics{}, err
		}
		e, err := newEntry(g.ID, g.Bounds)
		if err != nil {
			return BatchMetrics{}, err
		}
		merged.put(g, e)
	}
	if err := ix.load(merged); err != nil {
		return BatchMetrics{}, err
	}

	elapsed := ix.now().Sub(start)
	ix.lastRebuildTime = elapsed
	ix.logger.Debug("spatial index bulk load", "batch", len(gs), "count", ix.indexedCount, "duration", elapsed)
	return BatchMetrics{
		IndexTime:     elapsed,
		GeometryCount: len(gs),
		MemoryUsage:   ix.memoryUsage(),
	}, nil
}

// load replaces the tree with a bulk-loaded one over the arena's entries.
func (ix *Index) load(a *arena) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrBuildFailed, r)
		}
	}()
	items := make([]rtreego.Spatial, 0, a.len())
	for it := a.Iterator(); !it.Done(); it.Next() {
		items = append(items, it.Entry())
	}
	ix.tree = ix.newTree(items...)
	ix.arena = a
	ix.indexedCount = a.len()
	return nil
}

// Remove deletes the geometry with the given id. It reports false when the id
// is unknown.
func (ix *Index) Remove(id string) bool {
	s, ok := ix.arena.get(id)
	if !ok {
		return false
	}
	if !ix.tree.DeleteWithComparator(s.entry, sameEntry) {
		ix.logger.Warn("spatial index entry missing from tree", "id", id)
	}
	ix.arena.delete(id)
	ix.indexedCount--
	return true
}

// Clear removes every geometry and resets the counters.
func (ix *Index) Clear() {
	ix.tree = ix.newTree()
	ix.arena = newArena(0)
	ix.indexedCount = 0
	ix.lastRebuildTime = 0
}

// Rebuild bulk-loads the tree again from the geometries it already holds.
func (ix *Index) Rebuild() (BatchMetrics, error) {
	start := ix.now()
	if err := ix.load(ix.arena); err != nil {
		return BatchMetrics{}, err
	}
	elapsed := ix.now().Sub(start)
	ix.lastRebuildTime = elapsed
	ix.rebuilds++
	ix.logger.Debug("spatial index rebuilt", "count", ix.indexedCount, "duration", elapsed)
	return BatchMetrics{
		IndexTime:     elapsed,
		GeometryCount: ix.indexedCount,
		MemoryUsage:   ix.memoryUsage(),
	}, nil
}

func (ix *Index) shouldRebuild() bool {
	if !ix.opts.AutoRebuild {
		return false
	}
	count := float64(ix.indexedCount)
	threshold := math.Max(float64(ix.opts.RebuildMinCount), count*ix.opts.RebuildGrowthRatio)
	return count > threshold && ix.lastRebuildTime > ix.opts.RebuildMinDuration
}

// Get returns the geometry stored under id.
func (ix *Index) Get(id string) (geometry.Geometry, bool) {
	s, ok := ix.arena.get(id)
	if !ok {
		return geometry.Geometry{}, false
	}
	return s.geom, true
}

// Len returns the number of indexed geometries.
func (ix *Index) Len() int {
	return ix.indexedCount
}
