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
	"maps"
	"slices"

	"github.com/akhenakh/geosnap/geometry"
)

// arena owns the geometries of an index, keyed by id. The tree only holds
// (bounds, id) entries that point back into it.
type arena struct {
	slots map[string]*slot
}

type slot struct {
	geom  geometry.Geometry
	entry *entry
}

func newArena(capacity int) *arena {
	return &arena{slots: make(map[string]*slot, capacity)}
}

func (a *arena) get(id string) (*slot, bool) {
	s, ok := a.slots[id]
	return s, ok
}

func (a *arena) put(g geometry.Geometry, e *entry) {
	a.slots[g.ID] = &slot{geom: g, entry: e}
}

func (a *arena) delete(id string) {
	delete(a.slots, id)
}

func (a *arena) len() int {
	return len(a.slots)
}

// Iterator returns an iterator over the arena in id order.
func (a *arena) Iterator() *arenaIterator {
	return &arenaIterator{arena: a, ids: slices.Sorted(maps.Keys(a.slots))}
}

// arenaIterator walks a snapshot of the ids present when it was created.
type arenaIterator struct {
	arena *arena
	ids   []string
	pos   int
}

// Next advances the iterator.
func (it *arenaIterator) Next() {
	it.pos++
}

// Done reports whether the iterator is positioned past the last id.
func (it *arenaIterator) Done() bool {
	return it.pos >= len(it.ids)
}

// Geometry returns the geometry at the current position.
func (it *arenaIterator) Geometry() geometry.Geometry {
	return it.arena.slots[it.ids[it.pos]].geom
}

// Entry returns the tree entry at the current position.
func (it *arenaIterator) Entry() *entry {
	return it.arena.slots[it.ids[it.pos]].entry
}
