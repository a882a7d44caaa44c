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

// Package engine is the public entry point of the snapping library. An Engine
// owns a spatial index of geometries and a snap calculator, and answers
// cursor queries with a single snap.Result.
//
// A query runs in four steps: the cursor is mapped through the configured
// Transform, the index returns the geometries whose bounds lie within the
// tolerance of it, the calculator scores the targets of exactly those
// geometries, and the engine notifies snap:found or snap:lost listeners.
//
// Queries never fail. Any internal failure during a query is logged and
// yields a result that did not snap. Mutations return an *Error.
//
// An Engine is safe for concurrent use. Listeners run after the engine lock
// is released.
package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/paulmach/orb"

	"github.com/akhenakh/geosnap/geometry"
	"github.com/akhenakh/geosnap/snap"
	"github.com/akhenakh/geosnap/spatialindex"
)

// Engine answers snap queries against a mutable set of geometries.
type Engine struct {
	mu sync.Mutex

	index     *spatialindex.Index
	calc      *snap.Calculator
	transform Transform
	enabled   bool
	disposed  bool

	stats queryStats

	events *dispatcher
	logger *slog.Logger
	now    func() time.Time
}

type settings struct {
	logger    *slog.Logger
	transform Transform
	config    snap.Config
	indexOpts spatialindex.Options
}

// Option configures an Engine at construction.
type Option func(*settings)

// WithLogger sets the logger. Debug records are written only in debug mode.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithTransform sets the cursor transform. The default is IdentityTransform.
func WithTransform(t Transform) Option {
	return func(s *settings) { s.transform = t }
}

// WithConfig sets the initial snap configuration.
func WithConfig(cfg snap.Config) Option {
	return func(s *settings) { s.config = cfg }
}

// WithIndexOptions sets the spatial index options.
func WithIndexOptions(o spatialindex.Options) Option {
	return func(s *settings) { s.indexOpts = o }
}

// New returns an enabled engine with no geometries.
func New(opts ...Option) *Engine {
	s := settings{
		logger:    slog.New(slog.DiscardHandler),
		transform: IdentityTransform{},
		config:    snap.DefaultConfig(),
		indexOpts: spatialindex.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.transform == nil {
		s.transform = IdentityTransform{}
	}
	if s.indexOpts.Logger == nil {
		s.indexOpts.Logger = s.logger
	}

	return &Engine{
		index:     spatialindex.New(&s.indexOpts),
		calc:      snap.NewCalculator(s.config),
		transform: s.transform,
		enabled:   true,
		events:    newDispatcher(s.logger),
		logger:    s.logger,
		now:       time.Now,
	}
}

// debug logs only when the configuration has debug mode on. The caller
// holds e.mu.
func (e *Engine) debug(msg string, args ...any) {
	if e.calc.DebugMode() {
		e.logger.Debug(msg, args...)
	}
}

// emit delivers the events in order. It must be called without e.mu held.
func (e *Engine) emit(evs ...Event) {
	for _, ev := range evs {
		e.events.emit(ev)
	}
}

// SnapToPoint returns the snap decision for a cursor position. A disabled or
// disposed engine returns a result that did not snap without looking at any
// geometry.
func (e *Engine) SnapToPoint(cursor orb.Point) snap.Result {
	e.mu.Lock()
	locked := true
	defer func() {
		if locked {
			e.mu.Unlock()
		}
	}()
	if !e.enabled || e.disposed {
		return snap.NoSnap(cursor)
	}
	res := e.snapLocked(cursor, e.transform)

	locked = false
	e.mu.Unlock()
	e.emit(snapEvent(res))
	return res
}

// SnapPoints answers several cursor queries at once, mapping all cursors
// through the transform in one batch.
func (e *Engine) SnapPoints(cursors []orb.Point) []snap.Result {
	out := make([]snap.Result, len(cursors))

	e.mu.Lock()
	locked := true
	defer func() {
		if locked {
			e.mu.Unlock()
		}
	}()
	if !e.enabled || e.disposed {
		for i, c := range cursors {
			out[i] = snap.NoSnap(c)
		}
		return out
	}
	evs := make([]Event, len(cursors))
	if pts := e.projectAll(cursors); len(pts) == len(cursors) {
		for i, p := range pts {
			out[i] = e.snapLocked(p, IdentityTransform{})
			evs[i] = snapEvent(out[i])
		}
	} else {
		for i, c := range cursors {
			out[i] = e.snapLocked(c, e.transform)
			evs[i] = snapEvent(out[i])
		}
	}

	locked = false
	e.mu.Unlock()
	e.emit(evs...)
	return out
}

// projectAll maps the cursors through the transform in one batch. It returns
// nil if the transform panics.
func (e *Engine) projectAll(cursors []orb.Point) (pts []orb.Point) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("batch cursor transform failed", "cursors", len(cursors), "panic", r)
			pts = nil
		}
	}()
	return applyAll(e.transform, cursors)
}

// snapLocked maps one cursor through t and runs the query. A panic anywhere
// in between, the transform included, yields a result that did not snap.
func (e *Engine) snapLocked(cursor orb.Point, t Transform) (res snap.Result) {
	start := e.now()
	p := cursor
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("snap query failed", "cursor", p, "panic", r)
			res = snap.NoSnap(p)
		}
		e.stats.record(e.now().Sub(start), res.Snapped)
	}()

	p = t.Apply(cursor)
	if !finite(p) {
		e.debug("cursor transform produced a non-finite point", "cursor", cursor, "point", p)
		return snap.NoSnap(p)
	}
	cands, err := e.index.SearchNearPoint(p, e.calc.Tolerance(), e.calc.MaxResults())
	if err != nil {
		e.logger.Error("spatial search failed", "cursor", p, "error", err)
		return snap.NoSnap(p)
	}
	geoms := make([]geometry.Geometry, len(cands))
	for i, c := range cands {
		geoms[i] = c.Geometry
	}
	res = e.calc.CalculateSnap(p, geoms)
	if res.Snapped {
		e.debug("snapped", "cursor", p, "point", res.SnapPoint, "type", res.SnapType, "distance", res.Distance)
	}
	return res
}

func snapEvent(res snap.Result) Event {
	t := EventSnapLost
	if res.Snapped {
		t = EventSnapFound
	}
	return Event{Type: t, Result: &res}
}

func finite(p orb.Point) bool {
	return !math.IsNaN(p[0]) && !math.IsNaN(p[1]) && !math.IsInf(p[0], 0) && !math.IsInf(p[1], 0)
}

// guard converts a panic from the index into an *Error for op.
func guard(op string, err *error) {
	if r := recover(); r != nil {
		*err = &Error{Op: op, Err: fmt.Errorf("%w: %v", ErrInternal, r)}
	}
}

// AddGeometry validates g and indexes it, replacing any geometry with the
// same id. Invalid geometries are not indexed: AddGeometry reports false and
// a nil error for them. When the insert triggers an automatic index rebuild,
// index:rebuilt is emitted after geometry:added.
func (e *Engine) AddGeometry(g geometry.Geometry) (added bool, err error) {
	const op = "AddGeometry"
	e.mu.Lock()
	locked := true
	defer func() {
		if locked {
			e.mu.Unlock()
		}
	}()
	defer guard(op, &err)

	if e.disposed {
		return false, &Error{Op: op, Err: ErrDisposed}
	}
	if res := geometry.Validate(g); !res.Valid {
		e.debug("rejected invalid geometry", "id", g.ID, "errors", res.Errors)
		return false, nil
	}
	rebuilds := e.index.Metrics().Rebuilds
	if err := e.index.Insert(g); err != nil {
		e.logger.Error("indexing geometry", "id", g.ID, "error", err)
		return false, &Error{Op: op, Err: err}
	}
	e.debug("geometry added", "id", g.ID, "kind", g.Kind())

	evs := []Event{{Type: EventGeometryAdded, GeometryID: g.ID}}
	if m := e.index.Metrics(); m.Rebuilds > rebuilds {
		evs = append(evs, Event{Type: EventIndexRebuilt, Count: m.IndexedCount, Duration: m.LastRebuildTime})
	}

	locked = false
	e.mu.Unlock()
	e.emit(evs...)
	return true, nil
}

// AddGeometries bulk-loads the valid geometries of gs into the index and
// returns how many were accepted. Invalid entries are dropped.
func (e *Engine) AddGeometries(gs []geometry.Geometry) (accepted int, err error) {
	const op = "AddGeometries"
	e.mu.Lock()
	locked := true
	defer func() {
		if locked {
			e.mu.Unlock()
		}
	}()
	defer guard(op, &err)

	if e.disposed {
		return 0, &Error{Op: op, Err: ErrDisposed}
	}
	valid := make([]geometry.Geometry, 0, len(gs))
	for _, g := range gs {
		if res := geometry.Validate(g); !res.Valid {
			e.debug("rejected invalid geometry", "id", g.ID, "errors", res.Errors)
			continue
		}
		valid = append(valid, g)
	}
	m, err := e.index.InsertBatch(valid)
	if err != nil {
		e.logger.Error("bulk loading geometries", "count", len(valid), "error", err)
		return 0, &Error{Op: op, Err: err}
	}
	e.debug("geometries bulk loaded", "accepted", len(valid), "dropped", len(gs)-len(valid), "duration", m.IndexTime)

	locked = false
	e.mu.Unlock()
	e.emit(Event{Type: EventIndexRebuilt, Count: m.GeometryCount, Duration: m.IndexTime})
	return len(valid), nil
}

// RemoveGeometry removes the geometry with the given id and reports whether
// it was present.
func (e *Engine) RemoveGeometry(id string) (bool, error) {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return false, &Error{Op: "RemoveGeometry", Err: ErrDisposed}
	}
	removed := e.index.Remove(id)
	e.mu.Unlock()

	if removed {
		e.emit(Event{Type: EventGeometryRemoved, GeometryID: id})
	}
	return removed, nil
}

// ClearGeometries removes every geometry.
func (e *Engine) ClearGeometries() error {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return &Error{Op: "ClearGeometries", Err: ErrDisposed}
	}
	n := e.index.Len()
	e.index.Clear()
	e.mu.Unlock()

	e.emit(Event{Type: EventGeometriesCleared, Count: n})
	return nil
}

// RebuildIndex bulk-loads the index again from the geometries it holds.
func (e *Engine) RebuildIndex() (m spatialindex.BatchMetrics, err error) {
	const op = "RebuildIndex"
	e.mu.Lock()
	locked := true
	defer func() {
		if locked {
			e.mu.Unlock()
		}
	}()
	defer guard(op, &err)

	if e.disposed {
		return m, &Error{Op: op, Err: ErrDisposed}
	}
	m, err = e.index.Rebuild()
	if err != nil {
		e.logger.Error("rebuilding index", "error", err)
		return m, &Error{Op: op, Err: err}
	}

	locked = false
	e.mu.Unlock()
	e.emit(Event{Type: EventIndexRebuilt, Count: m.GeometryCount, Duration: m.IndexTime})
	return m, nil
}

// updateConfig applies opts and notifies config:changed listeners.
func (e *Engine) updateConfig(op string, opts ...snap.Option) error {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return &Error{Op: op, Err: ErrDisposed}
	}
	e.calc.UpdateConfiguration(opts...)
	cfg := e.calc.Config()
	e.mu.Unlock()

	e.emit(Event{Type: EventConfigChanged, Config: &cfg})
	return nil
}

// SetTolerance sets the snap tolerance, clamped to [snap.MinTolerance,
// snap.MaxTolerance].
func (e *Engine) SetTolerance(t float64) error {
	return e.updateConfig("SetTolerance", snap.WithTolerance(t))
}

// SetSnapTypeEnabled enables or disables one target type.
func (e *Engine) SetSnapTypeEnabled(t snap.TargetType, enabled bool) error {
	return e.updateConfig("SetSnapTypeEnabled", snap.WithSnapType(t, enabled))
}

// UpdateConfiguration applies the options to the snap configuration.
func (e *Engine) UpdateConfiguration(opts ...snap.Option) error {
	return e.updateConfig("UpdateConfiguration", opts...)
}

// Configuration returns a copy of the current snap configuration.
func (e *Engine) Configuration() snap.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calc.Config()
}

// SetEnabled turns snapping on or off. A disposed engine stays disabled.
func (e *Engine) SetEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return
	}
	e.enabled = enabled
}

// Enabled reports whether SnapToPoint looks at geometries.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// ValidateIndex cross-checks the index for internal inconsistencies.
func (e *Engine) ValidateIndex() spatialindex.ValidationResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index.Validate()
}

// Geometry returns the indexed geometry with the given id.
func (e *Engine) Geometry(id string) (geometry.Geometry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index.Get(id)
}

// Len returns the number of indexed geometries.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index.Len()
}

// NearestGeometries returns up to k geometries closest to the cursor, which
// is mapped through the transform first.
func (e *Engine) NearestGeometries(cursor orb.Point, k int) (gs []geometry.Geometry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("nearest geometries query failed", "cursor", cursor, "panic", r)
			gs = nil
		}
	}()
	p := e.transform.Apply(cursor)
	if !finite(p) {
		return nil
	}
	return e.index.FindKNearest(p, k)
}

// GeometriesInBounds returns the geometries whose bounds intersect b, which
// is given in geometry coordinates.
func (e *Engine) GeometriesInBounds(b orb.Bound) []geometry.Geometry {
	e.mu.Lock()
	defer e.mu.Unlock()
	gs, err := e.index.SearchInBounds(b)
	if err != nil {
		e.debug("bounds search failed", "bounds", b, "error", err)
		return nil
	}
	return gs
}

// AddEventListener registers fn for events of type t.
func (e *Engine) AddEventListener(t EventType, fn Listener) ListenerID {
	return e.events.add(t, fn)
}

// RemoveEventListener removes a registration and reports whether it existed.
func (e *Engine) RemoveEventListener(id ListenerID) bool {
	return e.events.remove(id)
}

// Dispose clears all geometries, disables the engine and drops every
// listener after notifying engine:disposed. Calling it again does nothing.
func (e *Engine) Dispose() {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	e.disposed = true
	e.enabled = false
	e.index.Clear()
	e.mu.Unlock()

	e.emit(Event{Type: EventDisposed})
	e.events.clear()
}
