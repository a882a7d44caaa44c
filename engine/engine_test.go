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
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/akhenakh/geosnap/geometry"
	"github.com/akhenakh/geosnap/snap"
)

const epsilon = 1e-9

func line(id string, x0, y0, x1, y1 float64) geometry.Geometry {
	return geometry.Geometry{
		ID:         id,
		Shape:      geometry.Line{Start: orb.Point{x0, y0}, End: orb.Point{x1, y1}},
		Visible:    true,
		Selectable: true,
	}
}

func circle(id string, x, y, r float64) geometry.Geometry {
	return geometry.Geometry{
		ID:         id,
		Shape:      geometry.Circle{Center: orb.Point{x, y}, Radius: r},
		Visible:    true,
		Selectable: true,
	}
}

func mustAdd(t *testing.T, e *Engine, g geometry.Geometry) {
	t.Helper()
	ok, err := e.AddGeometry(g)
	if err != nil || !ok {
		t.Fatalf("AddGeometry(%q) = %v, %v", g.ID, ok, err)
	}
}

func pointsEqual(a, b orb.Point) bool {
	return math.Abs(a[0]-b[0]) < epsilon && math.Abs(a[1]-b[1]) < epsilon
}

func TestSnapToPointLineMidpoint(t *testing.T) {
	e := New()
	mustAdd(t, e, line("l", 0, 0, 10, 0))

	got := e.SnapToPoint(orb.Point{5, 0.4})
	if !got.Snapped || got.SnapType != snap.TargetMidpoint {
		t.Fatalf("SnapToPoint = %+v, want a midpoint snap", got)
	}
	if !pointsEqual(got.SnapPoint, orb.Point{5, 0}) {
		t.Errorf("SnapPoint = %v, want (5, 0)", got.SnapPoint)
	}
	if math.Abs(got.Distance-0.4) > epsilon {
		t.Errorf("Distance = %v, want 0.4", got.Distance)
	}
}

func TestSnapToPointCircleVertex(t *testing.T) {
	e := New()
	mustAdd(t, e, circle("c", 0, 0, 5))
	if err := e.SetTolerance(5); err != nil {
		t.Fatal(err)
	}

	got := e.SnapToPoint(orb.Point{5.2, 0})
	if !got.Snapped || got.SnapType != snap.TargetVertex {
		t.Fatalf("SnapToPoint = %+v, want a vertex snap", got)
	}
	if !pointsEqual(got.SnapPoint, orb.Point{5, 0}) {
		t.Errorf("SnapPoint = %v, want (5, 0)", got.SnapPoint)
	}
	if math.Abs(got.Distance-0.2) > epsilon {
		t.Errorf("Distance = %v, want 0.2", got.Distance)
	}
}

func TestSnapToPointDisabled(t *testing.T) {
	e := New()
	mustAdd(t, e, line("l", 0, 0, 10, 0))
	e.SetEnabled(false)
	if e.Enabled() {
		t.Fatalf("Enabled() = true after SetEnabled(false)")
	}
	for _, p := range []orb.Point{{0, 0}, {5, 0}, {10, 0.1}} {
		if got := e.SnapToPoint(p); got.Snapped {
			t.Errorf("SnapToPoint(%v) snapped while disabled", p)
		}
	}
	if got := e.PerformanceMetrics().Queries; got != 0 {
		t.Errorf("disabled engine ran %d queries", got)
	}

	e.SetEnabled(true)
	if got := e.SnapToPoint(orb.Point{5, 0}); !got.Snapped {
		t.Errorf("SnapToPoint did not snap after re-enabling")
	}
}

func TestClearGeometries(t *testing.T) {
	e := New()
	mustAdd(t, e, line("l", 0, 0, 10, 0))
	mustAdd(t, e, circle("c", 20, 20, 3))
	if err := e.ClearGeometries(); err != nil {
		t.Fatal(err)
	}
	for _, p := range []orb.Point{{0, 0}, {5, 0}, {20, 20}, {23, 20}} {
		if got := e.SnapToPoint(p); got.Snapped {
			t.Errorf("SnapToPoint(%v) snapped after clear", p)
		}
	}
	if got := e.PerformanceMetrics().IndexedCount; got != 0 {
		t.Errorf("IndexedCount = %d after clear, want 0", got)
	}
}

func TestAddGeometryInvalid(t *testing.T) {
	e := New()
	tests := []geometry.Geometry{
		circle("zero-radius", 0, 0, 0),
		line("", 0, 0, 1, 1),
		{ID: "no-shape", Visible: true, Selectable: true},
		line("nan", math.NaN(), 0, 1, 1),
	}
	for _, g := range tests {
		ok, err := e.AddGeometry(g)
		if ok || err != nil {
			t.Errorf("AddGeometry(%q) = %v, %v, want false, nil", g.ID, ok, err)
		}
	}
	if e.Len() != 0 {
		t.Errorf("Len = %d after invalid inserts, want 0", e.Len())
	}
}

func TestAddGeometryReplaces(t *testing.T) {
	e := New()
	mustAdd(t, e, line("a", 0, 0, 10, 0))
	mustAdd(t, e, line("a", 100, 100, 110, 100))

	if e.Len() != 1 {
		t.Errorf("Len = %d after re-insert, want 1", e.Len())
	}
	if got := e.SnapToPoint(orb.Point{5, 0}); got.Snapped {
		t.Errorf("snapped to the replaced geometry at %v", got.SnapPoint)
	}
	if got := e.SnapToPoint(orb.Point{105, 100}); !got.Snapped || got.Target.Geometry.ID != "a" {
		t.Errorf("SnapToPoint near the new geometry = %+v", got)
	}
	g, ok := e.Geometry("a")
	if !ok {
		t.Fatalf("Geometry(a) missing")
	}
	if diff := cmp.Diff(geometry.Line{Start: orb.Point{100, 100}, End: orb.Point{110, 100}}, g.Shape); diff != "" {
		t.Errorf("stored shape mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveRoundTrip(t *testing.T) {
	e := New()
	l := line("l", 0, 0, 10, 0)
	mustAdd(t, e, l)
	mustAdd(t, e, circle("c", 30, 0, 2))
	cursor := orb.Point{5, 0.3}
	before := e.SnapToPoint(cursor)

	removed, err := e.RemoveGeometry("l")
	if err != nil || !removed {
		t.Fatalf("RemoveGeometry(l) = %v, %v", removed, err)
	}
	if removed, _ := e.RemoveGeometry("l"); removed {
		t.Errorf("second RemoveGeometry(l) reported true")
	}
	if got := e.SnapToPoint(cursor); got.Snapped {
		t.Errorf("snapped to removed geometry")
	}

	mustAdd(t, e, l)
	after := e.SnapToPoint(cursor)
	if e.Len() != 2 {
		t.Errorf("Len = %d after round trip, want 2", e.Len())
	}
	if after.SnapPoint != before.SnapPoint || after.SnapType != before.SnapType {
		t.Errorf("round trip changed the snap from %+v to %+v", before, after)
	}
}

func TestAddGeometries(t *testing.T) {
	e := New()
	var rebuilt []Event
	e.AddEventListener(EventIndexRebuilt, func(ev Event) { rebuilt = append(rebuilt, ev) })

	n, err := e.AddGeometries([]geometry.Geometry{
		line("a", 0, 0, 10, 0),
		circle("bad", 0, 0, -1),
		circle("b", 50, 50, 4),
		line("a", 0, 10, 10, 10),
	})
	if err != nil {
		t.Fatalf("AddGeometries: %v", err)
	}
	if n != 3 {
		t.Errorf("AddGeometries accepted %d, want 3", n)
	}
	if e.Len() != 2 {
		t.Errorf("Len = %d, want 2", e.Len())
	}
	if len(rebuilt) != 1 || rebuilt[0].Count != 3 {
		t.Errorf("index:rebuilt events = %+v, want one with count 3", rebuilt)
	}
	if got := e.SnapToPoint(orb.Point{5, 10.2}); !got.Snapped || got.Target.Geometry.ID != "a" {
		t.Errorf("later duplicate did not win: %+v", got)
	}
	if res := e.ValidateIndex(); !res.Valid {
		t.Errorf("ValidateIndex after batch: %v", res.Errors)
	}
}

func TestSnapEvents(t *testing.T) {
	e := New()
	mustAdd(t, e, line("l", 0, 0, 10, 0))

	var found, lost int
	e.AddEventListener(EventSnapFound, func(ev Event) {
		if ev.Result == nil || !ev.Result.Snapped {
			t.Errorf("snap:found event without a snapped result: %+v", ev)
		}
		found++
	})
	e.AddEventListener(EventSnapLost, func(Event) { lost++ })

	e.SnapToPoint(orb.Point{5, 0.1})
	e.SnapToPoint(orb.Point{50, 50})
	e.SnapToPoint(orb.Point{0, 0.1})
	if found != 2 || lost != 1 {
		t.Errorf("found, lost = %d, %d, want 2, 1", found, lost)
	}

	m := e.PerformanceMetrics()
	if m.Queries != 3 || m.Snaps != 2 {
		t.Errorf("Queries, Snaps = %d, %d, want 3, 2", m.Queries, m.Snaps)
	}
}

func TestListenerPanicIsolated(t *testing.T) {
	e := New()
	mustAdd(t, e, line("l", 0, 0, 10, 0))

	var calls []string
	e.AddEventListener(EventSnapFound, func(Event) {
		calls = append(calls, "first")
		panic("boom")
	})
	e.AddEventListener(EventSnapFound, func(Event) { calls = append(calls, "second") })

	got := e.SnapToPoint(orb.Point{5, 0})
	if !got.Snapped {
		t.Errorf("panicking listener changed the result: %+v", got)
	}
	if diff := cmp.Diff([]string{"first", "second"}, calls); diff != "" {
		t.Errorf("listener calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveEventListener(t *testing.T) {
	e := New()
	n := 0
	id := e.AddEventListener(EventSnapLost, func(Event) { n++ })
	e.SnapToPoint(orb.Point{0, 0})
	if !e.RemoveEventListener(id) {
		t.Fatalf("RemoveEventListener(%v) = false", id)
	}
	if e.RemoveEventListener(id) {
		t.Errorf("second RemoveEventListener(%v) = true", id)
	}
	e.SnapToPoint(orb.Point{0, 0})
	if n != 1 {
		t.Errorf("listener called %d times, want 1", n)
	}
}

func TestConfigChangedEvent(t *testing.T) {
	e := New()
	var got []snap.Config
	e.AddEventListener(EventConfigChanged, func(ev Event) { got = append(got, *ev.Config) })

	if err := e.SetTolerance(1000); err != nil {
		t.Fatal(err)
	}
	if err := e.SetSnapTypeEnabled(snap.TargetNearest, true); err != nil {
		t.Fatal(err)
	}
	if err := e.UpdateConfiguration(snap.WithMaxResults(7)); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d config:changed events, want 3", len(got))
	}
	if got[0].Tolerance != snap.MaxTolerance {
		t.Errorf("tolerance not clamped: %v", got[0].Tolerance)
	}
	cfg := e.Configuration()
	if !cfg.EnabledTypes.Has(snap.TargetNearest) || cfg.MaxResults != 7 {
		t.Errorf("Configuration = %+v", cfg)
	}
}

func TestDispose(t *testing.T) {
	e := New()
	mustAdd(t, e, line("l", 0, 0, 10, 0))
	disposed := 0
	e.AddEventListener(EventDisposed, func(Event) { disposed++ })
	lost := 0
	e.AddEventListener(EventSnapLost, func(Event) { lost++ })

	e.Dispose()
	e.Dispose()
	if disposed != 1 {
		t.Errorf("engine:disposed delivered %d times, want 1", disposed)
	}
	if e.Enabled() || e.Len() != 0 {
		t.Errorf("after Dispose: Enabled = %v, Len = %d", e.Enabled(), e.Len())
	}
	e.SetEnabled(true)
	if got := e.SnapToPoint(orb.Point{5, 0}); got.Snapped {
		t.Errorf("disposed engine snapped")
	}
	if lost != 0 {
		t.Errorf("listeners survived Dispose")
	}

	_, err := e.AddGeometry(line("m", 0, 0, 1, 0))
	if !errors.Is(err, ErrDisposed) {
		t.Errorf("AddGeometry after Dispose error = %v, want %v", err, ErrDisposed)
	}
	var ee *Error
	if !errors.As(err, &ee) || ee.Op != "AddGeometry" {
		t.Errorf("AddGeometry after Dispose error = %#v, want *Error with Op AddGeometry", err)
	}
	if _, err := e.AddGeometries(nil); !errors.Is(err, ErrDisposed) {
		t.Errorf("AddGeometries after Dispose error = %v", err)
	}
	if err := e.ClearGeometries(); !errors.Is(err, ErrDisposed) {
		t.Errorf("ClearGeometries after Dispose error = %v", err)
	}
	if _, err := e.RebuildIndex(); !errors.Is(err, ErrDisposed) {
		t.Errorf("RebuildIndex after Dispose error = %v", err)
	}
	if err := e.SetTolerance(3); !errors.Is(err, ErrDisposed) {
		t.Errorf("SetTolerance after Dispose error = %v", err)
	}
}

func TestRebuildIndex(t *testing.T) {
	e := New()
	for i := 0; i < 20; i++ {
		mustAdd(t, e, circle(fmt.Sprintf("c%d", i), float64(i*10), 0, 2))
	}
	m, err := e.RebuildIndex()
	if err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	if m.GeometryCount != 20 {
		t.Errorf("GeometryCount = %d, want 20", m.GeometryCount)
	}
	pm := e.PerformanceMetrics()
	if pm.IndexedCount != 20 || pm.Rebuilds != 1 {
		t.Errorf("metrics after rebuild = %+v", pm)
	}
	if res := e.ValidateIndex(); !res.Valid {
		t.Errorf("ValidateIndex: %v", res.Errors)
	}
}

func TestQueryHelpers(t *testing.T) {
	e := New()
	mustAdd(t, e, circle("near", 1, 1, 1))
	mustAdd(t, e, circle("mid", 10, 10, 1))
	mustAdd(t, e, circle("far", 100, 100, 1))

	var got []string
	for _, g := range e.NearestGeometries(orb.Point{0, 0}, 2) {
		got = append(got, g.ID)
	}
	if diff := cmp.Diff([]string{"near", "mid"}, got); diff != "" {
		t.Errorf("NearestGeometries mismatch (-want +got):\n%s", diff)
	}

	got = nil
	for _, g := range e.GeometriesInBounds(orb.Bound{Min: orb.Point{5, 5}, Max: orb.Point{200, 200}}) {
		got = append(got, g.ID)
	}
	if diff := cmp.Diff([]string{"far", "mid"}, got); diff != "" {
		t.Errorf("GeometriesInBounds mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapWithTransform(t *testing.T) {
	e := New(WithTransform(NewScale(2)))
	mustAdd(t, e, line("l", 0, 0, 20, 0))

	got := e.SnapToPoint(orb.Point{5, 0.1})
	if !got.Snapped || got.SnapType != snap.TargetMidpoint {
		t.Fatalf("SnapToPoint = %+v, want a midpoint snap", got)
	}
	if !pointsEqual(got.Cursor, orb.Point{10, 0.2}) {
		t.Errorf("Cursor = %v, want the transformed cursor (10, 0.2)", got.Cursor)
	}
}

func TestSnapPoints(t *testing.T) {
	e := New(WithTransform(NewPlateCarree(180)))
	mustAdd(t, e, line("l", 0, 0, 10, 0))

	cursors := []orb.Point{{5, 0.2}, {0, 0.1}, {50, 50}}
	got := e.SnapPoints(cursors)
	if len(got) != len(cursors) {
		t.Fatalf("SnapPoints returned %d results", len(got))
	}
	for i, c := range cursors {
		want := e.SnapToPoint(c)
		if got[i].Snapped != want.Snapped || !pointsEqual(got[i].SnapPoint, want.SnapPoint) {
			t.Errorf("SnapPoints[%d] = %+v, SnapToPoint = %+v", i, got[i], want)
		}
	}
}

func TestSnapWithinTolerance(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	e := New()
	if err := e.UpdateConfiguration(snap.WithEnabledTypes(snap.AllTargetTypes()...), snap.WithGridSpacing(7)); err != nil {
		t.Fatal(err)
	}
	var gs []geometry.Geometry
	for i := 0; i < 100; i++ {
		x, y := r.Float64()*200, r.Float64()*200
		gs = append(gs, line(fmt.Sprintf("l%d", i), x, y, x+r.Float64()*20, y+r.Float64()*20))
		gs = append(gs, circle(fmt.Sprintf("c%d", i), r.Float64()*200, r.Float64()*200, 1+r.Float64()*5))
	}
	if _, err := e.AddGeometries(gs); err != nil {
		t.Fatal(err)
	}
	tol := e.Configuration().Tolerance
	for i := 0; i < 500; i++ {
		c := orb.Point{r.Float64() * 200, r.Float64() * 200}
		got := e.SnapToPoint(c)
		if !got.Snapped {
			continue
		}
		if d := planar.Distance(c, got.SnapPoint); d > tol+epsilon {
			t.Errorf("SnapToPoint(%v) snapped %v away, tolerance %v", c, d, tol)
		}
	}
}
