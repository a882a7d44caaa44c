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
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/akhenakh/geosnap/snap"
)

// EventType names an engine notification.
type EventType string

const (
	EventSnapFound         EventType = "snap:found"
	EventSnapLost          EventType = "snap:lost"
	EventIndexRebuilt      EventType = "index:rebuilt"
	EventGeometryAdded     EventType = "geometry:added"
	EventGeometryRemoved   EventType = "geometry:removed"
	EventGeometriesCleared EventType = "geometries:cleared"
	EventConfigChanged     EventType = "config:changed"
	EventDisposed          EventType = "engine:disposed"
)

// Event is delivered to listeners. Only the fields relevant to Type are set.
type Event struct {
	Type EventType

	// Result is set for snap:found and snap:lost.
	Result *snap.Result

	// GeometryID is set for geometry:added and geometry:removed.
	GeometryID string

	// Count and Duration are set for index:rebuilt and geometries:cleared.
	Count    int
	Duration time.Duration

	// Config is set for config:changed.
	Config *snap.Config
}

// Listener receives engine events. It runs synchronously on the goroutine
// that caused the event, after the engine has released its lock, so it may
// call back into the engine.
type Listener func(Event)

// ListenerID identifies a registration made with AddEventListener.
type ListenerID uuid.UUID

func (id ListenerID) String() string {
	return uuid.UUID(id).String()
}

type registration struct {
	id ListenerID
	fn Listener
}

// dispatcher fans events out to listeners in registration order.
type dispatcher struct {
	mu        sync.Mutex
	listeners map[EventType][]registration
	logger    *slog.Logger
}

func newDispatcher(logger *slog.Logger) *dispatcher {
	return &dispatcher{
		listeners: make(map[EventType][]registration),
		logger:    logger,
	}
}

func (d *dispatcher) add(t EventType, fn Listener) ListenerID {
	id := ListenerID(uuid.New())
	d.mu.Lock()
	d.listeners[t] = append(d.listeners[t], registration{id: id, fn: fn})
	d.mu.Unlock()
	return id
}

func (d *dispatcher) remove(id ListenerID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for t, regs := range d.listeners {
		i := slices.IndexFunc(regs, func(r registration) bool { return r.id == id })
		if i < 0 {
			continue
		}
		regs = slices.Delete(slices.Clone(regs), i, i+1)
		if len(regs) == 0 {
			delete(d.listeners, t)
		} else {
			d.listeners[t] = regs
		}
		return true
	}
	return false
}

func (d *dispatcher) clear() {
	d.mu.Lock()
	clear(d.listeners)
	d.mu.Unlock()
}

// emit delivers ev to every listener of its type. A panicking listener is
// logged and skipped.
func (d *dispatcher) emit(ev Event) {
	d.mu.Lock()
	regs := d.listeners[ev.Type]
	d.mu.Unlock()

	for _, r := range regs {
		d.call(r, ev)
	}
}

func (d *dispatcher) call(r registration, ev Event) {
	defer func() {
		if p := recover(); p != nil {
			d.logger.Error("event listener panicked", "event", ev.Type, "listener", r.id, "panic", p)
		}
	}()
	r.fn(ev)
}
