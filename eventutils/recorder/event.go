// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package recorder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/wait"
)

// ObjectRef identifies the inventory pool an event is about.
type ObjectRef struct {
	Category string
	Name     string
}

func (r ObjectRef) String() string {
	return r.Category + "/" + r.Name
}

// EventRecorder defines an interface for recording events
type EventRecorder interface {
	Eventf(involved ObjectRef, eventType string, reason string, messageFormat string, args ...any)
}

// EventStore defines an interface for listing events
type EventStore interface {
	ListEvents() []*Event
}

type Event struct {
	InvolvedObject ObjectRef
	Type           string
	Reason         string
	Message        string
	EventTime      int64
}

// StoreOptions defines options to initialize the event store
type StoreOptions struct {
	MaxEvents      int
	TTL            time.Duration
	ResyncInterval time.Duration
}

func (o *StoreOptions) Defaults() {
	if o.MaxEvents <= 0 {
		o.MaxEvents = 1000
	}

	if o.TTL <= 0 {
		o.TTL = time.Hour
	}

	if o.ResyncInterval <= 0 {
		o.ResyncInterval = time.Minute
	}
}

// Store implements the EventRecorder and EventStore interface
// and represents an in-memory event store with TTL for events.
type Store struct {
	maxEvents      int           // Maximum number of events in the store
	events         []*Event      // Ring buffer of events
	mutex          sync.Mutex    // Guards events, head and count
	ttl            time.Duration // TTL for events
	resyncInterval time.Duration // Interval of the TTL expiration check
	head           int           // Index of the oldest event
	count          int           // Current number of events in the store
	log            logr.Logger   // Logger for logging overridden events
	now            func() time.Time
}

// NewEventStore creates a new Store with a fixed number of events and set TTL for events.
// Unset options are defaulted.
func NewEventStore(log logr.Logger, opts StoreOptions) *Store {
	opts.Defaults()

	return &Store{
		maxEvents:      opts.MaxEvents,
		events:         make([]*Event, opts.MaxEvents),
		ttl:            opts.TTL,
		resyncInterval: opts.ResyncInterval,
		log:            log,
		now:            time.Now,
	}
}

// Eventf records an event with formatted message.
func (es *Store) Eventf(involved ObjectRef, eventType, reason, messageFormat string, args ...any) {
	es.recordEvent(involved, eventType, reason, fmt.Sprintf(messageFormat, args...))
}

func (es *Store) recordEvent(involved ObjectRef, eventType, reason, message string) {
	es.mutex.Lock()
	defer es.mutex.Unlock()

	index := (es.head + es.count) % es.maxEvents

	// A full store overwrites its oldest event
	if es.count == es.maxEvents {
		es.log.V(1).Info("Overriding event", "object", es.events[es.head].InvolvedObject, "reason", es.events[es.head].Reason)
		es.head = (es.head + 1) % es.maxEvents
	} else {
		es.count++
	}

	es.events[index] = &Event{
		InvolvedObject: involved,
		Type:           eventType,
		Reason:         reason,
		Message:        message,
		EventTime:      es.now().Unix(),
	}
}

// removeExpiredEvents drops events whose TTL has expired, oldest first.
func (es *Store) removeExpiredEvents() {
	es.mutex.Lock()
	defer es.mutex.Unlock()

	now := es.now()

	for es.count > 0 {
		event := es.events[es.head]
		if time.Unix(event.EventTime, 0).Add(es.ttl).After(now) {
			break
		}

		es.events[es.head] = nil
		es.head = (es.head + 1) % es.maxEvents
		es.count--
	}
}

// Start runs the TTL expiration check until ctx is done.
func (es *Store) Start(ctx context.Context) {
	wait.UntilWithContext(ctx, func(ctx context.Context) {
		es.removeExpiredEvents()
	}, es.resyncInterval)
}

// ListEvents returns a copy of all events currently in the store, oldest first.
func (es *Store) ListEvents() []*Event {
	return es.listEvents(func(*Event) bool { return true })
}

// ListEventsFor returns a copy of the events about one object, oldest first.
func (es *Store) ListEventsFor(involved ObjectRef) []*Event {
	return es.listEvents(func(event *Event) bool { return event.InvolvedObject == involved })
}

func (es *Store) listEvents(match func(*Event) bool) []*Event {
	es.mutex.Lock()
	defer es.mutex.Unlock()

	result := make([]*Event, 0, es.count)
	for i := 0; i < es.count; i++ {
		event := es.events[(es.head+i)%es.maxEvents]
		if !match(event) {
			continue
		}
		eventCopy := *event
		result = append(result, &eventCopy)
	}

	return result
}
