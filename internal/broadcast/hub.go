// Package broadcast fans trip lifecycle events out to the connected
// dispatch and driver audiences. Both audiences receive every event
// identically; delivery is best-effort and never blocks the publisher.
package broadcast

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"dispatch/internal/domain"
)

// Group is a named broadcast audience.
type Group string

const (
	GroupDispatch Group = "dispatch"
	GroupDrivers  Group = "drivers"
)

// EventKind identifies the payload of an Event.
type EventKind string

const (
	EventTripCreated  EventKind = "trip_created"
	EventTripUpdated  EventKind = "trip_updated"
	EventTripSnapshot EventKind = "trip_list_snapshot"
)

// Event is one broadcast message. Trip is set for created/updated
// events, Trips for snapshots.
type Event struct {
	Kind  EventKind
	Trip  *domain.Trip
	Trips []domain.Trip
}

// subscriberBuffer is the per-subscriber event queue depth. A
// subscriber that falls this far behind starts losing events instead of
// slowing everyone else down.
const subscriberBuffer = 32

// Subscriber is one connected listener. Events are consumed from the
// channel returned by Events until Leave closes it.
type Subscriber struct {
	id    string
	group Group
	ch    chan Event
}

// Events returns the subscriber's delivery channel.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Hub routes events to subscriber groups. Membership changes are safe
// under concurrent publishes; a publish iterates a stable snapshot of
// the members present at call time.
type Hub struct {
	mu     sync.RWMutex
	groups map[Group]map[string]*Subscriber
	log    *logrus.Logger
}

// NewHub creates a new Hub.
func NewHub(log *logrus.Logger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		groups: map[Group]map[string]*Subscriber{
			GroupDispatch: {},
			GroupDrivers:  {},
		},
		log: log,
	}
}

// Join registers a new subscriber in a group and returns it.
func (h *Hub) Join(group Group) *Subscriber {
	sub := &Subscriber{
		id:    uuid.New().String(),
		group: group,
		ch:    make(chan Event, subscriberBuffer),
	}

	h.mu.Lock()
	members, ok := h.groups[group]
	if !ok {
		members = make(map[string]*Subscriber)
		h.groups[group] = members
	}
	members[sub.id] = sub
	h.mu.Unlock()

	h.log.WithFields(logrus.Fields{"group": group, "subscriber": sub.id}).Debug("subscriber joined")
	return sub
}

// Leave removes a subscriber and closes its channel. Safe to call once
// per subscriber.
func (h *Hub) Leave(sub *Subscriber) {
	h.mu.Lock()
	members, ok := h.groups[sub.group]
	if ok {
		if _, present := members[sub.id]; present {
			delete(members, sub.id)
			close(sub.ch)
		}
	}
	h.mu.Unlock()

	h.log.WithFields(logrus.Fields{"group": sub.group, "subscriber": sub.id}).Debug("subscriber left")
}

// PublishCreated delivers a trip-created event to every subscriber of
// both groups.
func (h *Hub) PublishCreated(trip domain.Trip) {
	h.broadcast(Event{Kind: EventTripCreated, Trip: &trip})
}

// PublishUpdated delivers a trip-updated event to every subscriber of
// both groups.
func (h *Hub) PublishUpdated(trip domain.Trip) {
	h.broadcast(Event{Kind: EventTripUpdated, Trip: &trip})
}

// PublishSnapshot delivers the full ordered trip list to every
// subscriber of both groups.
func (h *Hub) PublishSnapshot(trips []domain.Trip) {
	h.broadcast(Event{Kind: EventTripSnapshot, Trips: trips})
}

// SnapshotTo sends the full trip list to a single subscriber, used for
// initial sync right after a join. A subscriber that already left is
// ignored.
func (h *Hub) SnapshotTo(sub *Subscriber, trips []domain.Trip) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if members, ok := h.groups[sub.group]; ok {
		if _, present := members[sub.id]; present {
			h.send(sub, Event{Kind: EventTripSnapshot, Trips: trips})
		}
	}
}

// broadcast delivers an event to all members present at call time. The
// read lock is held across the sends: they cannot block, and it keeps
// Leave from closing a channel mid-delivery.
func (h *Hub) broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, members := range h.groups {
		for _, sub := range members {
			h.send(sub, ev)
		}
	}
}

// send enqueues an event without blocking. A full buffer drops the
// event for that subscriber only.
func (h *Hub) send(sub *Subscriber, ev Event) {
	select {
	case sub.ch <- ev:
	default:
		h.log.WithFields(logrus.Fields{
			"group":      sub.group,
			"subscriber": sub.id,
			"event":      ev.Kind,
		}).Warn("subscriber too slow, dropping event")
	}
}
