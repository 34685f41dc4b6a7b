package realtime

import (
	"sync"

	"github.com/google/uuid"
)

type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event is a row-level change notification. Seq is monotonic per table so
// consumers can apply last-writer-wins by logical time instead of arrival
// order: anything carrying a seq at or below the last applied one is stale.
type Event struct {
	Table   string      `json:"table"`
	Action  Action      `json:"action"`
	Seq     uint64      `json:"seq"`
	OwnerID *uuid.UUID  `json:"owner_id,omitempty"`
	Payload interface{} `json:"payload"`
}

// subscriberBuffer bounds each subscription channel. A consumer that falls
// this far behind loses events; the dashboard re-fetches on reconnect anyway.
const subscriberBuffer = 64

type subscriber struct {
	id     uuid.UUID
	userID uuid.UUID
	admin  bool
	tables map[string]struct{}
	ch     chan Event
}

// Hub is the in-process change feed. Services publish after every successful
// write; SSE connections subscribe per table set.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]*subscriber
	seqs   map[string]uint64
	closed bool
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[uuid.UUID]*subscriber),
		seqs: make(map[string]uint64),
	}
}

// Subscription is a live feed handle. C delivers events until Close or hub
// shutdown, after which it is closed.
type Subscription struct {
	C      <-chan Event
	id     uuid.UUID
	hub    *Hub
	closed bool
	mu     sync.Mutex
}

// Subscribe registers a consumer for the given tables. Admins receive every
// event on their tables; regular users receive broadcast events (no owner)
// and events owned by them.
func (h *Hub) Subscribe(userID uuid.UUID, admin bool, tables []string) *Subscription {
	tableSet := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		if t != "" {
			tableSet[t] = struct{}{}
		}
	}

	sub := &subscriber{
		id:     uuid.New(),
		userID: userID,
		admin:  admin,
		tables: tableSet,
		ch:     make(chan Event, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.ch)
	} else {
		h.subs[sub.id] = sub
	}

	return &Subscription{C: sub.ch, id: sub.id, hub: h}
}

// Close tears down the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	if sub, ok := s.hub.subs[s.id]; ok {
		delete(s.hub.subs, s.id)
		close(sub.ch)
	}
}

// Publish stamps the event with the table's next sequence number and fans it
// out. Sends never block: a full subscriber channel drops the event. The lock
// is held through the sends so a concurrent Close or Shutdown cannot close a
// channel mid-send; the select/default keeps the critical section bounded.
func (h *Hub) Publish(table string, action Action, ownerID *uuid.UUID, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.seqs[table]++
	event := Event{
		Table:   table,
		Action:  action,
		Seq:     h.seqs[table],
		OwnerID: ownerID,
		Payload: payload,
	}

	for _, sub := range h.subs {
		if _, ok := sub.tables[table]; !ok {
			continue
		}
		if !sub.admin && ownerID != nil && *ownerID != sub.userID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// Seq returns the last sequence number stamped for a table.
func (h *Hub) Seq(table string) uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.seqs[table]
}

// Shutdown closes every subscription. Further publishes are dropped.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}
