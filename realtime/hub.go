package realtime

import (
	"log"
	"sync"
)

// Subscriber is one realtime connection as seen by the broker. Send must not
// block; implementations drop the payload when the peer is lagging.
type Subscriber interface {
	Send(payload any)
}

// Broker is the group-addressable publish/subscribe transport. Delivery is
// best-effort, at-most-once: a publish to a slow or gone member is dropped,
// and the publisher never waits. Any in-process or external broker that
// satisfies this interface can back the gateway.
type Broker interface {
	Publish(group string, payload any)
	Join(group string, sub Subscriber)
	Leave(group string, sub Subscriber)
}

// Hub is the in-process Broker. Group membership is a mutex-guarded set of
// subscribers per group name; empty groups are removed on last leave.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{groups: make(map[string]map[Subscriber]struct{})}
}

func (h *Hub) Join(group string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.groups[group]
	if !ok {
		members = make(map[Subscriber]struct{})
		h.groups[group] = members
	}
	members[sub] = struct{}{}
}

// Leave removes sub from group. Leaving a group the subscriber never joined
// is a no-op.
func (h *Hub) Leave(group string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.groups[group]
	if !ok {
		return
	}
	delete(members, sub)
	if len(members) == 0 {
		delete(h.groups, group)
	}
}

// Publish delivers payload to every current member of group.
func (h *Hub) Publish(group string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.groups[group] {
		sub.Send(payload)
	}
}

// Members reports the current size of a group.
func (h *Hub) Members(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}

// LogPublishError is the shared sink for fan-out failures. Publishes are
// fire-and-forget; the triggering mutation already succeeded.
func LogPublishError(group string, err error) {
	if err != nil {
		log.Printf("realtime: publish to %s failed: %v", group, err)
	}
}
