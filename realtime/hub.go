package realtime

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/labstack/gommon/log"
)

// Hub tracks connected websocket clients and the channels they are attached
// to, and fans broker events out to them.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	channels map[string]map[*Client]struct{}
	log      *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:  make(map[*Client]struct{}),
		channels: make(map[string]map[*Client]struct{}),
		log:      logger,
	}
}

// Run feeds events from the broker into the hub until ctx is cancelled.
func (h *Hub) Run(ctx context.Context, broker Broker) error {
	return broker.Subscribe(ctx, h.Dispatch)
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	h.log.Debugf("client connected %s", c.ID)
}

// Unregister detaches c from every channel and closes its send queue. Calling
// it more than once is harmless.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unregisterLocked(c)
}

func (h *Hub) unregisterLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	for name := range c.channels {
		h.detachLocked(c, name)
	}
	delete(h.clients, c)
	close(c.send)
	h.log.Debugf("client disconnected %s", c.ID)
}

// Attach subscribes a registered client to channel. It reports false when the
// client is not registered or the channel is outside its capability.
func (h *Hub) Attach(c *Client, channel string) bool {
	if !c.Allowed(channel) {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	members, ok := h.channels[channel]
	if !ok {
		members = make(map[*Client]struct{})
		h.channels[channel] = members
	}
	members[c] = struct{}{}
	c.channels[channel] = struct{}{}
	return true
}

func (h *Hub) Detach(c *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(c, channel)
}

func (h *Hub) detachLocked(c *Client, channel string) {
	delete(c.channels, channel)
	members, ok := h.channels[channel]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.channels, channel)
	}
}

// Dispatch writes ev to every client attached to its channel. Clients whose
// queue is full are disconnected.
func (h *Hub) Dispatch(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.log.Errorf("marshal event %s: %v", ev.Name, err)
		return
	}

	var slow []*Client
	h.mu.RLock()
	for c := range h.channels[ev.Channel] {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warnf("dropping slow client %s", c.ID)
		h.Unregister(c)
	}
}

// Presence returns the distinct client IDs attached to channel, sorted.
func (h *Hub) Presence(channel string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[string]struct{})
	for c := range h.channels[channel] {
		seen[c.ID] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.unregisterLocked(c)
	}
}

// enqueue queues payload for c if c is still registered.
func (h *Hub) enqueue(c *Client, payload []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}
