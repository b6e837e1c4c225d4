package controller

import (
	"sync"

	"github.com/gofiber/websocket/v2"

	"salesforge/models"
)

// ActivityHub fans activity events out to websocket subscribers, one
// channel per connection, grouped by tenant.
type ActivityHub struct {
	mu          sync.RWMutex
	subscribers map[uint]map[chan *models.Activity]struct{}
}

func NewActivityHub() *ActivityHub {
	return &ActivityHub{
		subscribers: make(map[uint]map[chan *models.Activity]struct{}),
	}
}

// Subscribe registers a listener for a tenant's activity events.
func (h *ActivityHub) Subscribe(companyID uint) chan *models.Activity {
	ch := make(chan *models.Activity, 16)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[companyID] == nil {
		h.subscribers[companyID] = make(map[chan *models.Activity]struct{})
	}
	h.subscribers[companyID][ch] = struct{}{}
	return ch
}

// Unsubscribe removes a listener and closes its channel.
func (h *ActivityHub) Unsubscribe(companyID uint, ch chan *models.Activity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.subscribers[companyID]; ok {
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(h.subscribers, companyID)
		}
	}
}

// Publish delivers an activity to every subscriber of the tenant. Slow
// subscribers are skipped rather than blocking the writer.
func (h *ActivityHub) Publish(companyID uint, activity *models.Activity) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers[companyID] {
		select {
		case ch <- activity:
		default:
		}
	}
}

// HandleFeed serves the live activity feed over a websocket connection.
// The connection is closed when the client disconnects or the write
// fails.
func (h *ActivityHub) HandleFeed(c *websocket.Conn) {
	user, ok := c.Locals("user").(*models.User)
	if !ok || user.CompanyID == nil {
		c.Close()
		return
	}
	companyID := *user.CompanyID

	ch := h.Subscribe(companyID)
	defer h.Unsubscribe(companyID, ch)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Drain client frames so pings and close frames are handled.
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case activity, ok := <-ch:
			if !ok {
				return
			}
			if err := c.WriteJSON(activity); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
