// Package websocket streams CIF validation over a persistent connection.
// Each connection owns a validation session, so the debounce and
// stale-result rules apply per client, exactly as they would per input
// field.
package websocket

import (
	"sync"

	"go.uber.org/zap"
)

// Hub maintains the set of active clients
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	logger     *zap.SugaredLogger

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]*Client),
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.logger.Debugw("validation client connected", "client", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
			}
			h.mu.Unlock()
			client.session.Stop()
			h.logger.Debugw("validation client disconnected", "client", client.ID)
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
