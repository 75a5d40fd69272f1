package websocket

import (
	"log/slog"
	"sync"

	"github.com/soportehq/support-metrics/internal/core/domain"
	"github.com/soportehq/support-metrics/internal/core/ports"
)

// Hub maintains the set of active Clients and fans alert events out to all
// of them. There is one feed; every connected client sees every alert.
type Hub struct {
	clients map[*Client]bool

	// Broadcast channel for alert events
	broadcast chan domain.AlertEvent

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// mu protects the clients map
	mu sync.RWMutex

	// logger for the hub
	logger *slog.Logger
}

// Ensure Hub implements the AlertBroadcaster interface.
var _ ports.AlertBroadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan domain.AlertEvent, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger.With("component", "websocket_hub"),
	}
}

// Broadcast queues an alert event on the hub's internal broadcast channel.
// This method implements the ports.AlertBroadcaster interface.
func (h *Hub) Broadcast(event domain.AlertEvent) error {
	select {
	case h.broadcast <- event:
		return nil
	default:
		h.logger.Warn("broadcast channel full, dropping alert",
			"alert_type", string(event.Type),
			"ticket_id", event.TicketID,
		)
		return nil
	}
}

// Run starts the hub's event loop. This MUST be run as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastAlert(event)
		}
	}
}

// registerClient adds a client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info("client registered",
		"client", client.Name,
		"total_connections", len(h.clients),
	)
}

// unregisterClient removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.CloseSend()
	}

	h.logger.Info("client unregistered",
		"client", client.Name,
		"total_connections", len(h.clients),
	)
}

// broadcastAlert sends an alert to every connected client
func (h *Hub) broadcastAlert(event domain.AlertEvent) {
	h.mu.RLock()
	// Copy the client list to avoid holding the lock while sending
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.logger.Debug("broadcasting alert",
		"alert_type", string(event.Type),
		"ticket_id", event.TicketID,
		"client_count", len(clients),
	)

	for _, client := range clients {
		select {
		case client.Send <- event:
			// Successfully queued
		default:
			// Client's send buffer is full. Remove it inline: sending to
			// h.Unregister here would block forever, since the only receiver
			// is the Run loop this method is called from.
			h.logger.Warn("client send buffer full, unregistering",
				"client", client.Name,
			)
			h.unregisterClient(client)
		}
	}
}

// GetClientCount returns the total number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
