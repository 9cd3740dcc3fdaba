// Package messaging pushes table-refresh events to connected admin clients.
// A successful editor apply/delete or submission approval invalidates the
// browse cache for an entity type; the broadcast tells open admin tables to
// refetch.
package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/presetbase/presetbase-go/internal/domain/catalog"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

// RefreshClient represents a single connected admin client.
type RefreshClient struct {
	Conn *websocket.Conn
	Send chan []byte
}

// RefreshEvent is the payload pushed to clients.
type RefreshEvent struct {
	Type       string             `json:"type"`
	EntityType catalog.EntityType `json:"entityType"`
	EntryID    string             `json:"entryId,omitempty"`
	At         time.Time          `json:"at"`
}

// RefreshBroadcaster manages all connected clients and fans refresh events
// out to them.
type RefreshBroadcaster struct {
	clients    map[*RefreshClient]bool
	register   chan *RefreshClient
	unregister chan *RefreshClient
	events     chan RefreshEvent
	logger     *logging.ChanneledLogger
	mu         sync.RWMutex
}

// NewRefreshBroadcaster creates a new broadcaster instance.
func NewRefreshBroadcaster(logger *logging.ChanneledLogger) *RefreshBroadcaster {
	return &RefreshBroadcaster{
		clients:    make(map[*RefreshClient]bool),
		register:   make(chan *RefreshClient),
		unregister: make(chan *RefreshClient),
		events:     make(chan RefreshEvent, 64),
		logger:     logger,
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *RefreshBroadcaster) Run() {
	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			b.mu.Unlock()
			b.logger.Socket().Info("Refresh client registered", "clients", b.clientCount())

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
			}
			b.mu.Unlock()
			b.logger.Socket().Info("Refresh client unregistered", "clients", b.clientCount())

		case event := <-b.events:
			payload, err := json.Marshal(event)
			if err != nil {
				b.logger.Socket().Error("Failed to encode refresh event", "error", err.Error())
				continue
			}

			b.mu.RLock()
			for client := range b.clients {
				select {
				case client.Send <- payload:
				default:
					// Slow client; drop the event rather than block the loop.
				}
			}
			b.mu.RUnlock()
		}
	}
}

// Register queues a client for registration.
func (b *RefreshBroadcaster) Register(client *RefreshClient) {
	b.register <- client
}

// Unregister queues a client for unregistration.
func (b *RefreshBroadcaster) Unregister(client *RefreshClient) {
	b.unregister <- client
}

// NotifyRefresh queues a refresh event for an entity type.
func (b *RefreshBroadcaster) NotifyRefresh(et catalog.EntityType, entryID string) {
	event := RefreshEvent{
		Type:       "refresh",
		EntityType: et,
		EntryID:    entryID,
		At:         time.Now().UTC(),
	}

	select {
	case b.events <- event:
	default:
		b.logger.Socket().Warn("Refresh event queue full; dropping event", "entityType", et)
	}
}

// WritePump drains a client's send channel onto its connection. Runs as a
// goroutine per client; returns when the channel closes.
func (b *RefreshBroadcaster) WritePump(client *RefreshClient) {
	defer client.Conn.Close()

	for payload := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			b.Unregister(client)
			return
		}
	}
}

func (b *RefreshBroadcaster) clientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
