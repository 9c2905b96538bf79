package events

import (
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Event is one drive change notification pushed to connected clients
type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
	At      time.Time      `json:"at"`
}

// Hub fans drive events out to every connected websocket client. All
// client-map access happens on the run loop goroutine.
type Hub struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan Event
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan Event, 64),
		logger:     logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = true
		case conn := <-h.unregister:
			if h.clients[conn] {
				delete(h.clients, conn)
				conn.Close()
			}
		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Warn("marshaling drive event failed", zap.Error(err))
				continue
			}
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					delete(h.clients, conn)
					conn.Close()
				}
			}
		}
	}
}

// Publish satisfies the drive event-publisher contract. It never blocks
// a request; when the feed is saturated the event is dropped.
func (h *Hub) Publish(eventType string, payload map[string]any) {
	select {
	case h.broadcast <- Event{Type: eventType, Payload: payload, At: time.Now()}:
	default:
	}
}
