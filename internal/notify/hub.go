package notify

import (
	"encoding/json"
	"sync"

	"github.com/fitstore/fitstore-backend/pkg/logger"
)

// Event is a presentational notification pushed to the rendering surface.
type Event struct {
	Type    string `json:"type"`            // toast, dialog
	Kind    string `json:"kind,omitempty"`  // success, error, warning (dialogs)
	Title   string `json:"title,omitempty"` // dialog title
	Message string `json:"message"`
}

type sessionMessage struct {
	SessionID string
	Message   []byte
}

// Hub fans notification events out to the websocket connections of a
// session. Delivery is best-effort: slow or absent consumers never block
// the services emitting events.
type Hub struct {
	// Registered clients per session (a session may hold several tabs)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *sessionMessage

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan *sessionMessage, 256),
	}
}

// Run processes register, unregister and broadcast events. Call once in its
// own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			logger.Debug("Notification client registered", map[string]interface{}{
				"session_id": client.SessionID,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.SessionID]; ok {
				found := false
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c == client {
						found = true
						continue
					}
					newList = append(newList, c)
				}
				if found {
					if len(newList) == 0 {
						delete(h.clients, client.SessionID)
					} else {
						h.clients[client.SessionID] = newList
					}
					// Close only on the first unregister; the buffer-full
					// path and the read pump's defer can both report the
					// same client.
					close(client.Send)
				}
			}
			h.mu.Unlock()
			logger.Debug("Notification client unregistered", map[string]interface{}{
				"session_id": client.SessionID,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients[message.SessionID] {
				select {
				case client.Send <- message.Message:
				default:
					// Send buffer full - drop the connection asynchronously
					go h.Unregister(client)
					logger.Warn("Notification client send buffer full, disconnecting", map[string]interface{}{
						"session_id": message.SessionID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Toast pushes a transient toast message to the session.
func (h *Hub) Toast(sessionID, message string) {
	h.push(sessionID, Event{Type: "toast", Message: message})
}

// Dialog pushes a modal dialog event to the session.
func (h *Hub) Dialog(sessionID, kind, title, text string) {
	h.push(sessionID, Event{Type: "dialog", Kind: kind, Title: title, Message: text})
}

func (h *Hub) push(sessionID string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal notification event", err, nil)
		return
	}

	select {
	case h.broadcast <- &sessionMessage{SessionID: sessionID, Message: data}:
	default:
		// Broadcast channel full; notifications are presentational and may
		// be dropped
		logger.Warn("Notification broadcast channel full, event dropped", map[string]interface{}{
			"session_id": sessionID,
		})
	}
}
