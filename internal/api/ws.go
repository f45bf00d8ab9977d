package api

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one realtime message pushed to a user's connected clients.
type Event struct {
	Type    string    `json:"type"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// Hub fans events out to the websocket connections of each user. All access
// goes through the mutex; write failures drop the connection.
type Hub struct {
	mu    sync.Mutex
	conns map[uint]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[uint]map[*websocket.Conn]struct{})}
}

// Publish sends the event to every open connection of the user. Implements
// service.EventPublisher.
func (h *Hub) Publish(userID uint, eventType string, payload any) {
	event := Event{Type: eventType, Payload: payload, At: time.Now()}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns[userID] {
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("ws write user=%d: %v", userID, err)
			conn.Close()
			delete(h.conns[userID], conn)
		}
	}
}

func (h *Hub) add(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]struct{})
	}
	h.conns[userID][conn] = struct{}{}
}

func (h *Hub) remove(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userID], conn)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(_ *http.Request) bool { return true },
}

// handleWebSocket upgrades the connection after validating the token query
// parameter and keeps it registered until the client goes away.
func (a *API) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		a.respondWithError(w, http.StatusUnauthorized, "missing token")
		return
	}
	userID, err := a.auth.ParseToken(token)
	if err != nil {
		a.respondWithError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade: %v", err)
		return
	}

	a.hub.add(userID, conn)
	log.Printf("[info] ws connected user=%d", userID)

	go func() {
		defer func() {
			a.hub.remove(userID, conn)
			conn.Close()
			log.Printf("[info] ws disconnected user=%d", userID)
		}()
		// Inbound messages are ignored; the read loop only detects closure.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
