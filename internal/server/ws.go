package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/log"
	"github.com/ayusman/mudra/internal/reaction"
)

const (
	clientBuffer = 16
	writeWait    = time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventsHandler broadcasts display transitions and cue events via WebSocket.
// Animation frame advances are not broadcast.
type EventsHandler struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
	last    reaction.Snapshot
	closed  bool
}

// NewEventsHandler creates an EventsHandler with no clients.
func NewEventsHandler() *EventsHandler {
	return &EventsHandler{
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !isWebSocket(r) {
		http.Error(w, "WebSocket upgrade required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade error", "error", err)
		return
	}
	defer conn.Close()

	send := make(chan []byte, clientBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.clients[conn] = send
	// Greet with the current state so clients need not wait for a change.
	if h.last.Seq > 0 {
		if msg, err := json.Marshal(h.last); err == nil {
			send <- msg
		}
	}
	h.mu.Unlock()

	defer h.remove(conn)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range send {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(conn)
	<-done
}

func (h *EventsHandler) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if send, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(send)
	}
}

// Publish implements reaction.Sink. Slow clients drop messages rather than
// stall the frame loop.
func (h *EventsHandler) Publish(s reaction.Snapshot) {
	h.mu.Lock()
	prev := h.last
	h.last = s
	if h.closed || len(h.clients) == 0 || (!s.Cue && prev.Seq > 0 && !s.Changed(prev)) {
		h.mu.Unlock()
		return
	}

	msg, err := json.Marshal(s)
	if err != nil {
		h.mu.Unlock()
		return
	}
	for _, send := range h.clients {
		select {
		case send <- msg:
		default:
		}
	}
	h.mu.Unlock()
}

// Clients returns the number of connected clients.
func (h *EventsHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *EventsHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for conn, send := range h.clients {
		delete(h.clients, conn)
		close(send)
		conn.Close()
	}
}
