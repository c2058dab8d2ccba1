// Package realtime fans project events out to websocket subscribers.
package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/monocle-dev/hackhub/internal/logger"
	"github.com/monocle-dev/hackhub/internal/types"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*websocket.Conn]bool

	// writeMu serializes broadcasts; a conn allows one writer at a time.
	writeMu sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*websocket.Conn]bool)}
}

func (h *Hub) add(projectID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[projectID] == nil {
		h.clients[projectID] = make(map[*websocket.Conn]bool)
	}
	h.clients[projectID][conn] = true
}

func (h *Hub) remove(projectID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, exists := h.clients[projectID]; exists {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(h.clients, projectID)
		}
	}
}

// Subscribers reports how many connections listen on projectID.
func (h *Hub) Subscribers(projectID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[projectID])
}

// Broadcast writes msg to every subscriber of projectID. Connections that
// fail the write are dropped.
func (h *Hub) Broadcast(projectID string, msg types.RealtimeMessage) {
	msg.ProjectID = projectID

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients[projectID]))
	for conn := range h.clients[projectID] {
		clients = append(clients, conn)
	}
	h.mu.RUnlock()

	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	for _, conn := range clients {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			logger.L().Warn("failed to set write deadline for broadcast", zap.Error(err))
			continue
		}

		if err := conn.WriteJSON(msg); err != nil {
			logger.L().Warn("failed to broadcast to client",
				zap.String("project_id", projectID),
				zap.String("type", msg.Type),
				zap.Error(err),
			)
			h.remove(projectID, conn)
			conn.Close()
		}
	}
}

// Serve registers conn on projectID and blocks until the client goes away.
func (h *Hub) Serve(projectID string, conn *websocket.Conn) {
	log := logger.L().With(zap.String("project_id", projectID))

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Warn("failed to set initial read deadline", zap.Error(err))
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Welcome goes out before registration so it never races a broadcast.
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		conn.Close()
		return
	}
	if err := conn.WriteJSON(types.RealtimeMessage{
		Type:      types.MessageConnected,
		Message:   "WebSocket connection established",
		ProjectID: projectID,
	}); err != nil {
		log.Warn("failed to send welcome message", zap.Error(err))
		conn.Close()
		return
	}

	h.add(projectID, conn)

	defer func() {
		h.remove(projectID, conn)
		conn.Close()
		log.Debug("websocket connection closed")
	}()

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("websocket error", zap.Error(err))
			}
			return
		}
	}
}
