package websocket

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"tradebot/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans chart snapshots out to connected websocket clients. It keeps the
// latest snapshot so a client connecting between ticks gets a frame right
// away instead of waiting for the next one.
type Hub struct {
	log *logrus.Logger

	mu      sync.Mutex
	latest  *domain.ChartSnapshot
	clients map[*websocket.Conn]struct{}

	done chan struct{}
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[*websocket.Conn]struct{}),
		done:    make(chan struct{}),
	}
}

// Run consumes the snapshot feed until it is closed, broadcasting each frame
// to every connected client. Call Wait to join after the feed closes.
func (h *Hub) Run(snapshots <-chan *domain.ChartSnapshot) {
	defer close(h.done)

	for snapshot := range snapshots {
		h.broadcast(snapshot)
	}

	h.mu.Lock()
	for conn := range h.clients {
		conn.Close()
	}
	h.clients = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	h.log.Info("chart feed closed")
}

// Wait blocks until Run has finished.
func (h *Hub) Wait() {
	<-h.done
}

func (h *Hub) broadcast(snapshot *domain.ChartSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = snapshot
	for conn := range h.clients {
		if err := conn.WriteJSON(snapshot); err != nil {
			h.log.WithError(err).Debug("dropping websocket client")
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Handle upgrades the request and registers the client. The most recent
// snapshot, if any, is sent immediately.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	if h.latest != nil {
		if err := conn.WriteJSON(h.latest); err != nil {
			h.log.WithError(err).Debug("initial frame write failed")
			conn.Close()
			delete(h.clients, conn)
			h.mu.Unlock()
			return
		}
	}
	h.mu.Unlock()

	// Reader loop: clients send nothing meaningful, but reading is how we
	// notice a disconnect.
	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
