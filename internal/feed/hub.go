// Package feed republishes a Venue's own trade and depth output to
// subscribed websocket clients. It is a consumer of the core's read-only
// surface, not part of it — the transport §1 names as an external
// collaborator ("notification dispatch to users"), given a concrete (but
// minimal) home here.
package feed

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/clobcore/matching-engine/internal/order"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// subscriber is one connected websocket client and the symbols it wants
// updates for. An empty symbols set means "all symbols".
type subscriber struct {
	id      uuid.UUID
	conn    *websocket.Conn
	symbols map[string]struct{}
	send    chan []byte
}

func (s *subscriber) wants(symbol string) bool {
	if len(s.symbols) == 0 {
		return true
	}
	_, ok := s.symbols[symbol]
	return ok
}

// envelope is the wire shape of every message the hub broadcasts.
type envelope struct {
	Type   string                `json:"type"`
	Trade  *order.Trade          `json:"trade,omitempty"`
	Depth  *order.DepthSnapshot  `json:"depth,omitempty"`
}

// Hub accepts websocket connections and fans out Trade and DepthSnapshot
// values published via PublishTrade/PublishDepth to every interested
// subscriber.
type Hub struct {
	log         *zap.Logger
	mu          sync.RWMutex
	subscribers map[uuid.UUID]*subscriber
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{log: log, subscribers: make(map[uuid.UUID]*subscriber)}
}

// ServeHTTP upgrades the connection and registers it as a subscriber. The
// optional "symbol" query parameters (repeatable) scope which symbols the
// client receives; none means all symbols.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	symbols := make(map[string]struct{})
	for _, s := range r.URL.Query()["symbol"] {
		symbols[s] = struct{}{}
	}

	sub := &subscriber{
		id:      uuid.New(),
		conn:    conn,
		symbols: symbols,
		send:    make(chan []byte, 64),
	}

	h.mu.Lock()
	h.subscribers[sub.id] = sub
	h.mu.Unlock()

	go h.writePump(sub)
	go h.readPump(sub)
}

// writePump drains sub.send to the connection until it's closed.
func (h *Hub) writePump(sub *subscriber) {
	defer sub.conn.Close()
	for msg := range sub.send {
		if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.remove(sub.id)
			return
		}
	}
}

// readPump discards inbound messages but detects disconnects, since this
// hub is broadcast-only.
func (h *Hub) readPump(sub *subscriber) {
	defer h.remove(sub.id)
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub, ok := h.subscribers[id]; ok {
		close(sub.send)
		delete(h.subscribers, id)
	}
}

// PublishTrade broadcasts a trade to every subscriber interested in its
// symbol.
func (h *Hub) PublishTrade(t order.Trade) {
	h.broadcast(t.Symbol, envelope{Type: "trade", Trade: &t})
}

// PublishDepth broadcasts a depth snapshot to every subscriber interested
// in its symbol.
func (h *Hub) PublishDepth(d order.DepthSnapshot) {
	h.broadcast(d.Symbol, envelope{Type: "depth", Depth: &d})
}

func (h *Hub) broadcast(symbol string, env envelope) {
	body, err := json.Marshal(env)
	if err != nil {
		h.log.Error("marshaling feed envelope", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subscribers {
		if !sub.wants(symbol) {
			continue
		}
		select {
		case sub.send <- body:
		default:
			h.log.Warn("subscriber send buffer full, dropping message", zap.String("subscriber_id", sub.id.String()))
		}
	}
}
