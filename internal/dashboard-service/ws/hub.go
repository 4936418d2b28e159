package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/radieske/boliche-reservas-poc/pkg/contracts/events"
)

const writeTimeout = 2 * time.Second

// ClientMsg é o que o painel pode mandar pelo socket (hoje só ping)
type ClientMsg struct {
	Type string `json:"type"`
}

// Update é o envelope enviado aos clientes
type Update struct {
	Type    string                    `json:"type"` // reservation_updated
	Payload events.ReservationUpdated `json:"payload"`
}

// client serializa as escritas: o gorilla não aceita writers concorrentes
type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

// Hub mantém os painéis conectados; todo cliente recebe todas as atualizações
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	clients  map[string]*client

	OnConnections func(n int) // métricas (gauge)
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(log *zap.Logger, allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		clients:  make(map[string]*client),
	}
}

// HandleWS mantém a conexão até o cliente desconectar, respondendo pings
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	c := &client{id: uuid.NewString(), conn: conn}
	h.add(c)
	defer func() {
		h.remove(c.id)
		_ = conn.Close()
	}()

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Type == "ping" {
			_ = c.writeJSON(map[string]string{"type": "pong"})
		}
	}
}

// Broadcast envia a atualização para todos os clientes conectados
func (h *Hub) Broadcast(e events.ReservationUpdated) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	msg := Update{Type: "reservation_updated", Payload: e}
	for _, c := range targets {
		if err := c.writeJSON(msg); err != nil {
			h.log.Warn("ws write failed", zap.String("client_id", c.id), zap.Error(err))
			_ = c.conn.Close() // o loop de leitura remove o cliente
		}
	}
}

// Count devolve o número de clientes conectados
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("ws client connected", zap.String("client_id", c.id))
	h.observe(n)
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.clients, id)
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("ws client disconnected", zap.String("client_id", id))
	h.observe(n)
}

func (h *Hub) observe(n int) {
	if h.OnConnections != nil {
		h.OnConnections(n)
	}
}

// decodeUpdate é usado pelo subscriber Redis
func decodeUpdate(payload string) (events.ReservationUpdated, error) {
	var e events.ReservationUpdated
	err := json.Unmarshal([]byte(payload), &e)
	return e, err
}
