// Package stream broadcasts yearly statistics to websocket clients.
package stream

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/orchard/telemetry"
)

// Message types sent to clients.
const (
	TypeConfig  = "config"
	TypeYear    = "year"
	TypeSummary = "summary"
)

// Hello is sent to every client when it connects.
type Hello struct {
	RunID      string `json:"run_id"`
	Seed       int64  `json:"seed"`
	GridSize   int    `json:"grid_size"`
	YearsToRun int    `json:"years_to_run"`
	ConfigYAML string `json:"config_yaml"`
}

// Message is the envelope for everything on the wire.
type Message struct {
	Type    string               `json:"type"`
	Config  *Hello               `json:"config,omitempty"`
	Stats   *telemetry.YearStats `json:"stats,omitempty"`
	Summary any                  `json:"summary,omitempty"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

const writeTimeout = 5 * time.Second

// Hub fans messages out to connected clients. Clients that join late
// receive the hello and every year recorded so far before live updates.
type Hub struct {
	logger *slog.Logger
	hello  Hello

	mu      sync.Mutex
	clients map[*client]struct{}
	history []Message
}

// NewHub creates a hub that greets clients with hello.
func NewHub(hello Hello, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:  logger,
		hello:   hello,
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn}

	h.mu.Lock()
	err = c.send(Message{Type: TypeConfig, Config: &h.hello})
	for i := 0; err == nil && i < len(h.history); i++ {
		err = c.send(h.history[i])
	}
	if err == nil {
		h.clients[c] = struct{}{}
	}
	n := len(h.clients)
	h.mu.Unlock()

	if err != nil {
		h.logger.Warn("greeting client failed", "remote", r.RemoteAddr, "error", err)
		conn.Close()
		return
	}
	h.logger.Info("client connected", "remote", r.RemoteAddr, "clients", n)

	// Clients only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(c)
	h.logger.Info("client disconnected", "remote", r.RemoteAddr)
}

// PublishYear records s and sends it to every client.
func (h *Hub) PublishYear(s telemetry.YearStats) {
	h.broadcast(Message{Type: TypeYear, Stats: &s}, true)
}

// PublishSummary sends the end-of-run summary.
func (h *Hub) PublishSummary(summary any) {
	h.broadcast(Message{Type: TypeSummary, Summary: summary}, true)
}

func (h *Hub) broadcast(m Message, keep bool) {
	h.mu.Lock()
	if keep {
		h.history = append(h.history, m)
	}
	list := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		list = append(list, c)
	}
	h.mu.Unlock()

	for _, c := range list {
		if err := c.send(m); err != nil {
			h.logger.Warn("client send failed", "error", err)
			h.drop(c)
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.conn.Close()
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	list := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		list = append(list, c)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for _, c := range list {
		c.mu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "run over"),
			time.Now().Add(time.Second))
		c.mu.Unlock()
		c.conn.Close()
	}
}

// Listen binds addr and returns the listener.
func Listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

// Serve serves the hub at /ws on ln until ctx is cancelled.
func Serve(ctx context.Context, ln net.Listener, h *Hub) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
