package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/qglide-admin/pkg/metrics"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
)

// ConnectionHub tracks the open view connections by view id.
type ConnectionHub struct {
	service string
	clients map[string]*Conn
	l       logger.Logger
	mu      sync.Mutex
}

func NewConnHub(service string, l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		service: service,
		clients: make(map[string]*Conn),
		l:       l,
	}
}

// Add registers a connection. An existing connection with the same id is
// closed first.
func (h *ConnectionHub) Add(newConn *Conn) error {
	if newConn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	existing, replaced := h.clients[newConn.id]
	h.clients[newConn.id] = newConn
	h.mu.Unlock()

	ctx := wrap.WithViewID(wrap.WithAction(context.Background(), types.ActionViewOpened), newConn.id)
	if replaced {
		h.l.Warn(ctx, "replacing existing connection")
		if err := existing.Close(); err != nil {
			h.l.Warn(ctx, "failed to close existing conn", "error", err)
		}
	} else {
		metrics.WebSocketConnectionsGauge.WithLabelValues(h.service).Inc()
	}
	return nil
}

// Delete removes and closes the connection with id.
func (h *ConnectionHub) Delete(id string) error {
	h.mu.Lock()
	conn, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	h.mu.Unlock()

	if !ok {
		return ErrConnIsNotFound
	}

	metrics.WebSocketConnectionsGauge.WithLabelValues(h.service).Dec()
	ctx := wrap.WithViewID(wrap.WithAction(context.Background(), types.ActionViewClosed), id)
	if err := conn.Close(); err != nil {
		h.l.Debug(ctx, "failed to close conn", "error", err)
	}
	return nil
}

// SendTo queues msg for one client.
func (h *ConnectionHub) SendTo(id string, msg any) error {
	h.mu.Lock()
	conn, ok := h.clients[id]
	h.mu.Unlock()

	if !ok {
		return ErrConnIsNotFound
	}
	return conn.Send(msg)
}

func (h *ConnectionHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close closes every connection.
func (h *ConnectionHub) Close() {
	h.mu.Lock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		_ = h.Delete(id)
	}

	h.l.Info(wrap.WithAction(context.Background(), "hub_close"), "all websocket connections closed gracefully", "count", len(ids))
}
