package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

var (
	ErrConnClosed   = errors.New("connection closed")
	ErrSlowConsumer = errors.New("send buffer full")
)

// Conn wraps one WebSocket. All writes go through a single writer goroutine
// started by WritePump, so Send never blocks and is safe from any goroutine.
type Conn struct {
	conn *websocket.Conn
	id   string
	out  chan any

	doneCtx context.Context
	cancel  context.CancelFunc
	once    sync.Once
}

func NewConn(ctx context.Context, id string, conn *websocket.Conn) *Conn {
	ctx, cancel := context.WithCancel(ctx)

	return &Conn{
		conn:    conn,
		id:      id,
		out:     make(chan any, sendBuffer),
		doneCtx: ctx,
		cancel:  cancel,
	}
}

func (c *Conn) ID() string { return c.id }

// Done is closed when the connection is closed.
func (c *Conn) Done() <-chan struct{} { return c.doneCtx.Done() }

// Send queues msg for writing. It fails instead of blocking when the client
// is not keeping up.
func (c *Conn) Send(msg any) error {
	select {
	case <-c.doneCtx.Done():
		return ErrConnClosed
	default:
	}

	select {
	case c.out <- msg:
		return nil
	case <-c.doneCtx.Done():
		return ErrConnClosed
	default:
		return ErrSlowConsumer
	}
}

// WritePump writes queued messages and keepalive pings until the connection
// closes or a write fails.
func (c *Conn) WritePump() error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.doneCtx.Done():
			return nil

		case msg := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return fmt.Errorf("write failed: %w", err)
			}

		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("ping failed: %w", err)
			}
		}
	}
}

// Listen reads JSON messages and hands each raw message to handler. It
// returns when the peer goes away, a read fails or handler returns an error.
func (c *Conn) Listen(handler func(raw json.RawMessage) error) error {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var raw json.RawMessage
		if err := c.conn.ReadJSON(&raw); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			select {
			case <-c.doneCtx.Done():
				return nil
			default:
			}
			return fmt.Errorf("read failed: %w", err)
		}
		if err := handler(raw); err != nil {
			return fmt.Errorf("handler failed: %w", err)
		}
	}
}

// Close sends a close frame, stops the writer and closes the socket.
// Calling it twice is fine.
func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		c.cancel()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		err = c.conn.Close()
	})
	return err
}
