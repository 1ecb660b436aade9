package wshandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/qglide-admin/internal/adapter/http/ws/dto"
	"github.com/Temutjin2k/qglide-admin/internal/adapter/qglide"
	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/internal/service/poller"
	"github.com/Temutjin2k/qglide-admin/pkg/clock"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/qglide-admin/pkg/validator"
	ws "github.com/Temutjin2k/qglide-admin/pkg/wsHub"
)

const ticketView = "tickets_ws"

type TicketService interface {
	Ticket(ctx context.Context, id string) (models.Ticket, error)
	Reply(ctx context.Context, id, message string) (any, error)
	SetTicketStatus(ctx context.Context, id string, status types.TicketStatus) (any, error)
}

type PollingOptions struct {
	Interval   time.Duration
	MaxRetries int
}

// TicketView serves /ws/tickets. Every connection is one detail view with
// its own polling coordinator.
type TicketView struct {
	svc      TicketService
	hub      *ws.ConnectionHub
	clock    clock.Clock
	polling  PollingOptions
	upgrader websocket.Upgrader
	l        logger.Logger
}

func NewTicketView(svc TicketService, hub *ws.ConnectionHub, clk clock.Clock, polling PollingOptions, allowedOrigins []string, l logger.Logger) *TicketView {
	if clk == nil {
		clk = clock.Real()
	}
	return &TicketView{
		svc:     svc,
		hub:     hub,
		clock:   clk,
		polling: polling,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		l: l,
	}
}

// originChecker accepts non-browser clients, same-host pages and the
// configured dashboard origins.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, "*") || slices.Contains(allowed, origin) {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

// ServeTickets godoc
// @Summary      Live ticket detail
// @Description  WebSocket. Send {"type":"select","id":...} to watch a ticket; status, reply, reload and deselect act on the selection.
// @Tags         Tickets
// @Router       /ws/tickets [get]
func (h *TicketView) ServeTickets(w http.ResponseWriter, r *http.Request) {
	viewID := uuid.NewString()
	ctx := wrap.WithViewID(wrap.WithAction(context.WithoutCancel(r.Context()), types.ActionViewOpened), viewID)

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already answered the request
		h.l.Warn(ctx, "websocket upgrade failed", "error", err)
		return
	}

	conn := ws.NewConn(ctx, viewID, raw)
	if err := h.hub.Add(conn); err != nil {
		h.l.Error(ctx, "failed to register connection", err)
		_ = conn.Close()
		return
	}

	s := newTicketSession(ctx, h, conn)
	defer func() {
		s.poll.Stop()
		if err := h.hub.Delete(viewID); err != nil && !errors.Is(err, ws.ErrConnIsNotFound) {
			h.l.Warn(ctx, "failed to remove connection", "error", err)
		}
		h.l.Info(wrap.WithAction(ctx, types.ActionViewClosed), "ticket view closed")
	}()

	go func() {
		if err := conn.WritePump(); err != nil {
			h.l.Warn(ctx, "websocket writer stopped", "error", err)
		}
		_ = conn.Close()
	}()

	h.l.Info(ctx, "ticket view opened")
	s.send(dto.Event{Type: dto.TypeReady, ID: viewID})

	// Commands are handled one at a time, so the initial load for a
	// selection always finishes before the next command is read.
	if err := conn.Listen(s.handle); err != nil {
		h.l.Warn(ctx, "websocket closed", "error", err)
	}
}

type ticketSession struct {
	ctx  context.Context
	h    *TicketView
	conn *ws.Conn
	poll *poller.Coordinator[models.Ticket]
}

func newTicketSession(ctx context.Context, h *TicketView, conn *ws.Conn) *ticketSession {
	s := &ticketSession{
		ctx:  ctx,
		h:    h,
		conn: conn,
	}

	s.poll = poller.New[models.Ticket](ctx, h.clock, h.l, h.svc.Ticket,
		func(id string, t models.Ticket) {
			s.send(dto.Event{Type: dto.TypeTicket, ID: id, Data: t})
		},
		poller.Options[models.Ticket]{
			Interval:   h.polling.Interval,
			MaxRetries: h.polling.MaxRetries,
			Terminal:   models.Ticket.Terminal,
			View:       ticketView,
			OnStop: func(id string, reason poller.StopReason, err error) {
				ev := dto.Event{Type: dto.TypePollingStopped, ID: id, Reason: string(reason)}
				if err != nil {
					ev.Error = qglide.UserMessage(err)
				}
				s.send(ev)
			},
		},
	)
	return s
}

// handle runs one browser command. Bad commands are answered with an error
// event and never close the connection.
func (s *ticketSession) handle(raw json.RawMessage) error {
	cmd := &dto.Command{}
	if err := json.Unmarshal(raw, cmd); err != nil {
		s.send(dto.Event{Type: dto.TypeError, Error: "message must be a JSON object"})
		return nil
	}

	v := validator.New()
	cmd.Validate(v)
	if !v.Valid() {
		s.send(dto.Event{Type: dto.TypeError, Error: "validation failed", Fields: v.Errors})
		return nil
	}

	ctx := wrap.WithAction(s.ctx, "ws_"+cmd.Type)

	switch cmd.Type {
	case dto.TypeSelect:
		s.selectTicket(ctx, cmd.ID)
	case dto.TypeDeselect:
		s.poll.Stop()
		s.send(dto.Event{Type: dto.TypeDeselected})
	case dto.TypeReload:
		s.withSelection(ctx, func(ctx context.Context, id string) error {
			return s.reload(ctx, id)
		})
	case dto.TypeStatus:
		s.withSelection(ctx, func(ctx context.Context, id string) error {
			if _, err := s.h.svc.SetTicketStatus(ctx, id, types.TicketStatus(cmd.Status)); err != nil {
				return err
			}
			return s.reload(ctx, id)
		})
	case dto.TypeReply:
		s.withSelection(ctx, func(ctx context.Context, id string) error {
			if _, err := s.h.svc.Reply(ctx, id, cmd.Message); err != nil {
				return err
			}
			return s.reload(ctx, id)
		})
	}
	return nil
}

func (s *ticketSession) selectTicket(ctx context.Context, id string) {
	ctx = wrap.WithEntityID(ctx, id)

	s.poll.Select(id)
	t, err := s.h.svc.Ticket(ctx, id)
	if s.poll.Selected() != id {
		return
	}
	if err != nil {
		s.poll.Stop()
		s.h.l.Warn(wrap.ErrorCtx(ctx, err), "initial ticket load failed", "error", err)
		s.sendError(id, err)
		return
	}
	s.send(dto.Event{Type: dto.TypeTicket, ID: id, Data: t})
}

// reload pushes fresh detail. A resolved or closed ticket stops polling
// right away; any other status resumes it.
func (s *ticketSession) reload(ctx context.Context, id string) error {
	t, err := s.h.svc.Ticket(ctx, id)
	if err != nil {
		return err
	}
	if s.poll.Selected() != id {
		return nil
	}
	s.send(dto.Event{Type: dto.TypeTicket, ID: id, Data: t})

	if t.Terminal() {
		s.poll.Pause(id)
		return nil
	}
	if err := s.poll.Rearm(); err != nil && !errors.Is(err, types.ErrNoSelection) {
		return err
	}
	return nil
}

func (s *ticketSession) withSelection(ctx context.Context, fn func(ctx context.Context, id string) error) {
	id := s.poll.Selected()
	if id == "" {
		s.sendError("", types.ErrNoSelection)
		return
	}
	ctx = wrap.WithEntityID(ctx, id)
	if err := fn(ctx, id); err != nil {
		s.h.l.Warn(wrap.ErrorCtx(ctx, err), "ticket command failed", "error", err)
		s.sendError(id, err)
	}
}

func (s *ticketSession) sendError(id string, err error) {
	s.send(dto.Event{Type: dto.TypeError, ID: id, Error: qglide.UserMessage(err)})
}

func (s *ticketSession) send(ev dto.Event) {
	if err := s.conn.Send(ev); err != nil && !errors.Is(err, ws.ErrConnClosed) {
		s.h.l.Warn(s.ctx, "failed to push event", "type", ev.Type, "error", err)
	}
}
