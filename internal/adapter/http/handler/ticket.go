package handler

import (
	"net/http"

	"github.com/Temutjin2k/qglide-admin/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/qglide-admin/pkg/validator"
)

type Tickets struct {
	s        TicketService
	pageSize int
	l        logger.Logger
}

func NewTickets(s TicketService, pageSize int, l logger.Logger) *Tickets {
	return &Tickets{
		s:        s,
		pageSize: pageSize,
		l:        l,
	}
}

// ListTickets godoc
// @Summary      List support tickets
// @Tags         Tickets
// @Produce      json
// @Param        status     query     string  false  "ticket status, all for any"
// @Param        page       query     int     false  "page"
// @Param        page_size  query     int     false  "page size"
// @Success      200        {object}  map[string]any
// @Router       /api/tickets [get]
func (h *Tickets) ListTickets(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_list_tickets")

	v := validator.New()
	qs := r.URL.Query()
	page := readPagination(qs, h.pageSize, v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	res, err := h.s.Tickets(ctx, readFilters(qs, "status", "search"), page)
	if err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "failed to list tickets", err)
		return
	}
	writeSuccess(w, r, h.l, http.StatusOK, res)
}

// GetTicket godoc
// @Summary      Ticket details with its conversation
// @Tags         Tickets
// @Produce      json
// @Param        id   path      string  true  "ticket id"
// @Success      200  {object}  map[string]any
// @Router       /api/tickets/{id} [get]
func (h *Tickets) GetTicket(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithEntityID(wrap.WithAction(r.Context(), "admin_get_ticket"), r.PathValue("id"))

	ticket, err := h.s.Ticket(ctx, r.PathValue("id"))
	if err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "failed to get ticket", err)
		return
	}
	writeSuccess(w, r, h.l, http.StatusOK, ticket)
}

// Reply godoc
// @Summary      Reply to a ticket
// @Tags         Tickets
// @Accept       json
// @Produce      json
// @Param        id       path      string            true  "ticket id"
// @Param        request  body      dto.ReplyRequest  true  "message"
// @Success      200      {object}  map[string]any
// @Router       /api/tickets/{id}/reply [post]
func (h *Tickets) Reply(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithEntityID(wrap.WithAction(r.Context(), "admin_reply_ticket"), r.PathValue("id"))

	req := &dto.ReplyRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateReply(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	data, err := h.s.Reply(ctx, r.PathValue("id"), req.Message)
	if err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "failed to reply to ticket", err)
		return
	}
	writeSuccess(w, r, h.l, http.StatusOK, data)
}

// SetTicketStatus godoc
// @Summary      Change a ticket's status
// @Tags         Tickets
// @Accept       json
// @Produce      json
// @Param        id       path      string             true  "ticket id"
// @Param        request  body      dto.StatusRequest  true  "new status"
// @Success      200      {object}  map[string]any
// @Router       /api/tickets/{id}/status [post]
func (h *Tickets) SetTicketStatus(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithEntityID(wrap.WithAction(r.Context(), "admin_set_ticket_status"), r.PathValue("id"))

	req := &dto.StatusRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateTicketStatus(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	data, err := h.s.SetTicketStatus(ctx, r.PathValue("id"), types.TicketStatus(req.Status))
	if err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "failed to change ticket status", err)
		return
	}
	writeSuccess(w, r, h.l, http.StatusOK, data)
}
