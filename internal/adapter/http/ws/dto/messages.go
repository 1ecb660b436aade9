package dto

import (
	"strings"

	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/validator"
)

// Inbound message types.
const (
	TypeSelect   = "select"
	TypeDeselect = "deselect"
	TypeStatus   = "status"
	TypeReply    = "reply"
	TypeReload   = "reload"
)

// Outbound message types.
const (
	TypeReady          = "ready"
	TypeTicket         = "ticket"
	TypeDeselected     = "deselected"
	TypePollingStopped = "polling_stopped"
	TypeError          = "error"
)

// Command is a message from the browser. ID is only read by select; the
// other commands act on the current selection.
type Command struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

func (c *Command) Validate(v *validator.Validator) {
	c.ID = strings.TrimSpace(c.ID)
	c.Message = strings.TrimSpace(c.Message)

	switch c.Type {
	case TypeSelect:
		v.Check(c.ID != "", "id", "must be provided")
	case TypeStatus:
		v.Check(types.TicketStatus(c.Status).Valid(), "status", "must be one of open, pending, in_progress, resolved, closed")
	case TypeReply:
		v.Check(c.Message != "", "message", "must be provided")
		v.Check(len(c.Message) <= 5000, "message", "must not be more than 5000 bytes long")
	case TypeDeselect, TypeReload:
	default:
		v.AddError("type", "must be one of select, deselect, status, reply, reload")
	}
}

// Event is a message pushed to the browser.
type Event struct {
	Type   string            `json:"type"`
	ID     string            `json:"id,omitempty"`
	Data   any               `json:"data,omitempty"`
	Reason string            `json:"reason,omitempty"`
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}
