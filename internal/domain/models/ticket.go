package models

import "github.com/Temutjin2k/qglide-admin/internal/domain/types"

type Ticket struct {
	ID             string          `json:"id"`
	Subject        string          `json:"subject"`
	Description    string          `json:"description"`
	Requester      string          `json:"requester"`
	RequesterEmail string          `json:"requester_email"`
	Status         string          `json:"status"`
	Priority       string          `json:"priority"`
	Category       string          `json:"category"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
	Messages       []TicketMessage `json:"messages"`
}

// Terminal reports whether the ticket is resolved or closed.
func (t Ticket) Terminal() bool {
	return types.TicketStatus(t.Status).IsTerminal()
}

type TicketMessage struct {
	ID          string `json:"id"`
	Sender      string `json:"sender"`
	Body        string `json:"body"`
	FromSupport bool   `json:"from_support"`
	CreatedAt   string `json:"created_at"`
}
