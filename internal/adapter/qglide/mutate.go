package qglide

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/envelope"
)

// mutate sends one authenticated write. The result is the response's data
// field when there is one, else the whole decoded body. Nothing is
// normalized and nothing is cached: callers reload what they show.
func (c *Client) mutate(ctx context.Context, endpoint string, payload any) (any, error) {
	body, err := c.doJSON(ctx, request{method: http.MethodPost, endpoint: endpoint, body: payload})
	if err != nil {
		return nil, err
	}
	if data, ok := envelope.Lookup(body, envelope.Path{"data"}); ok {
		return data, nil
	}
	return body, nil
}

type userRef struct {
	UserID string `json:"user_id"`
}

type userUpdate struct {
	UserID string `json:"user_id"`
	models.UserInput
}

type userStatus struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

type ticketReply struct {
	TicketID string `json:"ticket_id"`
	Message  string `json:"message"`
}

type ticketStatus struct {
	TicketID string `json:"ticket_id"`
	Status   string `json:"status"`
}

func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", types.ErrEmptyID
	}
	return id, nil
}

func (c *Client) CreateUser(ctx context.Context, in models.UserInput) (any, error) {
	const op = "Client.CreateUser"

	data, err := c.mutate(ctx, endpointCreateUser, in)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	return data, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, in models.UserInput) (any, error) {
	const op = "Client.UpdateUser"

	id, err := requireID(id)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	data, err := c.mutate(ctx, endpointUpdateUser, userUpdate{UserID: id, UserInput: in})
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	return data, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) (any, error) {
	const op = "Client.DeleteUser"

	id, err := requireID(id)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	data, err := c.mutate(ctx, endpointDeleteUser, userRef{UserID: id})
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	return data, nil
}

func (c *Client) UpdateUserStatus(ctx context.Context, id, status string) (any, error) {
	const op = "Client.UpdateUserStatus"

	id, err := requireID(id)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	data, err := c.mutate(ctx, endpointUpdateUserStatus, userStatus{UserID: id, Status: status})
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	return data, nil
}

func (c *Client) ReplyTicket(ctx context.Context, id, message string) (any, error) {
	const op = "Client.ReplyTicket"

	id, err := requireID(id)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	data, err := c.mutate(ctx, endpointReplyTicket, ticketReply{TicketID: id, Message: message})
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	return data, nil
}

func (c *Client) UpdateTicketStatus(ctx context.Context, id string, status types.TicketStatus) (any, error) {
	const op = "Client.UpdateTicketStatus"

	id, err := requireID(id)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	data, err := c.mutate(ctx, endpointUpdateTicketStatus, ticketStatus{TicketID: id, Status: string(status)})
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	return data, nil
}

// ExportUsersCSV downloads the user export. The backend answers with CSV on
// success; a JSON body is its way of reporting an error.
func (c *Client) ExportUsersCSV(ctx context.Context, status string) ([]byte, error) {
	const op = "Client.ExportUsersCSV"

	q := url.Values{}
	models.Filters{"status": status}.Encode(q)

	resp, err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: endpointUsersExportCSV,
		query:    q,
		accept:   "text/csv, application/json",
	})
	if err != nil {
		return nil, fail(ctx, op, err)
	}

	if isJSON(resp) {
		msg := errorMessage(resp.body)
		if msg == "" {
			msg = "export returned JSON instead of CSV"
		}
		return nil, fail(ctx, op, &APIError{
			Endpoint: endpointUsersExportCSV,
			Status:   http.StatusBadGateway,
			Message:  msg,
		})
	}
	return resp.body, nil
}

func isJSON(resp *response) bool {
	if strings.Contains(resp.header.Get("Content-Type"), "json") {
		return true
	}
	trimmed := bytes.TrimSpace(resp.body)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
