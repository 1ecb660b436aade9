package qglide

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/envelope"
	"github.com/Temutjin2k/qglide-admin/pkg/record"
)

// detailObject finds the single record in a detail response: data.<hint>,
// <hint>, data, or the root object. A root array yields its first element.
func detailObject(body any, hint string) (record.Record, bool) {
	if arr, ok := body.([]any); ok {
		if len(arr) == 0 {
			return nil, false
		}
		return record.From(arr[0]), true
	}
	obj, ok := envelope.Object(body,
		envelope.Path{"data", hint},
		envelope.Path{hint},
		envelope.Path{"data"},
		envelope.Path{},
	)
	if !ok {
		return nil, false
	}
	return record.Record(obj), true
}

func (c *Client) fetchDetail(ctx context.Context, endpoint, idKey, id, hint string) (any, record.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil, types.ErrEmptyID
	}

	body, err := c.doJSON(ctx, request{
		method:   http.MethodGet,
		endpoint: endpoint,
		query:    url.Values{idKey: {id}},
	})
	if err != nil {
		return nil, nil, err
	}

	rec, ok := detailObject(body, hint)
	if !ok {
		return nil, nil, types.ErrNotFound
	}
	return body, rec, nil
}

func (c *Client) Overview(ctx context.Context) (models.Overview, error) {
	const op = "Client.Overview"

	body, err := c.doJSON(ctx, request{method: http.MethodGet, endpoint: endpointOverview})
	if err != nil {
		return models.Overview{}, fail(ctx, op, err)
	}
	return c.tr.Overview(body), nil
}

func (c *Client) RidesAnalytics(ctx context.Context, timeframe types.Timeframe) (models.Analytics, error) {
	const op = "Client.RidesAnalytics"

	body, err := c.doJSON(ctx, request{
		method:   http.MethodGet,
		endpoint: endpointRidesAnalytics,
		query:    url.Values{"timeframe": {string(timeframe)}},
	})
	if err != nil {
		return models.Analytics{}, fail(ctx, op, err)
	}
	return c.tr.Analytics(body, string(timeframe)), nil
}

func (c *Client) RideDetails(ctx context.Context, id string) (models.Ride, error) {
	const op = "Client.RideDetails"

	_, rec, err := c.fetchDetail(ctx, endpointRideDetails, "ride_id", id, "ride")
	if err != nil {
		return models.Ride{}, fail(ctx, op, err)
	}
	return c.tr.Ride(rec), nil
}

func (c *Client) UserDetails(ctx context.Context, id string) (models.User, error) {
	const op = "Client.UserDetails"

	_, rec, err := c.fetchDetail(ctx, endpointUserDetails, "user_id", id, "user")
	if err != nil {
		return models.User{}, fail(ctx, op, err)
	}
	return c.tr.User(rec), nil
}

var ticketMessagePaths = []envelope.Path{
	{"data", "messages"},
	{"messages"},
	{"data", "replies"},
	{"replies"},
}

// TicketDetails returns a ticket with its conversation. Messages may sit
// inside the ticket object or next to it.
func (c *Client) TicketDetails(ctx context.Context, id string) (models.Ticket, error) {
	const op = "Client.TicketDetails"

	body, rec, err := c.fetchDetail(ctx, endpointTicketDetails, "ticket_id", id, "ticket")
	if err != nil {
		return models.Ticket{}, fail(ctx, op, err)
	}

	ticket := c.tr.Ticket(rec)
	if len(ticket.Messages) == 0 {
		if raw, ok := envelope.First(body, ticketMessagePaths...); ok {
			if arr, ok := raw.([]any); ok {
				for _, m := range arr {
					ticket.Messages = append(ticket.Messages, c.tr.Message(record.From(m)))
				}
			}
		}
	}
	return ticket, nil
}
