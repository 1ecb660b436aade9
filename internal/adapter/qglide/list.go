package qglide

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/envelope"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/qglide-admin/pkg/metrics"
	"github.com/Temutjin2k/qglide-admin/pkg/record"
)

var (
	totalCountPaths = []envelope.Path{
		{"total_count"}, {"total"}, {"count"},
		{"data", "total_count"}, {"data", "total"}, {"data", "count"},
		{"pagination", "total_count"}, {"pagination", "total"},
		{"data", "pagination", "total_count"}, {"data", "pagination", "total"},
		{"meta", "total"}, {"meta", "total_count"},
	}
	totalPagesPaths = []envelope.Path{
		{"total_pages"}, {"data", "total_pages"},
		{"pagination", "total_pages"}, {"data", "pagination", "total_pages"},
		{"meta", "total_pages"}, {"meta", "last_page"},
	}
)

// fetchList runs the whole list pipeline: token check, query building, GET,
// envelope unwrapping, per-record transform and page state.
func fetchList[T any](ctx context.Context, c *Client, spec listSpec, filters models.Filters, page models.Pagination, transform func(record.Record) T) (models.ListResult[T], error) {
	page = models.NewPagination(page.Page, page.PageSize)

	q := url.Values{}
	filters.Encode(q)
	page.Encode(q, spec.pageKey, spec.sizeKey)

	body, err := c.doJSON(ctx, request{method: http.MethodGet, endpoint: spec.endpoint, query: q})
	if err != nil {
		return models.ListResult[T]{}, err
	}

	raw, ok := c.resolver.Unwrap(body, spec.hints...)
	if !ok && body != nil {
		logCtx := wrap.WithAction(ctx, types.ActionEnvelopeUnrecognized)
		c.log.Warn(logCtx, "list response matched no known envelope", "endpoint", spec.endpoint, "hints", spec.hints)
		metrics.RecordEnvelopeUnrecognized(spec.endpoint)
	}

	items := make([]T, 0, len(raw))
	for _, r := range raw {
		items = append(items, transform(record.From(r)))
	}

	return models.ListResult[T]{
		Items: items,
		Page:  models.ComputePageState(page, totalCount(body, page, len(items)), intAt(body, totalPagesPaths)),
	}, nil
}

// totalCount prefers the server's figure. Without one it assumes the
// current page is the last: everything before it plus what it holds.
func totalCount(body any, page models.Pagination, n int) int {
	if total := intAt(body, totalCountPaths); total >= 0 {
		return total
	}
	if n == 0 {
		return 0
	}
	return (page.Page-1)*page.PageSize + n
}

// intAt returns the first coercible number along paths, or -1.
func intAt(body any, paths []envelope.Path) int {
	for _, p := range paths {
		v, ok := envelope.Lookup(body, p)
		if !ok {
			continue
		}
		if f, ok := record.ToFloat(v); ok && f >= 0 {
			return record.Truncate(f)
		}
	}
	return -1
}

func (c *Client) ListRides(ctx context.Context, filters models.Filters, page models.Pagination) (models.ListResult[models.Ride], error) {
	const op = "Client.ListRides"
	res, err := fetchList(ctx, c, ridesList, filters, page, c.tr.Ride)
	if err != nil {
		return res, fail(ctx, op, err)
	}
	return res, nil
}

func (c *Client) ListDrivers(ctx context.Context, filters models.Filters, page models.Pagination) (models.ListResult[models.Driver], error) {
	const op = "Client.ListDrivers"
	res, err := fetchList(ctx, c, driversList, filters, page, c.tr.Driver)
	if err != nil {
		return res, fail(ctx, op, err)
	}
	return res, nil
}

func (c *Client) ListUsers(ctx context.Context, filters models.Filters, page models.Pagination) (models.ListResult[models.User], error) {
	const op = "Client.ListUsers"
	res, err := fetchList(ctx, c, usersList, filters, page, c.tr.User)
	if err != nil {
		return res, fail(ctx, op, err)
	}
	return res, nil
}

func (c *Client) ListTickets(ctx context.Context, filters models.Filters, page models.Pagination) (models.ListResult[models.Ticket], error) {
	const op = "Client.ListTickets"
	res, err := fetchList(ctx, c, ticketsList, filters, page, c.tr.Ticket)
	if err != nil {
		return res, fail(ctx, op, err)
	}
	return res, nil
}
