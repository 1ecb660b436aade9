package admin

import (
	"context"

	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
)

// Backend is the remote admin API as seen by the service.
type Backend interface {
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context) error

	Overview(ctx context.Context) (models.Overview, error)
	RidesAnalytics(ctx context.Context, timeframe types.Timeframe) (models.Analytics, error)

	ListRides(ctx context.Context, filters models.Filters, page models.Pagination) (models.ListResult[models.Ride], error)
	RideDetails(ctx context.Context, id string) (models.Ride, error)
	ListDrivers(ctx context.Context, filters models.Filters, page models.Pagination) (models.ListResult[models.Driver], error)

	ListUsers(ctx context.Context, filters models.Filters, page models.Pagination) (models.ListResult[models.User], error)
	UserDetails(ctx context.Context, id string) (models.User, error)
	CreateUser(ctx context.Context, in models.UserInput) (any, error)
	UpdateUser(ctx context.Context, id string, in models.UserInput) (any, error)
	DeleteUser(ctx context.Context, id string) (any, error)
	UpdateUserStatus(ctx context.Context, id, status string) (any, error)
	ExportUsersCSV(ctx context.Context, status string) ([]byte, error)

	ListTickets(ctx context.Context, filters models.Filters, page models.Pagination) (models.ListResult[models.Ticket], error)
	TicketDetails(ctx context.Context, id string) (models.Ticket, error)
	ReplyTicket(ctx context.Context, id, message string) (any, error)
	UpdateTicketStatus(ctx context.Context, id string, status types.TicketStatus) (any, error)
}

// TokenReader exposes the stored token for session display and audit actors.
type TokenReader interface {
	Get(ctx context.Context) (string, error)
}

type AuditPublisher interface {
	Publish(ctx context.Context, event models.AuditEvent) error
}
