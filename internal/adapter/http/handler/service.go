package handler

import (
	"context"

	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (models.SessionInfo, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (models.SessionInfo, error)
}

type DashboardService interface {
	Overview(ctx context.Context) (models.Overview, error)
	Analytics(ctx context.Context, timeframe string) (models.Analytics, error)
	Finance(ctx context.Context, timeframe string) (models.FinanceSummary, error)
}

type RideService interface {
	Rides(ctx context.Context, filters models.Filters, page models.Pagination) (models.ListResult[models.Ride], error)
	Ride(ctx context.Context, id string) (models.Ride, error)
	Drivers(ctx context.Context, filters models.Filters, page models.Pagination) (models.ListResult[models.Driver], error)
}

type UserService interface {
	Users(ctx context.Context, filters models.Filters, page models.Pagination) (models.ListResult[models.User], error)
	User(ctx context.Context, id string) (models.User, error)
	CreateUser(ctx context.Context, in models.UserInput) (any, error)
	UpdateUser(ctx context.Context, id string, in models.UserInput) (any, error)
	DeleteUser(ctx context.Context, id string) (any, error)
	SetUserStatus(ctx context.Context, id, status string) (any, error)
	ExportUsers(ctx context.Context, status string) ([]byte, error)
}

type TicketService interface {
	Tickets(ctx context.Context, filters models.Filters, page models.Pagination) (models.ListResult[models.Ticket], error)
	Ticket(ctx context.Context, id string) (models.Ticket, error)
	Reply(ctx context.Context, id, message string) (any, error)
	SetTicketStatus(ctx context.Context, id string, status types.TicketStatus) (any, error)
}
