package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/Temutjin2k/qglide-admin/internal/adapter/session"
	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/clock"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
	"github.com/google/uuid"
)

type Service struct {
	api    Backend
	tokens TokenReader
	audit  AuditPublisher
	clock  clock.Clock
	l      logger.Logger
}

func NewService(api Backend, tokens TokenReader, audit AuditPublisher, clk clock.Clock, l logger.Logger) *Service {
	if audit == nil {
		audit = NopAudit{}
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &Service{
		api:    api,
		tokens: tokens,
		audit:  audit,
		clock:  clk,
		l:      l,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (models.SessionInfo, error) {
	const op = "AdminService.Login"
	ctx = wrap.WithAction(ctx, types.ActionLogin)

	token, err := s.api.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return models.SessionInfo{}, err
	}

	info := session.Describe(token, s.clock.Now())
	if info.Email == "" {
		info.Email = strings.TrimSpace(email)
	}
	s.publish(ctx, types.AuditSessionOpened, info.Subject, info.Email, nil)

	s.l.Debug(ctx, "session opened", "op", op, "fingerprint", info.Fingerprint)
	return info, nil
}

// Logout always ends the local session. Remote failures are logged by the
// client and never reach the caller.
func (s *Service) Logout(ctx context.Context) error {
	actor := s.actor(ctx)
	if err := s.api.Logout(ctx); err != nil {
		return err
	}
	s.publish(ctx, types.AuditSessionClosed, "", actor, nil)
	return nil
}

func (s *Service) Session(ctx context.Context) (models.SessionInfo, error) {
	const op = "AdminService.Session"

	token, err := s.tokens.Get(ctx)
	if err != nil {
		return models.SessionInfo{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return session.Describe(token, s.clock.Now()), nil
}

func (s *Service) Overview(ctx context.Context) (models.Overview, error) {
	return s.api.Overview(ctx)
}

func (s *Service) Analytics(ctx context.Context, timeframe string) (models.Analytics, error) {
	const op = "AdminService.Analytics"

	tf, err := types.ParseTimeframe(timeframe)
	if err != nil {
		return models.Analytics{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return s.api.RidesAnalytics(ctx, tf)
}

func (s *Service) Rides(ctx context.Context, filters models.Filters, page models.Pagination) (models.ListResult[models.Ride], error) {
	return s.api.ListRides(ctx, filters, page)
}

func (s *Service) Ride(ctx context.Context, id string) (models.Ride, error) {
	const op = "AdminService.Ride"

	if err := requireID(id); err != nil {
		return models.Ride{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return s.api.RideDetails(ctx, id)
}

func (s *Service) Drivers(ctx context.Context, filters models.Filters, page models.Pagination) (models.ListResult[models.Driver], error) {
	return s.api.ListDrivers(ctx, filters, page)
}

func (s *Service) Users(ctx context.Context, filters models.Filters, page models.Pagination) (models.ListResult[models.User], error) {
	return s.api.ListUsers(ctx, filters, page)
}

func (s *Service) User(ctx context.Context, id string) (models.User, error) {
	const op = "AdminService.User"

	if err := requireID(id); err != nil {
		return models.User{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return s.api.UserDetails(ctx, id)
}

func (s *Service) CreateUser(ctx context.Context, in models.UserInput) (any, error) {
	data, err := s.api.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, types.AuditUserCreated, "", s.actor(ctx), withoutPassword(in))
	return data, nil
}

func (s *Service) UpdateUser(ctx context.Context, id string, in models.UserInput) (any, error) {
	const op = "AdminService.UpdateUser"

	if err := requireID(id); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	data, err := s.api.UpdateUser(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, types.AuditUserUpdated, id, s.actor(ctx), withoutPassword(in))
	return data, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) (any, error) {
	const op = "AdminService.DeleteUser"

	if err := requireID(id); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	data, err := s.api.DeleteUser(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, types.AuditUserDeleted, id, s.actor(ctx), nil)
	return data, nil
}

func (s *Service) SetUserStatus(ctx context.Context, id, status string) (any, error) {
	const op = "AdminService.SetUserStatus"

	if err := requireID(id); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	st := types.UserStatus(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w: %q", op, types.ErrInvalidStatus, status))
	}

	data, err := s.api.UpdateUserStatus(ctx, id, string(st))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, types.AuditUserStatusChanged, id, s.actor(ctx), map[string]string{"status": string(st)})
	return data, nil
}

// ExportUsers returns the CSV export. A sentinel status exports everyone.
func (s *Service) ExportUsers(ctx context.Context, status string) ([]byte, error) {
	return s.api.ExportUsersCSV(ctx, status)
}

func (s *Service) Tickets(ctx context.Context, filters models.Filters, page models.Pagination) (models.ListResult[models.Ticket], error) {
	return s.api.ListTickets(ctx, filters, page)
}

func (s *Service) Ticket(ctx context.Context, id string) (models.Ticket, error) {
	const op = "AdminService.Ticket"

	if err := requireID(id); err != nil {
		return models.Ticket{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return s.api.TicketDetails(ctx, id)
}

func (s *Service) Reply(ctx context.Context, id, message string) (any, error) {
	const op = "AdminService.Reply"

	if err := requireID(id); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrEmptyMessage))
	}

	data, err := s.api.ReplyTicket(ctx, id, message)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, types.AuditTicketReplied, id, s.actor(ctx), map[string]int{"length": len(message)})
	return data, nil
}

// SetTicketStatus changes a ticket's status. Callers that poll the ticket
// should re-arm when the new status is not terminal.
func (s *Service) SetTicketStatus(ctx context.Context, id string, status types.TicketStatus) (any, error) {
	const op = "AdminService.SetTicketStatus"

	if err := requireID(id); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	status = types.TicketStatus(strings.ToLower(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w: %q", op, types.ErrInvalidStatus, status))
	}

	data, err := s.api.UpdateTicketStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, types.AuditTicketStatusChanged, id, s.actor(ctx), map[string]string{"status": string(status)})
	return data, nil
}

// publish sends an audit event. A failed publish never fails the mutation
// that already succeeded upstream.
func (s *Service) publish(ctx context.Context, action types.AuditAction, entityID, actor string, payload any) {
	event := models.AuditEvent{
		ID:         uuid.NewString(),
		Action:     action,
		EntityID:   entityID,
		Actor:      actor,
		OccurredAt: s.clock.Now().UTC(),
		Payload:    payload,
	}
	if err := s.audit.Publish(ctx, event); err != nil {
		s.l.Warn(wrap.WithAction(ctx, types.ActionAuditPublishFailed), "failed to publish audit event",
			"audit_action", action, "entity_id", entityID, "error", err)
	}
}

func (s *Service) actor(ctx context.Context) string {
	token, err := s.tokens.Get(ctx)
	if err != nil || token == "" {
		return ""
	}
	info := session.Describe(token, s.clock.Now())
	if info.Email != "" {
		return info.Email
	}
	return info.Fingerprint
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return types.ErrEmptyID
	}
	return nil
}

func withoutPassword(in models.UserInput) models.UserInput {
	in.Password = ""
	return in
}

// NopAudit drops every event. It is used when no broker is configured.
type NopAudit struct{}

func (NopAudit) Publish(context.Context, models.AuditEvent) error { return nil }
