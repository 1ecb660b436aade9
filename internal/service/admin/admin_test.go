package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Temutjin2k/qglide-admin/internal/adapter/session"
	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/clock"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
)

// fakeBackend answers every call from fixed values and counts calls.
type fakeBackend struct {
	Backend // unimplemented methods panic

	calls     int
	err       error
	overview  models.Overview
	analytics models.Analytics
	lastTF    types.Timeframe
	lastID    string
	lastValue string
}

func (f *fakeBackend) Login(_ context.Context, email, _ string) (string, error) {
	f.calls++
	return "opaque-token", f.err
}

func (f *fakeBackend) Logout(context.Context) error {
	f.calls++
	return f.err
}

func (f *fakeBackend) Overview(context.Context) (models.Overview, error) {
	f.calls++
	return f.overview, f.err
}

func (f *fakeBackend) RidesAnalytics(_ context.Context, tf types.Timeframe) (models.Analytics, error) {
	f.calls++
	f.lastTF = tf
	a := f.analytics
	a.Timeframe = string(tf)
	return a, f.err
}

func (f *fakeBackend) RideDetails(_ context.Context, id string) (models.Ride, error) {
	f.calls++
	f.lastID = id
	return models.Ride{ID: id}, f.err
}

func (f *fakeBackend) UpdateUserStatus(_ context.Context, id, status string) (any, error) {
	f.calls++
	f.lastID, f.lastValue = id, status
	return map[string]any{"ok": true}, f.err
}

func (f *fakeBackend) DeleteUser(_ context.Context, id string) (any, error) {
	f.calls++
	f.lastID = id
	return nil, f.err
}

func (f *fakeBackend) ReplyTicket(_ context.Context, id, msg string) (any, error) {
	f.calls++
	f.lastID, f.lastValue = id, msg
	return nil, f.err
}

func (f *fakeBackend) UpdateTicketStatus(_ context.Context, id string, st types.TicketStatus) (any, error) {
	f.calls++
	f.lastID, f.lastValue = id, string(st)
	return nil, f.err
}

type recordingAudit struct {
	events []models.AuditEvent
	err    error
}

func (r *recordingAudit) Publish(_ context.Context, e models.AuditEvent) error {
	r.events = append(r.events, e)
	return r.err
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(api *fakeBackend, audit *recordingAudit) (*Service, *session.MemoryStore) {
	store := session.NewMemoryStore()
	return NewService(api, store, audit, clock.Fake(fixedNow), logger.Discard()), store
}

func TestAnalytics_RejectsUnknownTimeframe(t *testing.T) {
	api := &fakeBackend{}
	svc, _ := newTestService(api, &recordingAudit{})

	_, err := svc.Analytics(context.Background(), "decade")
	if !errors.Is(err, types.ErrInvalidTimeframe) {
		t.Fatalf("expected ErrInvalidTimeframe, got %v", err)
	}
	if api.calls != 0 {
		t.Fatalf("invalid timeframe must not reach the backend, got %d calls", api.calls)
	}

	if _, err := svc.Analytics(context.Background(), ""); err != nil {
		t.Fatalf("empty timeframe: %v", err)
	}
	if api.lastTF != types.Week {
		t.Fatalf("empty timeframe should default to week, got %q", api.lastTF)
	}
}

func TestEmptyIDs_NeverReachBackend(t *testing.T) {
	api := &fakeBackend{}
	svc, _ := newTestService(api, &recordingAudit{})
	ctx := context.Background()

	checks := map[string]func() error{
		"ride":   func() error { _, err := svc.Ride(ctx, " "); return err },
		"delete": func() error { _, err := svc.DeleteUser(ctx, ""); return err },
		"status": func() error { _, err := svc.SetUserStatus(ctx, "", "active"); return err },
		"reply":  func() error { _, err := svc.Reply(ctx, "", "hi"); return err },
		"ticket": func() error { _, err := svc.SetTicketStatus(ctx, "", types.TicketOpen); return err },
	}
	for name, call := range checks {
		if err := call(); !errors.Is(err, types.ErrEmptyID) {
			t.Fatalf("%s: expected ErrEmptyID, got %v", name, err)
		}
	}
	if api.calls != 0 {
		t.Fatalf("expected zero backend calls, got %d", api.calls)
	}
}

func TestSetTicketStatus_ValidatesAndAudits(t *testing.T) {
	api := &fakeBackend{}
	audit := &recordingAudit{}
	svc, _ := newTestService(api, audit)
	ctx := context.Background()

	if _, err := svc.SetTicketStatus(ctx, "t1", "archived"); !errors.Is(err, types.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	if _, err := svc.SetTicketStatus(ctx, "t1", "Resolved"); err != nil {
		t.Fatalf("SetTicketStatus: %v", err)
	}
	if api.lastValue != "resolved" {
		t.Fatalf("status should be normalized, got %q", api.lastValue)
	}
	if len(audit.events) != 1 || audit.events[0].Action != types.AuditTicketStatusChanged || audit.events[0].EntityID != "t1" {
		t.Fatalf("unexpected audit events %+v", audit.events)
	}
	if !audit.events[0].OccurredAt.Equal(fixedNow) || audit.events[0].ID == "" {
		t.Fatalf("event must carry id and clock time, got %+v", audit.events[0])
	}
}

func TestMutationFailure_PublishesNothing(t *testing.T) {
	api := &fakeBackend{err: errors.New("HTTP 500: Internal Server Error")}
	audit := &recordingAudit{}
	svc, _ := newTestService(api, audit)

	if _, err := svc.DeleteUser(context.Background(), "u1"); err == nil {
		t.Fatalf("expected backend error")
	}
	if len(audit.events) != 0 {
		t.Fatalf("failed mutation must not be audited, got %+v", audit.events)
	}
}

func TestAuditFailure_DoesNotFailMutation(t *testing.T) {
	api := &fakeBackend{}
	audit := &recordingAudit{err: errors.New("broker unavailable")}
	svc, store := newTestService(api, audit)
	_ = store.Set(context.Background(), "opaque-token")

	if _, err := svc.SetUserStatus(context.Background(), "u1", "SUSPENDED"); err != nil {
		t.Fatalf("audit failure leaked into mutation: %v", err)
	}
	if api.lastValue != "suspended" {
		t.Fatalf("unexpected status sent %q", api.lastValue)
	}
	if audit.events[0].Actor == "" {
		t.Fatalf("actor should fall back to the token fingerprint")
	}
}

func TestReply_RejectsBlankMessage(t *testing.T) {
	api := &fakeBackend{}
	svc, _ := newTestService(api, &recordingAudit{})

	if _, err := svc.Reply(context.Background(), "t1", "   "); !errors.Is(err, types.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if _, err := svc.Reply(context.Background(), "t1", "  on it  "); err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if api.lastValue != "on it" {
		t.Fatalf("message should be trimmed, got %q", api.lastValue)
	}
}

func TestLoginLogout_Audited(t *testing.T) {
	api := &fakeBackend{}
	audit := &recordingAudit{}
	svc, _ := newTestService(api, audit)
	ctx := context.Background()

	info, err := svc.Login(ctx, " a@b.com ", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !info.LoggedIn || info.Email != "a@b.com" {
		t.Fatalf("unexpected session info %+v", info)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(audit.events) != 2 || audit.events[0].Action != types.AuditSessionOpened || audit.events[1].Action != types.AuditSessionClosed {
		t.Fatalf("unexpected audit events %+v", audit.events)
	}
}

func TestSession_LoggedOut(t *testing.T) {
	svc, _ := newTestService(&fakeBackend{}, &recordingAudit{})

	info, err := svc.Session(context.Background())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if info.LoggedIn {
		t.Fatalf("empty store must report logged out")
	}
}
