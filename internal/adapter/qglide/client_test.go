package qglide

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Temutjin2k/qglide-admin/internal/adapter/session"
	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
)

// fakeBackend serves canned answers per path and counts every request.
type fakeBackend struct {
	srv     *httptest.Server
	calls   atomic.Int32
	last    atomic.Pointer[http.Request]
	lastRaw atomic.Pointer[string]
	routes  map[string]http.HandlerFunc
}

func newFakeBackend(t *testing.T, routes map[string]http.HandlerFunc) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{routes: routes}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		raw := string(body)
		fb.last.Store(r.Clone(context.Background()))
		fb.lastRaw.Store(&raw)

		h, ok := fb.routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

func jsonReply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func newTestClient(fb *fakeBackend, store session.Store) *Client {
	return New(Config{BaseURL: fb.srv.URL, AnonKey: "anon", Timeout: time.Second}, store, logger.Discard(),
		WithHTTPClient(fb.srv.Client()),
		WithTransformer(Transformer{Now: func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }}),
	)
}

func loggedIn(t *testing.T, token string) *session.MemoryStore {
	t.Helper()
	s := session.NewMemoryStore()
	if err := s.Set(context.Background(), token); err != nil {
		t.Fatalf("set token: %v", err)
	}
	return s
}

func TestListUsers_NoTokenMakesNoCalls(t *testing.T) {
	fb := newFakeBackend(t, map[string]http.HandlerFunc{
		endpointUsersList:  jsonReply(200, `[]`),
		endpointDeleteUser: jsonReply(200, `{}`),
	})
	c := newTestClient(fb, session.NewMemoryStore())

	_, err := c.ListUsers(context.Background(), models.Filters{}, models.NewPagination(1, 20))
	if !errors.Is(err, types.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := c.DeleteUser(context.Background(), "u1"); !errors.Is(err, types.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated from mutation, got %v", err)
	}
	if n := fb.calls.Load(); n != 0 {
		t.Fatalf("expected zero network calls, got %d", n)
	}
}

func TestLogin_StoresTokenUsedAsBearer(t *testing.T) {
	fb := newFakeBackend(t, map[string]http.HandlerFunc{
		endpointLogin:     jsonReply(200, `{"access_token":"tok1","token_type":"bearer"}`),
		endpointUsersList: jsonReply(200, `{"data":{"users":[]}}`),
	})
	store := session.NewMemoryStore()
	c := newTestClient(fb, store)

	tok, err := c.Login(context.Background(), "a@b.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok != "tok1" {
		t.Fatalf("expected tok1, got %q", tok)
	}

	loginReq := fb.last.Load()
	if loginReq.URL.Query().Get("grant_type") != "password" {
		t.Fatalf("missing grant_type, got %s", loginReq.URL.RawQuery)
	}
	if loginReq.Header.Get("Authorization") != "" {
		t.Fatalf("login must not send a bearer")
	}
	var creds map[string]string
	if err := json.Unmarshal([]byte(*fb.lastRaw.Load()), &creds); err != nil {
		t.Fatalf("login body: %v", err)
	}
	if creds["email"] != "a@b.com" || creds["password"] != "secret123" {
		t.Fatalf("unexpected credentials %v", creds)
	}

	if stored, _ := store.Get(context.Background()); stored != "tok1" {
		t.Fatalf("store must hold tok1, got %q", stored)
	}

	if _, err := c.ListUsers(context.Background(), nil, models.NewPagination(1, 20)); err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	req := fb.last.Load()
	if got := req.Header.Get("Authorization"); got != "Bearer tok1" {
		t.Fatalf("expected Bearer tok1, got %q", got)
	}
	if got := req.Header.Get("apikey"); got != "anon" {
		t.Fatalf("expected apikey header, got %q", got)
	}
}

func TestLogin_NestedToken(t *testing.T) {
	fb := newFakeBackend(t, map[string]http.HandlerFunc{
		endpointLogin: jsonReply(200, `{"data":{"session":{"access_token":"tok2"}}}`),
	})
	c := newTestClient(fb, session.NewMemoryStore())

	tok, err := c.Login(context.Background(), "a@b.com", "secret123")
	if err != nil || tok != "tok2" {
		t.Fatalf("expected tok2, got %q, %v", tok, err)
	}
}

func TestLogin_Rejected(t *testing.T) {
	fb := newFakeBackend(t, map[string]http.HandlerFunc{
		endpointLogin: jsonReply(400, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`),
	})
	store := session.NewMemoryStore()
	c := newTestClient(fb, store)

	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 400 {
		t.Fatalf("expected APIError 400, got %v", err)
	}
	if apiErr.Message != "invalid_grant" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
	if tok, _ := store.Get(context.Background()); tok != "" {
		t.Fatalf("failed login must not store a token")
	}
}

func TestListUsers_NestedEnvelopeAndTotal(t *testing.T) {
	fb := newFakeBackend(t, map[string]http.HandlerFunc{
		endpointUsersList: jsonReply(200, `{"data":{"users":[{"id":1,"full_name":"Ali"}],"total_count":1}}`),
	})
	c := newTestClient(fb, loggedIn(t, "tok1"))

	res, err := c.ListUsers(context.Background(), models.Filters{}, models.NewPagination(1, 20))
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(res.Items) != 1 {
		t.Fatalf("expected 1 user, got %d", len(res.Items))
	}
	if res.Items[0].Name != "Ali" || res.Items[0].ID != "1" {
		t.Fatalf("unexpected user %+v", res.Items[0])
	}
	if res.Page.TotalCount != 1 || res.Page.TotalPages != 1 {
		t.Fatalf("unexpected page %+v", res.Page)
	}
}

func TestListUsers_HugeTotalSaturates(t *testing.T) {
	fb := newFakeBackend(t, map[string]http.HandlerFunc{
		endpointUsersList: jsonReply(200, `{"data":[{"id":1}],"total_count":1e300}`),
	})
	c := newTestClient(fb, loggedIn(t, "tok1"))

	res, err := c.ListUsers(context.Background(), models.Filters{}, models.NewPagination(1, 20))
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if res.Page.TotalCount != math.MaxInt || res.Page.TotalPages <= 0 {
		t.Fatalf("unexpected page %+v", res.Page)
	}
}

func TestListUsers_EmptyObject(t *testing.T) {
	fb := newFakeBackend(t, map[string]http.HandlerFunc{
		endpointUsersList: jsonReply(200, `{}`),
	})
	c := newTestClient(fb, loggedIn(t, "tok1"))

	res, err := c.ListUsers(context.Background(), nil, models.NewPagination(1, 20))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(res.Items) != 0 || res.Items == nil {
		t.Fatalf("expected empty non-nil items, got %v", res.Items)
	}
	if res.Page.TotalCount != 0 {
		t.Fatalf("expected totalCount 0, got %d", res.Page.TotalCount)
	}
}

func TestListRides_QueryOmitsSentinels(t *testing.T) {
	fb := newFakeBackend(t, map[string]http.HandlerFunc{
		endpointRidesList: jsonReply(200, `{"rides":[{"id":"r1"},{"id":"r2"}],"total":45}`),
	})
	c := newTestClient(fb, loggedIn(t, "tok1"))

	filters := models.Filters{"status": "all", "search": "airport", "date": ""}
	res, err := c.ListRides(context.Background(), filters, models.NewPagination(2, 20))
	if err != nil {
		t.Fatalf("ListRides: %v", err)
	}

	q := fb.last.Load().URL.Query()
	if q.Has("status") || q.Has("date") {
		t.Fatalf("sentinel filters must be omitted, got %s", q.Encode())
	}
	if q.Get("search") != "airport" || q.Get("page") != "2" || q.Get("page_size") != "20" {
		t.Fatalf("unexpected query %s", q.Encode())
	}
	if res.Page.TotalPages != 3 || res.Page.Page != 2 {
		t.Fatalf("unexpected page %+v", res.Page)
	}
}

func TestListDrivers_UsesLimitAndFallbackTotal(t *testing.T) {
	fb := newFakeBackend(t, map[string]http.HandlerFunc{
		endpointDriversList: jsonReply(200, `[{"name":"Bola"},{"driver_name":"Chi"}]`),
	})
	c := newTestClient(fb, loggedIn(t, "tok1"))

	res, err := c.ListDrivers(context.Background(), models.Filters{"status": "online"}, models.NewPagination(3, 10))
	if err != nil {
		t.Fatalf("ListDrivers: %v", err)
	}
	q := fb.last.Load().URL.Query()
	if q.Get("limit") != "10" || q.Get("status") != "online" {
		t.Fatalf("unexpected query %s", q.Encode())
	}
	if res.Page.TotalCount != 22 {
		t.Fatalf("expected fallback total 22, got %d", res.Page.TotalCount)
	}
	if res.Items[1].Name != "Chi" {
		t.Fatalf("unexpected driver %+v", res.Items[1])
	}
}

func TestErrors_Shaping(t *testing.T) {
	fb := newFakeBackend(t, map[string]http.HandlerFunc{
		endpointUsersList:   jsonReply(500, `{"error":{"message":"database unavailable"}}`),
		endpointDriversList: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) },
		endpointTicketsList: jsonReply(401, `{"msg":"JWT expired"}`),
	})
	c := newTestClient(fb, loggedIn(t, "tok1"))
	ctx := context.Background()

	_, err := c.ListUsers(ctx, nil, models.NewPagination(1, 20))
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "database unavailable" || apiErr.Status != 500 {
		t.Fatalf("unexpected error %v", err)
	}

	_, err = c.ListDrivers(ctx, nil, models.NewPagination(1, 20))
	if !errors.As(err, &apiErr) || apiErr.Message != "HTTP 502: Bad Gateway" {
		t.Fatalf("unexpected synthesized error %v", err)
	}

	_, err = c.ListTickets(ctx, nil, models.NewPagination(1, 20))
	if !errors.Is(err, types.ErrUnauthenticated) {
		t.Fatalf("401 must match ErrUnauthenticated, got %v", err)
	}
	if StatusOf(err) != 401 {
		t.Fatalf("expected status 401, got %d", StatusOf(err))
	}
}

func TestNetworkError(t *testing.T) {
	fb := newFakeBackend(t, nil)
	c := newTestClient(fb, loggedIn(t, "tok1"))
	fb.srv.Close()

	_, err := c.Overview(context.Background())
	if !IsNetwork(err) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestLogout_ClearsEvenWhenRemoteFails(t *testing.T) {
	fb := newFakeBackend(t, map[string]http.HandlerFunc{
		endpointLogout: jsonReply(500, `{"error":"revoke failed"}`),
	})
	store := loggedIn(t, "tok1")
	c := newTestClient(fb, store)

	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout must succeed locally, got %v", err)
	}
	if tok, _ := store.Get(context.Background()); tok != "" {
		t.Fatalf("token must be cleared, got %q", tok)
	}
	if fb.calls.Load() != 1 {
		t.Fatalf("expected one remote logout attempt, got %d", fb.calls.Load())
	}

	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if fb.calls.Load() != 1 {
		t.Fatalf("logged-out logout must not call the backend")
	}
}

func TestTicketDetails_SiblingMessages(t *testing.T) {
	fb := newFakeBackend(t, map[string]http.HandlerFunc{
		endpointTicketDetails: jsonReply(200, `{"data":{"ticket":{"id":"t1","subject":"Refund","status":"Pending"},"messages":[{"message":"hello","sender_type":"admin"}]}}`),
	})
	c := newTestClient(fb, loggedIn(t, "tok1"))

	ticket, err := c.TicketDetails(context.Background(), "t1")
	if err != nil {
		t.Fatalf("TicketDetails: %v", err)
	}
	if fb.last.Load().URL.Query().Get("ticket_id") != "t1" {
		t.Fatalf("ticket_id not sent")
	}
	if ticket.Status != "pending" || ticket.Subject != "Refund" {
		t.Fatalf("unexpected ticket %+v", ticket)
	}
	if len(ticket.Messages) != 1 || !ticket.Messages[0].FromSupport || ticket.Messages[0].Sender != SupportSender {
		t.Fatalf("unexpected messages %+v", ticket.Messages)
	}
}

func TestDetails_EmptyID(t *testing.T) {
	fb := newFakeBackend(t, nil)
	c := newTestClient(fb, loggedIn(t, "tok1"))

	if _, err := c.RideDetails(context.Background(), "  "); !errors.Is(err, types.ErrEmptyID) {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
	if fb.calls.Load() != 0 {
		t.Fatalf("empty id must not reach the backend")
	}
}

func TestMutations_Payloads(t *testing.T) {
	fb := newFakeBackend(t, map[string]http.HandlerFunc{
		endpointUpdateUser:         jsonReply(200, `{"success":true,"data":{"id":"u1"}}`),
		endpointUpdateTicketStatus: jsonReply(200, `{"success":true}`),
	})
	c := newTestClient(fb, loggedIn(t, "tok1"))
	ctx := context.Background()

	data, err := c.UpdateUser(ctx, "u1", models.UserInput{Name: "Ali", Status: "active"})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	var payload map[string]any
	_ = json.Unmarshal([]byte(*fb.lastRaw.Load()), &payload)
	if payload["user_id"] != "u1" || payload["full_name"] != "Ali" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if _, ok := payload["email"]; ok {
		t.Fatalf("empty fields must be omitted: %v", payload)
	}
	if obj, ok := data.(map[string]any); !ok || obj["id"] != "u1" {
		t.Fatalf("expected data field, got %#v", data)
	}

	data, err = c.UpdateTicketStatus(ctx, "t1", types.TicketResolved)
	if err != nil {
		t.Fatalf("UpdateTicketStatus: %v", err)
	}
	payload = nil
	_ = json.Unmarshal([]byte(*fb.lastRaw.Load()), &payload)
	if payload["ticket_id"] != "t1" || payload["status"] != "resolved" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if obj, ok := data.(map[string]any); !ok || obj["success"] != true {
		t.Fatalf("expected whole body, got %#v", data)
	}
	if fb.last.Load().Method != http.MethodPost {
		t.Fatalf("mutations must POST")
	}
}

func TestExportUsersCSV(t *testing.T) {
	fb := newFakeBackend(t, map[string]http.HandlerFunc{
		endpointUsersExportCSV: func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("status") == "banned" {
				jsonReply(200, `{"error":"nothing to export"}`)(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/csv")
			_, _ = io.WriteString(w, "id,name\n1,Ali\n")
		},
	})
	c := newTestClient(fb, loggedIn(t, "tok1"))

	csv, err := c.ExportUsersCSV(context.Background(), "all")
	if err != nil {
		t.Fatalf("ExportUsersCSV: %v", err)
	}
	if string(csv) != "id,name\n1,Ali\n" {
		t.Fatalf("unexpected csv %q", csv)
	}
	if fb.last.Load().URL.Query().Has("status") {
		t.Fatalf("status=all must be omitted")
	}

	_, err = c.ExportUsersCSV(context.Background(), "banned")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "nothing to export" {
		t.Fatalf("expected APIError from JSON body, got %v", err)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&APIError{Status: 401, Message: "JWT expired"}, types.ErrUnauthenticated.Error()},
		{&APIError{Status: 409, Message: "email already registered"}, "email already registered"},
		{fmt.Errorf("Service.Ticket: %w", types.ErrEmptyID), types.ErrEmptyID.Error()},
		{&NetworkError{Endpoint: "admin-tickets", Err: errors.New("dial tcp: refused")}, "could not reach the QGlide backend, check your connection and try again"},
		{errors.New("pq: relation missing"), "internal error"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
