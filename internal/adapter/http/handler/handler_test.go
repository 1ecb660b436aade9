package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Temutjin2k/qglide-admin/internal/adapter/qglide"
	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
)

type fakeAuth struct {
	loginErr error
	email    string
}

func (f *fakeAuth) Login(_ context.Context, email, _ string) (models.SessionInfo, error) {
	f.email = email
	if f.loginErr != nil {
		return models.SessionInfo{}, f.loginErr
	}
	return models.SessionInfo{Email: email}, nil
}

func (f *fakeAuth) Logout(context.Context) error { return nil }

func (f *fakeAuth) Session(context.Context) (models.SessionInfo, error) {
	return models.SessionInfo{}, types.ErrUnauthenticated
}

type fakeUsers struct {
	UserService

	filters models.Filters
	page    models.Pagination
	created models.UserInput
	err     error
}

func (f *fakeUsers) Users(_ context.Context, filters models.Filters, page models.Pagination) (models.ListResult[models.User], error) {
	f.filters, f.page = filters, page
	if f.err != nil {
		return models.ListResult[models.User]{}, f.err
	}
	return models.ListResult[models.User]{
		Items: []models.User{{ID: "u1", Name: "Aida"}},
		Page:  models.ComputePageState(page, 1, 0),
	}, nil
}

func (f *fakeUsers) User(_ context.Context, id string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	return models.User{ID: id}, nil
}

func (f *fakeUsers) CreateUser(_ context.Context, in models.UserInput) (any, error) {
	f.created = in
	return map[string]string{"id": "u2"}, f.err
}

func (f *fakeUsers) ExportUsers(_ context.Context, status string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("id,name\nu1,Aida\n"), nil
}

type fakeDashboard struct {
	DashboardService
}

func (fakeDashboard) Analytics(_ context.Context, timeframe string) (models.Analytics, error) {
	if _, err := types.ParseTimeframe(timeframe); err != nil {
		return models.Analytics{}, fmt.Errorf("Service.Analytics: %w", err)
	}
	return models.Analytics{}, nil
}

type response struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func do(t *testing.T, mux http.Handler, method, target, body string) (*httptest.ResponseRecorder, response) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var res response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("decode %s: %v", rec.Body.String(), err)
		}
	}
	return rec, res
}

func userMux(s *fakeUsers) *http.ServeMux {
	h := NewUsers(s, 20, logger.Discard())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users", h.ListUsers)
	mux.HandleFunc("POST /api/users", h.CreateUser)
	mux.HandleFunc("GET /api/users/export.csv", h.ExportUsers)
	mux.HandleFunc("GET /api/users/{id}", h.GetUser)
	return mux
}

func TestListUsers_SuccessShape(t *testing.T) {
	s := &fakeUsers{}
	rec, res := do(t, userMux(s), http.MethodGet, "/api/users?search=aida&status=all&page=2&page_size=5", "")

	if rec.Code != http.StatusOK || !res.Success {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if s.page.Page != 2 || s.page.PageSize != 5 {
		t.Fatalf("page = %+v", s.page)
	}
	if s.filters["search"] != "aida" || s.filters["status"] != "all" {
		t.Fatalf("filters = %v", s.filters)
	}

	var data models.ListResult[models.User]
	if err := json.Unmarshal(res.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Items) != 1 || data.Items[0].ID != "u1" {
		t.Fatalf("items = %+v", data.Items)
	}
}

func TestListUsers_BadPaging(t *testing.T) {
	rec, res := do(t, userMux(&fakeUsers{}), http.MethodGet, "/api/users?page=0&page_size=abc", "")
	if rec.Code != http.StatusUnprocessableEntity || res.Success {
		t.Fatalf("status = %d", rec.Code)
	}
	if res.Fields["page"] == "" || res.Fields["page_size"] == "" {
		t.Fatalf("fields = %v", res.Fields)
	}
}

func TestListUsers_MinRating(t *testing.T) {
	tests := []struct {
		value string
		code  int
	}{
		{"any", http.StatusOK},
		{"all", http.StatusOK},
		{"Any", http.StatusOK},
		{"ANY", http.StatusOK},
		{"4.5", http.StatusOK},
		{"abc", http.StatusUnprocessableEntity},
		{"NaN", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			users := &fakeUsers{}
			rec, res := do(t, userMux(users), http.MethodGet, "/api/users?min_rating="+tt.value, "")
			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d (fields %v)", rec.Code, tt.code, res.Fields)
			}
			if tt.code == http.StatusUnprocessableEntity {
				if res.Fields["min_rating"] == "" {
					t.Fatalf("fields = %v", res.Fields)
				}
				return
			}
			if users.filters["min_rating"] != tt.value {
				t.Fatalf("filters = %v", users.filters)
			}
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"unauthenticated", fmt.Errorf("op: %w", types.ErrUnauthenticated), http.StatusUnauthorized, types.ErrUnauthenticated.Error()},
		{"backend 401", &qglide.APIError{Status: 401, Message: "jwt expired"}, http.StatusUnauthorized, types.ErrUnauthenticated.Error()},
		{"backend 404", &qglide.APIError{Status: 404, Message: "User not found"}, http.StatusNotFound, "User not found"},
		{"backend 409", &qglide.APIError{Status: 409, Message: "email taken"}, http.StatusConflict, "email taken"},
		{"backend 500", &qglide.APIError{Status: 500, Message: "boom"}, http.StatusBadGateway, "boom"},
		{"network", &qglide.NetworkError{Endpoint: "admin-users", Err: errors.New("dial tcp")}, http.StatusBadGateway, ""},
		{"unknown", errors.New("weird"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, res := do(t, userMux(&fakeUsers{err: tt.err}), http.MethodGet, "/api/users/u1", "")
			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d", rec.Code, tt.code)
			}
			if res.Success || res.Error == "" {
				t.Fatalf("body = %s", rec.Body.String())
			}
			if tt.message != "" && res.Error != tt.message {
				t.Fatalf("error = %q, want %q", res.Error, tt.message)
			}
		})
	}
}

func TestCreateUser(t *testing.T) {
	s := &fakeUsers{}
	mux := userMux(s)

	rec, res := do(t, mux, http.MethodPost, "/api/users", `{"full_name":"Aida","email":"a@b.kz","password":"longenough","role":"driver"}`)
	if rec.Code != http.StatusCreated || !res.Success {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if s.created.Name != "Aida" || s.created.Role != "driver" {
		t.Fatalf("created = %+v", s.created)
	}

	rec, res = do(t, mux, http.MethodPost, "/api/users", `{"email":"not-an-email","role":"pilot"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	for _, field := range []string{"full_name", "email", "role", "password"} {
		if res.Fields[field] == "" {
			t.Fatalf("missing field error %q in %v", field, res.Fields)
		}
	}

	rec, _ = do(t, mux, http.MethodPost, "/api/users", `{"full_name":"Aida","unknown":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown key status = %d, want 400", rec.Code)
	}
}

func TestExportUsers_CSV(t *testing.T) {
	rec, _ := do(t, userMux(&fakeUsers{}), http.MethodGet, "/api/users/export.csv?status=active", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "users-active.csv") {
		t.Fatalf("content disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "id,name") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestLogin(t *testing.T) {
	s := &fakeAuth{}
	h := NewAuth(s, logger.Discard())
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("GET /api/auth/me", h.Me)

	rec, res := do(t, mux, http.MethodPost, "/api/auth/login", `{"email":" ops@qglide.kz ","password":"secret"}`)
	if rec.Code != http.StatusOK || !res.Success {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if s.email != "ops@qglide.kz" {
		t.Fatalf("email passed = %q", s.email)
	}

	rec, _ = do(t, mux, http.MethodPost, "/api/auth/login", `{"email":"ops@qglide.kz"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing password status = %d", rec.Code)
	}

	s.loginErr = &qglide.APIError{Status: 400, Message: "Invalid login credentials"}
	rec, res = do(t, mux, http.MethodPost, "/api/auth/login", `{"email":"ops@qglide.kz","password":"bad"}`)
	if rec.Code != http.StatusBadRequest || res.Error != "Invalid login credentials" {
		t.Fatalf("status = %d, error = %q", rec.Code, res.Error)
	}

	rec, _ = do(t, mux, http.MethodGet, "/api/auth/me", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me status = %d, want 401", rec.Code)
	}
}

func TestAnalytics_BadTimeframe(t *testing.T) {
	h := NewDashboard(fakeDashboard{}, logger.Discard())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/analytics", h.Analytics)

	rec, res := do(t, mux, http.MethodGet, "/api/analytics?timeframe=decade", "")
	if rec.Code != http.StatusBadRequest || res.Error != types.ErrInvalidTimeframe.Error() {
		t.Fatalf("status = %d, error = %q", rec.Code, res.Error)
	}

	rec, _ = do(t, mux, http.MethodGet, "/api/analytics?timeframe=Month", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

type tokenStub struct {
	token string
	err   error
}

func (s tokenStub) Get(context.Context) (string, error) { return s.token, s.err }

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name     string
		session  tokenStub
		status   string
		signedIn bool
	}{
		{"signed in", tokenStub{token: "tok"}, "available", true},
		{"signed out", tokenStub{}, "available", false},
		{"store down", tokenStub{err: errors.New("disk")}, "degraded", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealth("qglide-console", "https://x.supabase.co", tt.session, logger.Discard())
			rec := httptest.NewRecorder()
			h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			var body struct {
				Status   string `json:"status"`
				SignedIn bool   `json:"signed_in"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if rec.Code != http.StatusOK || body.Status != tt.status || body.SignedIn != tt.signedIn {
				t.Fatalf("got %d %+v", rec.Code, body)
			}
		})
	}
}
