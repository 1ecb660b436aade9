package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Temutjin2k/qglide-admin/docs"
)

// setupRoutes - setups http routes
func (a *API) setupRoutes() {
	mux, routes, auth := a.mux, a.routes, a.m.RequireSession

	// System Health
	mux.HandleFunc("GET /health", routes.health.HealthCheck)

	setupSwaggerRoutes(mux)
	setupMetricsRoute(mux)

	mux.HandleFunc("POST /api/auth/login", routes.auth.Login)
	mux.Handle("POST /api/auth/logout", auth(http.HandlerFunc(routes.auth.Logout)))
	mux.Handle("GET /api/auth/me", auth(http.HandlerFunc(routes.auth.Me)))

	mux.Handle("GET /api/overview", auth(http.HandlerFunc(routes.dashboard.Overview)))
	mux.Handle("GET /api/analytics", auth(http.HandlerFunc(routes.dashboard.Analytics)))
	mux.Handle("GET /api/finance", auth(http.HandlerFunc(routes.dashboard.Finance)))

	mux.Handle("GET /api/rides", auth(http.HandlerFunc(routes.rides.ListRides)))
	mux.Handle("GET /api/rides/{id}", auth(http.HandlerFunc(routes.rides.GetRide)))
	mux.Handle("GET /api/drivers", auth(http.HandlerFunc(routes.rides.ListDrivers)))

	mux.Handle("GET /api/users", auth(http.HandlerFunc(routes.users.ListUsers)))
	mux.Handle("POST /api/users", auth(http.HandlerFunc(routes.users.CreateUser)))
	mux.Handle("GET /api/users/export.csv", auth(http.HandlerFunc(routes.users.ExportUsers)))
	mux.Handle("GET /api/users/{id}", auth(http.HandlerFunc(routes.users.GetUser)))
	mux.Handle("PUT /api/users/{id}", auth(http.HandlerFunc(routes.users.UpdateUser)))
	mux.Handle("DELETE /api/users/{id}", auth(http.HandlerFunc(routes.users.DeleteUser)))
	mux.Handle("POST /api/users/{id}/status", auth(http.HandlerFunc(routes.users.SetUserStatus)))

	mux.Handle("GET /api/tickets", auth(http.HandlerFunc(routes.tickets.ListTickets)))
	mux.Handle("GET /api/tickets/{id}", auth(http.HandlerFunc(routes.tickets.GetTicket)))
	mux.Handle("POST /api/tickets/{id}/reply", auth(http.HandlerFunc(routes.tickets.Reply)))
	mux.Handle("POST /api/tickets/{id}/status", auth(http.HandlerFunc(routes.tickets.SetTicketStatus)))

	mux.Handle("GET /ws/tickets", auth(http.HandlerFunc(routes.ticketsWS.ServeTickets)))
}

// setupSwaggerRoutes serves the Swagger UI for the console API.
func setupSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler(httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName())))
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("GET /metrics", promhttp.Handler())
}
