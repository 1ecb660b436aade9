package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Temutjin2k/qglide-admin/config"
	"github.com/Temutjin2k/qglide-admin/internal/adapter/http/handler"
	"github.com/Temutjin2k/qglide-admin/internal/adapter/http/middleware"
	wshandler "github.com/Temutjin2k/qglide-admin/internal/adapter/http/ws"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
)

const (
	serverIPAddress = "%s:%s"
	serviceName     = "qglide-console"
)

// Services groups what the console routes call into.
type Services struct {
	Auth      handler.AuthService
	Dashboard handler.DashboardService
	Rides     handler.RideService
	Users     handler.UserService
	Tickets   handler.TicketService
}

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.ConsoleConfig
	log  logger.Logger
}

type handlers struct {
	health    *handler.Health
	auth      *handler.Auth
	dashboard *handler.Dashboard
	rides     *handler.Rides
	users     *handler.Users
	tickets   *handler.Tickets
	ticketsWS *wshandler.TicketView
}

func New(
	cfg config.Config,
	services Services,
	ticketView *wshandler.TicketView,
	session middleware.TokenReader,
	logger logger.Logger,
) (*API, error) {
	switch {
	case services.Auth == nil, services.Dashboard == nil, services.Rides == nil,
		services.Users == nil, services.Tickets == nil:
		return nil, errors.New("every console service is required")
	case ticketView == nil:
		return nil, errors.New("ticket view is required")
	case session == nil:
		return nil, errors.New("session store is required")
	}

	pageSize := cfg.Console.PageSize
	routes := &handlers{
		health:    handler.NewHealth(serviceName, cfg.API.BaseURL, session, logger),
		auth:      handler.NewAuth(services.Auth, logger),
		dashboard: handler.NewDashboard(services.Dashboard, logger),
		rides:     handler.NewRides(services.Rides, pageSize, logger),
		users:     handler.NewUsers(services.Users, pageSize, logger),
		tickets:   handler.NewTickets(services.Tickets, pageSize, logger),
		ticketsWS: ticketView,
	}

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(session, logger),
		addr:   fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Console.Port),
		cfg:    cfg.Console,
		log:    logger,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:              api.addr,
		Handler:           api.withMiddleware(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// Handler exposes the full middleware chain.
func (a *API) Handler() http.Handler {
	return a.server.Handler
}

// withMiddleware applies middlewares to the mux. The mux must be innermost
// after CORS so Metrics can read the matched pattern.
func (a *API) withMiddleware() http.Handler {
	chain := a.m.Recover(
		a.m.RequestID(
			a.m.Logging(
				a.m.Metrics(serviceName)(
					a.m.CORS(a.cfg.AllowedOrigins)(a.mux),
				),
			),
		),
	)
	return otelhttp.NewHandler(chain, serviceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
