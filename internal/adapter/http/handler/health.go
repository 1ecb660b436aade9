package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
)

// SessionReader reports whether an operator token is stored.
type SessionReader interface {
	Get(ctx context.Context) (string, error)
}

type Health struct {
	serviceName string
	baseURL     string
	session     SessionReader
	startedAt   time.Time
	log         logger.Logger
}

func NewHealth(serviceName, baseURL string, session SessionReader, log logger.Logger) *Health {
	return &Health{
		serviceName: serviceName,
		baseURL:     baseURL,
		session:     session,
		startedAt:   time.Now(),
		log:         log,
	}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Reports the console status, its upstream and whether an operator is signed in. Never calls the upstream.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /health [get]
func (h *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "health_check")

	status := "available"
	signedIn := false
	if h.session != nil {
		token, err := h.session.Get(ctx)
		if err != nil {
			h.log.Warn(ctx, "session store unavailable", "error", err.Error())
			status = "degraded"
		}
		signedIn = token != ""
	}

	response := envelope{
		"status":    status,
		"signed_in": signedIn,
		"system_info": map[string]string{
			"service-name": h.serviceName,
			"backend":      h.baseURL,
			"uptime":       time.Since(h.startedAt).Round(time.Second).String(),
		},
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.log.Error(ctx, "healthcheck", err)
	}
}
