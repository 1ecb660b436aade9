package handler

import (
	"net/http"

	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
)

type Dashboard struct {
	s DashboardService
	l logger.Logger
}

func NewDashboard(s DashboardService, l logger.Logger) *Dashboard {
	return &Dashboard{
		s: s,
		l: l,
	}
}

// Overview godoc
// @Summary      Dashboard KPIs
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /api/overview [get]
func (h *Dashboard) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_get_overview")

	overview, err := h.s.Overview(ctx)
	if err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "failed to get overview", err)
		return
	}

	h.l.Debug(ctx, "fetched overview", "recent_rides", len(overview.RecentRides))
	writeSuccess(w, r, h.l, http.StatusOK, overview)
}

// Analytics godoc
// @Summary      Ride analytics
// @Tags         Dashboard
// @Produce      json
// @Param        timeframe  query     string  false  "week, month or year"
// @Success      200        {object}  map[string]any
// @Failure      400        {object}  map[string]any
// @Router       /api/analytics [get]
func (h *Dashboard) Analytics(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_get_analytics")

	analytics, err := h.s.Analytics(ctx, r.URL.Query().Get("timeframe"))
	if err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "failed to get analytics", err)
		return
	}
	writeSuccess(w, r, h.l, http.StatusOK, analytics)
}

// Finance godoc
// @Summary      Financial overview
// @Description  Revenue figures derived from the KPIs and the analytics series
// @Tags         Dashboard
// @Produce      json
// @Param        timeframe  query     string  false  "week, month or year"
// @Success      200        {object}  map[string]any
// @Router       /api/finance [get]
func (h *Dashboard) Finance(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_get_finance")

	summary, err := h.s.Finance(ctx, r.URL.Query().Get("timeframe"))
	if err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "failed to get finance summary", err)
		return
	}
	writeSuccess(w, r, h.l, http.StatusOK, summary)
}
