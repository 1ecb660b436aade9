package handler

import (
	"net/http"

	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/qglide-admin/pkg/validator"
)

type Rides struct {
	s        RideService
	pageSize int
	l        logger.Logger
}

func NewRides(s RideService, pageSize int, l logger.Logger) *Rides {
	return &Rides{
		s:        s,
		pageSize: pageSize,
		l:        l,
	}
}

// ListRides godoc
// @Summary      List rides
// @Tags         Rides
// @Produce      json
// @Param        status     query     string  false  "ride status, all for any"
// @Param        date       query     string  false  "YYYY-MM-DD"
// @Param        search     query     string  false  "free text"
// @Param        page       query     int     false  "page"
// @Param        page_size  query     int     false  "page size"
// @Success      200        {object}  map[string]any
// @Router       /api/rides [get]
func (h *Rides) ListRides(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_list_rides")

	v := validator.New()
	qs := r.URL.Query()
	page := readPagination(qs, h.pageSize, v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	res, err := h.s.Rides(ctx, readFilters(qs, "status", "date", "search"), page)
	if err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "failed to list rides", err)
		return
	}
	writeSuccess(w, r, h.l, http.StatusOK, res)
}

// GetRide godoc
// @Summary      Ride details
// @Tags         Rides
// @Produce      json
// @Param        id   path      string  true  "ride id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/rides/{id} [get]
func (h *Rides) GetRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithEntityID(wrap.WithAction(r.Context(), "admin_get_ride"), r.PathValue("id"))

	ride, err := h.s.Ride(ctx, r.PathValue("id"))
	if err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "failed to get ride", err)
		return
	}
	writeSuccess(w, r, h.l, http.StatusOK, ride)
}

// ListDrivers godoc
// @Summary      List drivers
// @Tags         Drivers
// @Produce      json
// @Param        search     query     string  false  "free text"
// @Param        status     query     string  false  "online, offline, busy or all"
// @Param        page       query     int     false  "page"
// @Param        page_size  query     int     false  "page size"
// @Success      200        {object}  map[string]any
// @Router       /api/drivers [get]
func (h *Rides) ListDrivers(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_list_drivers")

	v := validator.New()
	qs := r.URL.Query()
	page := readPagination(qs, h.pageSize, v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	res, err := h.s.Drivers(ctx, readFilters(qs, "search", "status"), page)
	if err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "failed to list drivers", err)
		return
	}
	writeSuccess(w, r, h.l, http.StatusOK, res)
}
