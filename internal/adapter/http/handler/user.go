package handler

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/Temutjin2k/qglide-admin/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/qglide-admin/pkg/validator"
)

type Users struct {
	s        UserService
	pageSize int
	l        logger.Logger
}

func NewUsers(s UserService, pageSize int, l logger.Logger) *Users {
	return &Users{
		s:        s,
		pageSize: pageSize,
		l:        l,
	}
}

// ListUsers godoc
// @Summary      List users
// @Tags         Users
// @Produce      json
// @Param        search      query     string  false  "free text"
// @Param        status      query     string  false  "user status, all for any"
// @Param        min_rating  query     string  false  "minimum rating, any for none"
// @Param        page        query     int     false  "page"
// @Param        page_size   query     int     false  "page size"
// @Success      200         {object}  map[string]any
// @Router       /api/users [get]
func (h *Users) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_list_users")

	v := validator.New()
	qs := r.URL.Query()
	page := readPagination(qs, h.pageSize, v)
	filters := readFilters(qs, "search", "status", "min_rating")
	if rating, ok := filters["min_rating"]; ok && !types.IsSentinel(rating) {
		f, err := strconv.ParseFloat(rating, 64)
		v.Check(err == nil && !math.IsNaN(f) && !math.IsInf(f, 0), "min_rating", "must be a number or any")
	}
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	res, err := h.s.Users(ctx, filters, page)
	if err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "failed to list users", err)
		return
	}
	writeSuccess(w, r, h.l, http.StatusOK, res)
}

// GetUser godoc
// @Summary      User details
// @Tags         Users
// @Produce      json
// @Param        id   path      string  true  "user id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/users/{id} [get]
func (h *Users) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithEntityID(wrap.WithAction(r.Context(), "admin_get_user"), r.PathValue("id"))

	user, err := h.s.User(ctx, r.PathValue("id"))
	if err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "failed to get user", err)
		return
	}
	writeSuccess(w, r, h.l, http.StatusOK, user)
}

// CreateUser godoc
// @Summary      Create a user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request  body      dto.UserRequest  true  "user"
// @Success      201      {object}  map[string]any
// @Failure      422      {object}  map[string]any
// @Router       /api/users [post]
func (h *Users) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_create_user")

	req := &dto.UserRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateCreateUser(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	data, err := h.s.CreateUser(ctx, req.ToModel())
	if err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "failed to create user", err)
		return
	}
	writeSuccess(w, r, h.l, http.StatusCreated, data)
}

// UpdateUser godoc
// @Summary      Update a user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id       path      string           true  "user id"
// @Param        request  body      dto.UserRequest  true  "changed fields"
// @Success      200      {object}  map[string]any
// @Router       /api/users/{id} [put]
func (h *Users) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithEntityID(wrap.WithAction(r.Context(), "admin_update_user"), r.PathValue("id"))

	req := &dto.UserRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateUpdateUser(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	data, err := h.s.UpdateUser(ctx, r.PathValue("id"), req.ToModel())
	if err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "failed to update user", err)
		return
	}
	writeSuccess(w, r, h.l, http.StatusOK, data)
}

// DeleteUser godoc
// @Summary      Delete a user
// @Tags         Users
// @Produce      json
// @Param        id   path      string  true  "user id"
// @Success      200  {object}  map[string]any
// @Router       /api/users/{id} [delete]
func (h *Users) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithEntityID(wrap.WithAction(r.Context(), "admin_delete_user"), r.PathValue("id"))

	data, err := h.s.DeleteUser(ctx, r.PathValue("id"))
	if err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "failed to delete user", err)
		return
	}
	writeSuccess(w, r, h.l, http.StatusOK, data)
}

// SetUserStatus godoc
// @Summary      Change a user's status
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id       path      string             true  "user id"
// @Param        request  body      dto.StatusRequest  true  "new status"
// @Success      200      {object}  map[string]any
// @Router       /api/users/{id}/status [post]
func (h *Users) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithEntityID(wrap.WithAction(r.Context(), "admin_set_user_status"), r.PathValue("id"))

	req := &dto.StatusRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateUserStatus(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	data, err := h.s.SetUserStatus(ctx, r.PathValue("id"), req.Status)
	if err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "failed to change user status", err)
		return
	}
	writeSuccess(w, r, h.l, http.StatusOK, data)
}

// ExportUsers godoc
// @Summary      Export users as CSV
// @Tags         Users
// @Produce      text/csv
// @Param        status  query  string  false  "user status, all for everyone"
// @Success      200     {file}  file
// @Router       /api/users/export.csv [get]
func (h *Users) ExportUsers(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_export_users")

	status := readString(r.URL.Query(), "status", "all")
	body, err := h.s.ExportUsers(ctx, status)
	if err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "failed to export users", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="users-%s.csv"`, status))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.l.Warn(ctx, "failed to write export", "error", err)
	}
}
