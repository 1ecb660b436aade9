package handler

import (
	"net/http"

	"github.com/Temutjin2k/qglide-admin/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/qglide-admin/pkg/validator"
)

type Auth struct {
	auth AuthService
	l    logger.Logger
}

func NewAuth(service AuthService, l logger.Logger) *Auth {
	return &Auth{
		auth: service,
		l:    l,
	}
}

// Login godoc
// @Summary      Sign in
// @Description  Exchanges operator credentials for a session stored by the console
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      dto.LoginRequest  true  "credentials"
// @Success      200      {object}  map[string]any
// @Failure      401      {object}  map[string]any
// @Failure      422      {object}  map[string]any
// @Router       /api/auth/login [post]
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionLogin)

	req := &dto.LoginRequest{}
	if err := readJSON(w, r, req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err)
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateLogin(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	info, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "login failed", err)
		return
	}

	writeSuccess(w, r, h.l, http.StatusOK, info)
}

// Logout godoc
// @Summary      Sign out
// @Description  Revokes the session remotely when possible and always clears it locally
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/auth/logout [post]
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionLogout)

	if err := h.auth.Logout(ctx); err != nil {
		serviceErrorResponse(w, r.WithContext(ctx), h.l, "logout failed", err)
		return
	}
	writeSuccess(w, r, h.l, http.StatusOK, envelope{"logged_out": true})
}

// Me godoc
// @Summary      Current session
// @Description  Describes the stored session from its token claims
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/auth/me [get]
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	info, err := h.auth.Session(r.Context())
	if err != nil {
		serviceErrorResponse(w, r, h.l, "failed to read session", err)
		return
	}
	writeSuccess(w, r, h.l, http.StatusOK, info)
}
