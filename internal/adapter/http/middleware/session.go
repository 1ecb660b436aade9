package middleware

import (
	"net/http"

	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
)

// RequireSession answers 401 until the operator has logged in.
func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := m.session.Get(ctx)
		if err != nil {
			m.log.Error(wrap.ErrorCtx(wrap.WithAction(ctx, "session_read"), err), "failed to read session", err)
			errorResponse(w, http.StatusInternalServerError, "internal error")
			return
		}
		if token == "" {
			errorResponse(w, http.StatusUnauthorized, types.ErrUnauthenticated.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
