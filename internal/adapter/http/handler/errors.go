package handler

import (
	"net/http"

	"github.com/Temutjin2k/qglide-admin/internal/adapter/qglide"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
)

func errorResponse(w http.ResponseWriter, status int, message any) {
	env := envelope{"success": false, "error": message}

	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// failedValidationResponse returns 422 with the per-field messages.
func failedValidationResponse(w http.ResponseWriter, errors map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, envelope{
		"success": false,
		"error":   "validation failed",
		"fields":  errors,
	}, nil)
}

func badRequestResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusBadRequest, message)
}

// serviceErrorResponse logs err with its context and answers with the
// mapped status and an operator-facing message.
func serviceErrorResponse(w http.ResponseWriter, r *http.Request, l logger.Logger, msg string, err error) {
	ctx := wrap.ErrorCtx(r.Context(), err)
	status := GetCode(err)
	if status >= http.StatusInternalServerError {
		l.Error(ctx, msg, err)
	} else {
		l.Warn(ctx, msg, "error", err, "status", status)
	}
	errorResponse(w, status, qglide.UserMessage(err))
}

func writeSuccess(w http.ResponseWriter, r *http.Request, l logger.Logger, status int, data any) {
	if err := successResponse(w, status, data); err != nil {
		l.Error(r.Context(), "failed to write response", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}
