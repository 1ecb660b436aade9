package dto

import (
	"strings"

	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/validator"
)

type ReplyRequest struct {
	Message string `json:"message" validate:"required,max=5000"`
}

func ValidateReply(v *validator.Validator, req *ReplyRequest) {
	req.Message = strings.TrimSpace(req.Message)
	v.Struct(req)
}

func ValidateTicketStatus(v *validator.Validator, req *StatusRequest) {
	v.Struct(req)
	v.Check(req.Status == "" || types.TicketStatus(req.Status).Valid(), "status", "must be one of open, pending, in_progress, resolved, closed")
}
