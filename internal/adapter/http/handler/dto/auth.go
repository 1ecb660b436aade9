package dto

import (
	"strings"

	"github.com/Temutjin2k/qglide-admin/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=500"`
	Password string `json:"password" validate:"required,max=200"`
}

func ValidateLogin(v *validator.Validator, req *LoginRequest) {
	req.Email = strings.TrimSpace(req.Email)
	v.Struct(req)
}
