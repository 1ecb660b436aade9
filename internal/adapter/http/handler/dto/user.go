package dto

import (
	"strings"

	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/validator"
)

// UserRequest is the body of create and update. On update every field is
// optional and only sent fields change.
type UserRequest struct {
	Name     string `json:"full_name" validate:"omitempty,max=200"`
	Email    string `json:"email" validate:"omitempty,email,max=500"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Role     string `json:"role" validate:"omitempty,oneof=passenger driver admin support"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive suspended banned"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
}

func (r *UserRequest) ToModel() models.UserInput {
	return models.UserInput{
		Name:     strings.TrimSpace(r.Name),
		Email:    strings.TrimSpace(r.Email),
		Phone:    strings.TrimSpace(r.Phone),
		Role:     r.Role,
		Status:   r.Status,
		Password: r.Password,
	}
}

func ValidateCreateUser(v *validator.Validator, req *UserRequest) {
	v.Struct(req)
	v.Check(strings.TrimSpace(req.Name) != "", "full_name", "must be provided")
	v.Check(strings.TrimSpace(req.Email) != "", "email", "must be provided")
	v.Check(req.Password != "", "password", "must be provided")
}

func ValidateUpdateUser(v *validator.Validator, req *UserRequest) {
	v.Struct(req)
	v.Check(*req != UserRequest{}, "body", "must change at least one field")
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func ValidateUserStatus(v *validator.Validator, req *StatusRequest) {
	v.Struct(req)
	v.Check(req.Status == "" || types.UserStatus(req.Status).Valid(), "status", "must be one of active, inactive, suspended, banned")
}
