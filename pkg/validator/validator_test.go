package validator

import "testing"

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Status   string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func TestStruct_ReportsJSONNames(t *testing.T) {
	v := New()
	v.Struct(loginRequest{Email: "nope", Password: "123", Status: "gone"})

	if v.Valid() {
		t.Fatalf("expected errors")
	}
	for _, key := range []string{"email", "password", "status"} {
		if _, ok := v.Errors[key]; !ok {
			t.Fatalf("missing error for %q: %v", key, v.Errors)
		}
	}
	if v.Errors["status"] != "must be one of active, inactive" {
		t.Fatalf("unexpected oneof message %q", v.Errors["status"])
	}
}

func TestStruct_Valid(t *testing.T) {
	v := New()
	v.Struct(loginRequest{Email: "a@b.com", Password: "secret123"})
	if !v.Valid() {
		t.Fatalf("unexpected errors %v", v.Errors)
	}
}

func TestCheck_KeepsFirstMessage(t *testing.T) {
	v := New()
	v.Check(false, "page", "first")
	v.Check(false, "page", "second")
	v.Check(true, "page_size", "never")

	if v.Errors["page"] != "first" || len(v.Errors) != 1 {
		t.Fatalf("unexpected errors %v", v.Errors)
	}
}

func TestHelpers(t *testing.T) {
	if !PermittedValue("week", "week", "month") || PermittedValue(3, 1, 2) {
		t.Fatalf("PermittedValue mismatch")
	}
}
