package validate_test

import (
	"math"
	"testing"

	"github.com/neomdavid/IAX-ROLEX-backend/pkg/validate"
)

type registerInput struct {
	Name     string `json:"name"     validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"nullable,in=user,admin"`
}

type watchPatch struct {
	Name  *string  `json:"name"  validate:"min=1,max=120"`
	Price *float64 `json:"price" validate:"gt=0"`
	Stock *int     `json:"stock" validate:"gte=0"`
}

func ptr[T any](v T) *T { return &v }

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:     "john",
		Email:    "john@example.com",
		Password: "secret123",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	for _, field := range []string{"name", "email", "password"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
	if errs["name"] != "Please provide name" {
		t.Errorf("unexpected message: %q", errs["name"])
	}
	if _, ok := errs["role"]; ok {
		t.Error("nullable role should be skipped when empty")
	}
}

func TestEmailAndMin(t *testing.T) {
	errs := validate.Struct(registerInput{Name: "jo", Email: "not-an-email", Password: "123"})
	if errs["email"] != "Please provide a valid email" {
		t.Errorf("email: got %q", errs["email"])
	}
	if errs["name"] != "name must be at least 3 characters" {
		t.Errorf("name: got %q", errs["name"])
	}
	if _, ok := errs["password"]; !ok {
		t.Error("expected password min error")
	}
}

func TestInRule(t *testing.T) {
	if errs := validate.Struct(registerInput{Name: "john", Email: "j@x.io", Password: "secret1", Role: "root"}); errs["role"] == "" {
		t.Error("expected role outside the list to fail")
	}
	if errs := validate.Struct(registerInput{Name: "john", Email: "j@x.io", Password: "secret1", Role: "admin"}); validate.HasErrors(errs) {
		t.Errorf("admin should be accepted, got %v", errs)
	}
}

func TestPointerFields(t *testing.T) {
	if errs := validate.Struct(watchPatch{}); validate.HasErrors(errs) {
		t.Errorf("nil pointers are absent and must pass, got %v", errs)
	}

	errs := validate.Struct(watchPatch{Name: ptr(""), Price: ptr(0.0), Stock: ptr(-1)})
	for _, field := range []string{"name", "price", "stock"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to fail, got %v", field, errs)
		}
	}

	if errs := validate.Struct(watchPatch{Name: ptr("Submariner"), Price: ptr(9100.0), Stock: ptr(0)}); validate.HasErrors(errs) {
		t.Errorf("expected valid patch, got %v", errs)
	}
}

func TestNonFiniteNumbers(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		errs := validate.Struct(watchPatch{Price: ptr(f)})
		if errs["price"] != "price must be a number" {
			t.Errorf("expected %v to be rejected, got %v", f, errs)
		}
	}
}

func TestIsObjectID(t *testing.T) {
	if !validate.IsObjectID("65f1c2a9e4b0a1b2c3d4e5f6") {
		t.Error("expected valid object id")
	}
	if validate.IsObjectID("42") {
		t.Error("short id must be rejected")
	}
}
