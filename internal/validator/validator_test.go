package validator_test

import (
	"testing"

	pv "github.com/go-playground/validator/v10"

	"visitordesk/api/v1/request"
	"visitordesk/internal/validator"
)

func newEngine(t *testing.T) *pv.Validate {
	t.Helper()
	v := pv.New()
	v.SetTagName("binding")
	if err := validator.Register(v); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return v
}

func validRegister() request.RegisterRequest {
	return request.RegisterRequest{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Phone:    "9876543210",
		Password: "secret1",
		State:    "Nevada",
		City:     "Reno",
		Country:  "USA",
		Pincode:  "89501",
	}
}

func fieldMessages(err error) map[string]string {
	out := map[string]string{}
	for _, fe := range validator.Collect(err) {
		out[fe.Field] = fe.Message
	}
	return out
}

func TestValidRegisterPasses(t *testing.T) {
	v := newEngine(t)
	if err := v.Struct(validRegister()); err != nil {
		t.Fatalf("valid registration rejected: %v", err)
	}
}

func TestPasswordWithoutDigitRejected(t *testing.T) {
	v := newEngine(t)
	req := validRegister()
	req.Password = "abcdef"
	err := v.Struct(req)
	if err == nil {
		t.Fatal("password without a digit should fail")
	}
	msgs := fieldMessages(err)
	if msgs["password"] != "Password must have at least one number" {
		t.Errorf("unexpected password message: %q", msgs["password"])
	}
}

func TestAllViolationsCollected(t *testing.T) {
	v := newEngine(t)
	req := request.RegisterRequest{
		Name:     "J1",           // too short and non-alphabetic
		Email:    "not-an-email", // bad format
		Phone:    "12ab",         // short and non-numeric
		Password: "short",        // short and no digit
		Pincode:  "1",            // too short
	}
	err := v.Struct(req)
	if err == nil {
		t.Fatal("invalid registration should fail")
	}
	msgs := fieldMessages(err)
	for _, field := range []string{"name", "email", "phone", "password", "state", "city", "country", "pincode"} {
		if _, ok := msgs[field]; !ok {
			t.Errorf("expected a violation for field %q, got %v", field, msgs)
		}
	}
}

func TestUpdateOptionalFields(t *testing.T) {
	v := newEngine(t)

	// Nothing set: nothing to validate.
	if err := v.Struct(request.UpdateUserRequest{}); err != nil {
		t.Fatalf("empty update rejected: %v", err)
	}

	city := "Reno"
	if err := v.Struct(request.UpdateUserRequest{City: &city}); err != nil {
		t.Fatalf("single-field update rejected: %v", err)
	}

	// Present but empty required-nonempty field.
	empty := ""
	err := v.Struct(request.UpdateUserRequest{State: &empty})
	if err == nil {
		t.Fatal("empty state should fail when present")
	}
	if got := fieldMessages(err)["state"]; got != "State cannot be empty" {
		t.Errorf("unexpected state message: %q", got)
	}

	// Present fields obey the registration rules.
	badPhone := "12ab"
	err = v.Struct(request.UpdateUserRequest{Phone: &badPhone})
	if err == nil {
		t.Fatal("bad phone should fail when present")
	}
}

func TestCollectNonValidationError(t *testing.T) {
	errs := validator.Collect(assertError("boom"))
	if len(errs) != 1 || errs[0].Field != "body" {
		t.Errorf("unexpected collection for non-validation error: %v", errs)
	}
}

type assertError string

func (e assertError) Error() string { return string(e) }
