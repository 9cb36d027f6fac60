package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	fullNameRe = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	digitsRe   = regexp.MustCompile(`^[0-9]+$`)
	hasDigitRe = regexp.MustCompile(`[0-9]`)
)

// IsFullName allows letters and spaces only.
func IsFullName(fl validator.FieldLevel) bool {
	return fullNameRe.MatchString(fl.Field().String())
}

// IsDigits allows numeric digits only.
func IsDigits(fl validator.FieldLevel) bool {
	return digitsRe.MatchString(fl.Field().String())
}

// HasDigit requires at least one numeric digit.
func HasDigit(fl validator.FieldLevel) bool {
	return hasDigitRe.MatchString(fl.Field().String())
}

// Register wires the custom rules and the form/json tag name lookup into a
// validator engine. main passes gin's binding engine here.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	if err := v.RegisterValidation("fullname", IsFullName); err != nil {
		return err
	}
	if err := v.RegisterValidation("digits", IsDigits); err != nil {
		return err
	}
	return v.RegisterValidation("hasdigit", HasDigit)
}

// FieldError is one violated rule, keyed by the wire-level field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Collect turns a binding error into the full list of violated fields.
// Non-validation errors (malformed JSON, broken multipart) collapse into a
// single generic entry.
func Collect(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: "malformed request body"}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		switch fe.Tag() {
		case "required":
			return "Name is required"
		case "fullname":
			return "Name must contain only alphabets"
		default:
			return "Name must be at least 3 characters"
		}
	case "email":
		if fe.Tag() == "required" {
			return "Email is required"
		}
		return "Invalid email format"
	case "phone":
		switch fe.Tag() {
		case "required":
			return "Phone is required"
		case "digits":
			return "Phone must contain only digits"
		default:
			return "Phone must be 10-15 digits"
		}
	case "password":
		switch fe.Tag() {
		case "required":
			return "Password is required"
		case "hasdigit":
			return "Password must have at least one number"
		default:
			return "Password must be at least 6 characters"
		}
	case "address":
		return "Address must not exceed 150 characters"
	case "state":
		if fe.Tag() == "required" {
			return "State is required"
		}
		return "State cannot be empty"
	case "city":
		if fe.Tag() == "required" {
			return "City is required"
		}
		return "City cannot be empty"
	case "country":
		if fe.Tag() == "required" {
			return "Country is required"
		}
		return "Country cannot be empty"
	case "pincode":
		if fe.Tag() == "digits" {
			return "Pincode must contain only digits"
		}
		return "Pincode must be 4-10 digits"
	case "identifier":
		return "Email or phone is required"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
