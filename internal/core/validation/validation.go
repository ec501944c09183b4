// Package validation wraps go-playground/validator with the field messages
// shown on SmartRide forms.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field (its json name) to a human-readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fe[k])
	}
	return strings.Join(msgs, "; ")
}

// labels gives the display name used in messages for a json field name.
var labels = map[string]string{
	"name":           "Name",
	"email":          "Email",
	"phone":          "Phone number",
	"password":       "Password",
	"newPassword":    "Password",
	"role":           "Role",
	"vehicleModel":   "Car model",
	"licensePlate":   "License plate",
	"capacity":       "Vehicle capacity",
	"source":         "Source",
	"destination":    "Destination",
	"date":           "Date",
	"time":           "Time",
	"availableSeats": "Available seats",
	"price":          "Price",
	"seats":          "Seats",
	"otp":            "OTP",
}

// Validator validates form structs.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the SmartRide custom tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return len(Digits(fl.Field().String())) == 10
	})
	_ = v.RegisterValidation("otp6", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(s) == 6 && len(Digits(s)) == 6
	})
	return &Validator{v: v}
}

// Struct validates i and returns FieldErrors on failure.
func (val *Validator) Struct(i any) error {
	err := val.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := make(FieldErrors, len(ve))
	for _, fe := range ve {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = fieldError(fe)
	}
	return out
}

// Validate satisfies the echo.Validator interface.
func (val *Validator) Validate(i any) error {
	return val.Struct(i)
}

// Email checks a single address the way the email forms do.
func (val *Validator) Email(email string) string {
	if strings.TrimSpace(email) == "" {
		return "Email is required"
	}
	if err := val.v.Var(email, "email"); err != nil {
		return "Please enter a valid email"
	}
	return ""
}

// Digits strips everything but decimal digits.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	if field == "" {
		return field
	}
	r := []rune(field)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// fieldError converts a single FieldError into the message shown next to the
// field.
func fieldError(fe validator.FieldError) string {
	field := label(fe.Field())
	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "email":
		return field + " is invalid"
	case "phone10":
		return field + " must be 10 digits"
	case "otp6":
		return "Please enter complete OTP"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
