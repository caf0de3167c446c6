// Package validation checks request payloads and aggregates failures per field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/ideapool/internal/common"
	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

// Errors maps a JSON field name to its validation messages.
// It matches common.ErrValidation under errors.Is.
type Errors map[string][]string

// Add appends msg to field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], " "))
	}
	return fmt.Sprintf("%s: %s", common.ErrValidation, strings.Join(parts, "; "))
}

func (e Errors) Unwrap() error { return common.ErrValidation }

// Validator wraps a go-playground validator configured with JSON field names
// and the password rule.
type Validator struct {
	v *validator.Validate
}

// New returns a ready Validator.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	return &Validator{v: v}
}

// Struct validates s and returns Errors when any rule fails.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}

	out := Errors{}
	for _, fe := range ves {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

// IsStrongPassword reports whether p has at least MinPasswordLength
// characters including a digit, a lowercase and an uppercase letter.
func IsStrongPassword(p string) bool {
	if len([]rune(p)) < MinPasswordLength {
		return false
	}
	var digit, lower, upper bool
	for _, r := range p {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	return digit && lower && upper
}

func message(fe validator.FieldError) string {
	numeric := false
	switch fe.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		numeric = true
	}

	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "password":
		return fmt.Sprintf("Password must be at least %d characters and contain a digit, a lowercase and an uppercase letter.", MinPasswordLength)
	case "min", "gte":
		if numeric {
			return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
		}
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max", "lte":
		if numeric {
			return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
		}
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}
