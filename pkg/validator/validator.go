package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"rawwealthy.backend/pkg/crypto"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)
	fullNamePattern = regexp.MustCompile(`^[a-zA-Z\s]*$`)
)

// Violation is a single failed rule on a field
type Violation struct {
	Field   string
	Message string
}

// Enum is implemented by closed string enumerations
type Enum interface {
	IsValid() bool
}

func IsEmail(s string) bool    { return emailPattern.MatchString(s) }
func IsPhone(s string) bool    { return phonePattern.MatchString(s) }
func IsFullName(s string) bool { return fullNamePattern.MatchString(s) }

// Validator wraps a go-playground validator with the custom rules registered
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the custom tags: emailaddr, phone, fullname, password and enum
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "emailaddr", func(fl validator.FieldLevel) bool { return IsEmail(fl.Field().String()) })
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool { return IsPhone(fl.Field().String()) })
	mustRegister(v, "fullname", func(fl validator.FieldLevel) bool { return IsFullName(fl.Field().String()) })
	mustRegister(v, "password", func(fl validator.FieldLevel) bool { return crypto.IsStrongPassword(fl.Field().String()) })
	mustRegister(v, "enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(Enum)
		return ok && e.IsValid()
	})
	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validator: register %s: %v", tag, err))
	}
}

// Struct validates s and returns every violation, in field order
func (v *Validator) Struct(s interface{}) []Violation {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Violation{{Field: "body", Message: err.Error()}}
	}

	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fieldPath(fe)
		if fe.Tag() == "password" {
			for _, msg := range crypto.PasswordViolations(fmt.Sprint(fe.Value())) {
				violations = append(violations, Violation{Field: field, Message: msg})
			}
			continue
		}
		violations = append(violations, Violation{Field: field, Message: message(fe)})
	}
	return violations
}

// fieldPath drops the root struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "emailaddr":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "fullname":
		return "can only contain letters and spaces"
	case "enum":
		return fmt.Sprintf("%v is not a supported value", fe.Value())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("cannot exceed %s characters", fe.Param())
		}
		return "cannot exceed " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "cannot exceed " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "numeric":
		return "must contain only digits"
	}
	return "failed " + fe.Tag() + " validation"
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
)

// Default returns the shared validator instance
func Default() *Validator {
	defaultOnce.Do(func() { defaultValidator = New() })
	return defaultValidator
}

// Struct validates s with the shared validator
func Struct(s interface{}) []Violation {
	return Default().Struct(s)
}
