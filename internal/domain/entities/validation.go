package entities

import (
	domainerrors "rawwealthy.backend/internal/domain/errors"
	"rawwealthy.backend/pkg/validator"
)

// ValidateStruct runs the struct tag rules on s and collects every violation.
// The result is never nil so callers can keep adding cross-field checks.
func ValidateStruct(s interface{}) *domainerrors.ValidationError {
	verr := &domainerrors.ValidationError{}
	for _, v := range validator.Struct(s) {
		verr.Add(v.Field, v.Message)
	}
	return verr
}
