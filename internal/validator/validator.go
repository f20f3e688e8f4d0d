// Package validator provides request validation using go-playground/validator.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"anime-aggregator/internal/domain"
)

// Validator wraps the go-playground validator with the service's custom tags.
type Validator struct {
	v *validator.Validate
}

// ValidationError describes one rejected field.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Message
	}

	return strings.Join(msgs, "; ")
}

// New creates a Validator. Field names in errors follow the query or json
// tag, and the media_list_status tag accepts any MediaListStatus
// case-insensitively.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"query", "json", "params"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	_ = v.RegisterValidation("media_list_status", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseMediaListStatus(fl.Field().String())
		return err == nil
	})

	return &Validator{v: v}
}

// Validate checks i and returns ValidationErrors when a rule fails.
func (v *Validator) Validate(i any) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   e.Field(),
			Tag:     e.Tag(),
			Value:   fmt.Sprintf("%v", e.Value()),
			Message: message(e),
		})
	}

	return errs
}

func message(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "media_list_status":
		return fmt.Sprintf("%s must be one of: %s", field, statusList())
	default:
		return fmt.Sprintf("%s failed %s validation", field, e.Tag())
	}
}

func statusList() string {
	names := make([]string, len(domain.MediaListStatuses))
	for i, s := range domain.MediaListStatuses {
		names[i] = string(s)
	}

	return strings.Join(names, " ")
}
