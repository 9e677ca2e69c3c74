package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/iho/ledger/internal/domain"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
	errValidate  error
)

func initValidator() (*validator.Validate, error) {
	vld := validator.New(validator.WithRequiredStructEnabled())

	// The field is read directly; registering a type func for decimal.Decimal
	// that returns the same type makes the validator loop.
	if err := vld.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(decimal.Decimal)
		if !ok {
			return false
		}
		return domain.ValidateAmount(value) == nil
	}); err != nil {
		return nil, fmt.Errorf("failed to register 'money': %w", err)
	}

	vld.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return vld, nil
}

// Validate checks the validate tags of payload. Failures wrap
// domain.ErrValidation and name the first offending field.
func Validate(payload any) error {
	validateOnce.Do(func() {
		validate, errValidate = initValidator()
	})
	if errValidate != nil {
		return errValidate
	}

	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		return formatFieldError(fieldErrors[0])
	}

	return fmt.Errorf("%w: %w", domain.ErrValidation, err)
}

// Decode reads a JSON body into dst and validates it. Unknown fields are
// rejected.
func Decode(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %s", domain.ErrValidation, err.Error())
	}

	return Validate(dst)
}

func formatFieldError(fe validator.FieldError) error {
	// Drop the struct name: "CreateTransactionRequest.entries[0].amount".
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: '%s' is required", domain.ErrValidation, field)
	case "uuid":
		return fmt.Errorf("%w: '%s' must be a valid UUID", domain.ErrValidation, field)
	case "oneof":
		return fmt.Errorf("%w: '%s' must be one of [%s]", domain.ErrValidation, field, fe.Param())
	case "money":
		return fmt.Errorf("%w: '%s' must be between %s and %s",
			domain.ErrInvalidAmount, field, domain.MinEntryAmount, domain.MaxEntryAmount)
	case "min", "max":
		return fmt.Errorf("%w: '%s' must have %s %s characters", domain.ErrValidation, field, fe.Tag(), fe.Param())
	default:
		return fmt.Errorf("%w: '%s' failed '%s'", domain.ErrValidation, field, fe.Tag())
	}
}
