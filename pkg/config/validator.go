package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vidinfra/tenbyte-userdata/pkg/catalog"
	"github.com/vidinfra/tenbyte-userdata/pkg/errdefs"
)

// Validator performs structural validation of records.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the catalog tag registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json field names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// catalog=<category> accepts only values listed in that catalog category.
	_ = v.RegisterValidation("catalog", func(fl validator.FieldLevel) bool {
		return catalog.Contains(catalog.Category(fl.Param()), fl.Field().String())
	})

	return &Validator{validate: v}
}

// Validate checks r and returns a contract error describing the first
// offending field.
func (v *Validator) Validate(r Record) error {
	err := v.validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errdefs.NewContractError("record validation failed", err).
			WithCode(errdefs.ErrCodeValidation)
	}

	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "catalog":
		msg = fmt.Sprintf("%q is not a known %s option (valid: %s)",
			fe.Value(), fe.Param(), strings.Join(catalog.Values(catalog.Category(fe.Param())), ", "))
		return errdefs.NewContractError(msg, nil).
			WithCode(errdefs.ErrCodeUnknownOption).
			WithField(fe.Field())
	case "required":
		msg = fmt.Sprintf("%s is required", fe.Field())
	default:
		msg = fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}

	return errdefs.NewContractError(msg, nil).
		WithCode(errdefs.ErrCodeValidation).
		WithField(fe.Field())
}
