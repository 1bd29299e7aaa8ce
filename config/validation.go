package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/m-manu/rfind/fmte"
)

var validate = validator.New()

// Validate checks the configuration against its struct tags
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError reports every failed rule with its field path
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}
	errs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		errs = append(errs, fmt.Errorf("%s: validation failed on '%s' tag (value: %v)", e.Namespace(), e.Tag(), e.Value()))
	}
	return fmte.Errors("invalid configuration", errs)
}
