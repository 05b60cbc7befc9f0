package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"storefront/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

type BannerValidator struct {
	validate *validator.Validate
}

func NewBannerValidator() *BannerValidator {
	return &BannerValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (v *BannerValidator) Validate(b *model.Banner) error {
	if err := v.validate.Struct(b); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if err := v.validateBusinessRules(b); err != nil {
		return err
	}

	return nil
}

// FilterImageURLs keeps the urls a client can actually load, in order.
func (v *BannerValidator) FilterImageURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if v.validate.Var(u, "required,http_url") == nil {
			out = append(out, u)
		}
	}
	return out
}

func (v *BannerValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message(err),
		})
	}

	return validationErrors
}

func message(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		if err.Kind().String() == "slice" {
			return fmt.Sprintf("must contain at least %s item(s)", err.Param())
		}
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		if err.Kind().String() == "slice" {
			return fmt.Sprintf("must contain at most %s item(s)", err.Param())
		}
		return fmt.Sprintf("must be at most %s", err.Param())
	case "http_url":
		return "must be an http or https url"
	default:
		return fmt.Sprintf("failed on %s", err.Tag())
	}
}

func (v *BannerValidator) validateBusinessRules(b *model.Banner) error {
	if b.LinkURL != "" && !strings.HasPrefix(b.LinkURL, "/") && v.validate.Var(b.LinkURL, "http_url") != nil {
		return ValidationErrors{{Field: "LinkURL", Message: "must be an app route or an http or https url"}}
	}
	return nil
}
