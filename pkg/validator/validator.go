// ==============================================================================
// VALIDATOR PACKAGE - pkg/validator/validator.go
// ==============================================================================
package validator

import (
	"fmt"
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"sepakit/pkg/bic"
	"sepakit/pkg/ccc"
	"sepakit/pkg/iban"
)

type Validator struct {
	validate *validator.Validate
	bics     *bic.Validator
	cccs     *ccc.Converter
}

func New() *Validator {
	v := &Validator{
		validate: validator.New(),
		bics:     bic.New(),
		cccs:     ccc.NewConverter(iban.New()),
	}
	v.validate.RegisterTagNameFunc(jsonFieldName)
	v.registerCustomValidations()
	return v
}

// ValidateStructured returns a map of field -> error message for API responses
func (v *Validator) ValidateStructured(i interface{}) map[string]string {
	errs := make(map[string]string)
	if err := v.validate.Struct(i); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrors {
				msg := fmt.Sprintf("failed validation on '%s'", e.Tag())
				switch e.Tag() {
				case "required":
					msg = "This field is required"
				case "max":
					msg = fmt.Sprintf("Must be at most %s characters", e.Param())
				case "bic":
					msg = "Invalid BIC"
				case "ccc":
					msg = "Invalid CCC account number"
				}
				errs[e.Field()] = msg
			}
		} else {
			errs["_global"] = err.Error()
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Var validates a single value against a tag, e.g. Var(s, "alphanum,max=16").
func (v *Validator) Var(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

func (v *Validator) registerCustomValidations() {
	_ = v.validate.RegisterValidation("bic", func(fl validator.FieldLevel) bool {
		return v.bics.IsValid(fl.Field().String())
	})
	// Format only; embedded check digits are checked by IsValidCCC.
	_ = v.validate.RegisterValidation("ccc", func(fl validator.FieldLevel) bool {
		_, err := v.cccs.ToIBAN(fl.Field().String())
		return err == nil
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// Sanitize cleans string input before it is echoed back
func Sanitize(input string) string {
	return html.EscapeString(strings.TrimSpace(input))
}
