package services

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "lead-relay/errors"
	"lead-relay/utils"
)

// Accepted volume range, in м³
const (
	MinVolume = 0.1
	MaxVolume = 1000
)

// newValidator registers the lead-specific tags used on models.CallRequest and
// models.CalculationRequest and reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "ru_phone", func(fl validator.FieldLevel) bool {
		return utils.ValidatePhone(fl.Field().String()).IsValid
	})
	mustRegister(v, "material", func(fl validator.FieldLevel) bool {
		_, ok := utils.ValidateMaterial(fl.Field().String())
		return ok
	})
	mustRegister(v, "volume", func(fl validator.FieldLevel) bool {
		return utils.ValidateNumeric(fl.Field().String(), MinVolume, MaxVolume).IsValid
	})
	return v
}

// mustRegister panics when a tag cannot be registered, like template.Must.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// validationError turns the first failed rule into an Invalid application error.
func validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return apperrors.E(apperrors.Invalid, "invalid request", err)
	}

	fe := verrs[0]
	field := fe.Field()
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "max":
		msg = fmt.Sprintf("must be at most %s characters", fe.Param())
	case "ru_phone":
		msg = "invalid phone number"
	case "material":
		msg = "unknown material"
	case "volume":
		msg = fmt.Sprintf("must be between %g and %g", MinVolume, float64(MaxVolume))
	default:
		msg = "is invalid"
	}
	return apperrors.NewInvalidParamsError(field, msg)
}
