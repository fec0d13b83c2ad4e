package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"zenflow/internal/clock"

	"github.com/go-playground/validator/v10"
)

// Validator checks struct tags and reports failures as a ValidationError keyed by JSON field name
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the zenflow-specific rules registered
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// day accepts a YYYY-MM-DD calendar day
	_ = v.RegisterValidation("day", func(fl validator.FieldLevel) bool {
		_, err := clock.ParseDay(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

// Struct validates s and returns a *ValidationError, or nil when s is valid
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		ve := NewValidationError()
		ve.AddInvalidValueError("input", s, err.Error())
		return ve
	}

	ve := NewValidationError()
	for _, fe := range fieldErrs {
		addFieldError(ve, fe)
	}
	return ve
}

func addFieldError(ve *ValidationError, fe validator.FieldError) {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		ve.AddRequiredError(field)
	case "max", "min", "len":
		if fe.Kind() == reflect.String {
			n, _ := strconv.Atoi(fe.Param())
			if fe.Tag() == "max" {
				ve.AddInvalidLengthError(field, fe.Value(), 0, n)
			} else {
				ve.AddInvalidLengthError(field, fe.Value(), n, 0)
			}
			return
		}
		ve.AddInvalidRangeError(field, fe.Value(), fe.Tag()+" "+fe.Param())
	case "gte", "gt", "lte", "lt":
		ve.AddInvalidRangeError(field, fe.Value(), "must be "+fe.Tag()+" "+fe.Param())
	case "oneof":
		ve.AddInvalidValueError(field, fe.Value(), "must be one of "+fe.Param())
	case "day":
		ve.AddInvalidFormatError(field, fe.Value(), clock.DayLayout)
	case "datetime":
		ve.AddInvalidFormatError(field, fe.Value(), "HH:MM")
	case "hexcolor":
		ve.AddInvalidFormatError(field, fe.Value(), "#rrggbb")
	default:
		ve.AddInvalidValueError(field, fe.Value(), "failed "+fe.Tag())
	}
}

// fieldPath drops the struct name from the namespace, e.g. TaskInput.tags[0] becomes tags[0]
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
