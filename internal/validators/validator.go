package validators

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/models"
)

var (
	validate *validator.Validate
	once     sync.Once

	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

func Get() *validator.Validate {
	once.Do(initValidator)
	return validate
}

func initValidator() {
	validate = validator.New()

	// Report fields by their json name so messages line up with form inputs.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	_ = validate.RegisterValidation("hh_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("hh_email", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	_ = validate.RegisterValidation("hh_location", func(fl validator.FieldLevel) bool {
		return models.IsLocation(fl.Field().String())
	})
	_ = validate.RegisterValidation("hh_category", func(fl validator.FieldLevel) bool {
		return models.IsServiceCategory(fl.Field().String())
	})
}

// Struct validates v and returns a *httperr.ValidationError listing every
// failing field, or nil.
func Struct(v any) error {
	err := Get().Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	return (&httperr.ValidationError{Fields: ParseErrors(err)}).OrNil()
}

func ParseErrors(err error) []httperr.FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []httperr.FieldError{{Field: "_", Code: "invalid", Message: "Unknown error"}}
	}

	out := make([]httperr.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		out = append(out, httperr.FieldError{
			Field:   e.Field(),
			Code:    e.Tag(),
			Message: prettyError(e),
		})
	}
	return out
}

func prettyError(e validator.FieldError) string {
	label := humanize(e.Field())

	switch e.Tag() {
	case "required":
		return label + " is required"
	case "min":
		if e.Type().Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, e.Param())
		}
		if e.Type().Kind() == reflect.Slice {
			return fmt.Sprintf("Select at least %s %s", e.Param(), strings.ToLower(label))
		}
		return fmt.Sprintf("%s must be at least %s", label, e.Param())
	case "max":
		if e.Type().Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", label, e.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", label, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", label, strings.ReplaceAll(e.Param(), " ", ", "))
	case "hh_phone":
		return "Invalid phone number (10 digits)"
	case "hh_email", "email":
		return "Invalid email address"
	case "hh_location":
		return "Please choose a location from the list"
	case "hh_category":
		return "Unknown service category"
	default:
		return e.Error()
	}
}

func humanize(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
