package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a request field (by its json name) to its violation messages.
type Errors map[string][]string

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// notblank rejects strings that are empty or whitespace-only
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}

	return v
}

// Struct validates s against its `validate` tags and returns field-level
// messages, or nil if the struct is valid. Per-field message overrides come
// from the `errmsg` tag, a semicolon-separated list of tag:message pairs,
// e.g. `errmsg:"required:Pin name is required;notblank:Not a valid pin name."`.
func Struct(s any) Errors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{"request": {"Invalid request payload."}}
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], message(t, fe))
	}
	return out
}

func message(t reflect.Type, fe validator.FieldError) string {
	if sf, ok := t.FieldByName(fe.StructField()); ok {
		if tag := sf.Tag.Get("errmsg"); tag != "" {
			for _, pair := range strings.Split(tag, ";") {
				k, v, found := strings.Cut(pair, ":")
				if found && k == fe.Tag() {
					return v
				}
			}
		}
	}

	switch fe.Tag() {
	case "required":
		return "Missing data for required field."
	case "notblank":
		return fmt.Sprintf("Not a valid %s.", fe.Field())
	case "len":
		return fmt.Sprintf("Length must be between %s and %s.", fe.Param(), fe.Param())
	case "min":
		return fmt.Sprintf("Shorter than minimum length %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Longer than maximum length %s.", fe.Param())
	default:
		return fmt.Sprintf("Not a valid %s.", fe.Field())
	}
}
