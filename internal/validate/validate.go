package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/ayush/bookshelf/internal/api"
)

var mobileRE = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

var v = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report errors by JSON field name, not Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobileRE.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("strongpw", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// strongPassword requires length >= 8 with at least one lowercase
// letter, one uppercase letter, and one digit.
func strongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// Struct runs the validate tags on req. A nil return means the request
// passed every check.
func Struct(req interface{}) []api.FieldError {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []api.FieldError{{Message: err.Error()}}
	}
	out := make([]api.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, api.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", capitalize(fe.Field()))
	case "email":
		return "Invalid email address"
	case "mobile":
		return "Invalid mobile phone number"
	case "strongpw":
		return "Password must be greater than 8 and contain at least one uppercase letter, one lowercase letter, and one number"
	default:
		return fmt.Sprintf("%s failed %s validation", capitalize(fe.Field()), fe.Tag())
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
