package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/theAriful7/storefront/core"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

var httpURLPattern = regexp.MustCompile(`^https?://.+$`)

// Validator returns the shared validator with the form rules registered:
//
//	numgte=N  the string is blank or a number >= N
//	httpurl   the string is blank or starts with http:// or https://
//
// Field errors are keyed by the `form` tag.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			switch name {
			case "-":
				return ""
			case "":
				return fld.Name
			}
			return name
		})
		// Registration only fails for an empty tag or a nil func.
		_ = v.RegisterValidation("numgte", numGTE)
		_ = v.RegisterValidation("httpurl", httpURL)
		validate = v
	})
	return validate
}

func numGTE(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	if raw == "" {
		return true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return false
	}
	min, err := strconv.ParseFloat(fl.Param(), 64)
	if err != nil {
		return false
	}
	return v >= min
}

func httpURL(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	return raw == "" || httpURLPattern.MatchString(raw)
}

// ValidationError lists the invalid fields of a submitted form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid fields: %s", strings.Join(names, ", "))
}

// Unwrap lets callers match core.ErrValidation.
func (e *ValidationError) Unwrap() error {
	return core.ErrValidation
}

// fieldErrors validates v and maps each failing field to a message.
func fieldErrors(v interface{}) map[string]string {
	out := map[string]string{}
	err := Validator().Struct(v)
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "numgte":
		return fmt.Sprintf("Must be a number no less than %s", fe.Param())
	case "httpurl":
		return "Must start with http:// or https://"
	}
	return "Invalid value"
}
