// Package validation decodes and checks submitted forms.
package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/ajg/form"
	"github.com/go-playground/validator/v10"

	internal_errors "github.com/klse-analytics/portal/shared/errors"
	"github.com/klse-analytics/portal/shared/logger"
)

const maxFormBytes = 64 << 10

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Messages name fields by their label tag, falling back to the form key.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
	})
	return v
}

// DecodeForm fills dst from the request's url-encoded body and validates it.
// String fields are trimmed unless tagged trim:"false". Errors are 400s
// with a message fit for a flash.
func DecodeForm(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.PostForm == nil {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		if err := r.ParseForm(); err != nil {
			logger.Log.Warn("failed to parse form", "path", r.URL.Path, "error", err)
			return internal_errors.BadRequest("Invalid form data.")
		}
	}

	d := form.NewDecoder(nil)
	d.IgnoreUnknownKeys(true)
	if err := d.DecodeValues(dst, r.PostForm); err != nil {
		logger.Log.Warn("failed to decode form", "path", r.URL.Path, "error", err)
		return internal_errors.BadRequest("Invalid form data.")
	}
	trimStrings(dst)

	return Struct(dst)
}

// Struct validates v and describes the first failing field.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return internal_errors.BadRequest("Invalid form data.")
	}
	return internal_errors.BadRequest(message(verrs[0]))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid.", fe.Field())
}

func trimStrings(dst any) {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()
	for i := 0; i < v.NumField(); i++ {
		// Secrets are sent as typed.
		if v.Type().Field(i).Tag.Get("trim") == "false" {
			continue
		}
		f := v.Field(i)
		if f.Kind() == reflect.String && f.CanSet() {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}
