// Package bind decodes and validates request payloads.
// It owns a process-wide validator with english translations so field
// errors come back readable instead of as raw tag soup
package bind

import (
	"encoding/json"
	"io"
	stdhttp "net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	perr "github.com/em3s/mungchi-sub001/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

const maxBodyBytes = 1 << 20 // 1 MiB

var (
	once     sync.Once
	validate *validator.Validate
	trans    ut.Translator
)

func v() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// report json tag names, not Go field names
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})

		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ = uni.GetTranslator("en")
		if err := entrans.RegisterDefaultTranslations(validate, trans); err != nil {
			panic(err)
		}
	})
	return validate
}

// Struct validates an already-populated struct against its binding tags
func Struct(s any) error {
	if err := v().Struct(s); err != nil {
		return toValidationError(err)
	}
	return nil
}

// JSON decodes the request body into T and validates it.
// Unknown fields are rejected; the body is capped at 1 MiB
func JSON[T any](r *stdhttp.Request) (T, error) {
	var out T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, perr.Wrap(err, perr.ErrorCodeJSON, "invalid json body")
	}
	if err := Struct(out); err != nil {
		return out, err
	}
	return out, nil
}

// Query populates T from URL query params via `form` tags and validates.
// Only string and int fields are supported, which covers what the API takes
func Query[T any](r *stdhttp.Request) (T, error) {
	var out T
	q := r.URL.Query()
	rv := reflect.ValueOf(&out).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		tag := strings.SplitN(rt.Field(i).Tag.Get("form"), ",", 2)[0]
		if tag == "" || tag == "-" {
			continue
		}
		raw := strings.TrimSpace(q.Get(tag))
		if raw == "" {
			continue
		}
		f := rv.Field(i)
		switch f.Kind() {
		case reflect.String:
			f.SetString(raw)
		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return out, perr.Validationf("%s must be an integer", tag)
			}
			f.SetInt(n)
		case reflect.Bool:
			f.SetBool(raw == "true" || raw == "1")
		}
	}
	if err := Struct(out); err != nil {
		return out, err
	}
	return out, nil
}

// toValidationError flattens validator output into a single field error.
// First failing field wins; the rest would say the same thing anyway
func toValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return perr.Wrap(err, perr.ErrorCodeValidation, "validation failed")
	}
	fe := verrs[0]
	return perr.WithField(perr.Validationf("%s", fe.Translate(trans)), fe.Field())
}
