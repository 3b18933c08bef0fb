package bind

import (
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/neomdavid/IAX-ROLEX-backend/pkg/apperr"
)

// assignForm sets every field of dest whose json name appears in values.
// Pointer fields are allocated only when their key is present, which keeps
// "absent" and "empty" apart for partial updates.
func assignForm(values url.Values, dest interface{}) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return apperr.Unexpected(errNotStructPtr)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := formName(sf)
		if name == "" {
			continue
		}
		raw, ok := values[name]
		if !ok || len(raw) == 0 {
			continue
		}

		fv := rv.Field(i)
		if fv.Kind() == reflect.Ptr {
			fv.Set(reflect.New(fv.Type().Elem()))
			fv = fv.Elem()
		}
		if err := setScalar(fv, strings.TrimSpace(raw[0])); err != nil {
			return fieldError(name, err)
		}
	}
	return nil
}

func formName(sf reflect.StructField) string {
	tag := sf.Tag.Get("form")
	if tag == "" {
		tag = sf.Tag.Get("json")
	}
	if tag == "-" {
		return ""
	}
	if idx := strings.Index(tag, ","); idx != -1 {
		tag = tag[:idx]
	}
	if tag == "" {
		return sf.Name
	}
	return tag
}

func setScalar(v reflect.Value, raw string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, v.Type().Bits())
		if err != nil {
			return errNotNumber
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, v.Type().Bits())
		if err != nil {
			return errNotNumber
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, v.Type().Bits())
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return errNotNumber
		}
		v.SetFloat(f)
	default:
		return errUnsupported
	}
	return nil
}
