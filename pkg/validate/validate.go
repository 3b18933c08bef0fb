// Package validate provides struct-tag validation for request types.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required      field must be present and not zero/empty
//	nullable      if empty, skip the remaining rules for this field
//	email         valid email address
//	objectid      24 hex characters (a MongoDB ObjectID)
//	min=N         string: min char length | number: min value
//	max=N         string: max char length | number: max value
//	gt=N          number > N
//	gte=N         number >= N
//	in=a,b,c      value must be one of the listed items
//
// Pointer fields are optional by nature: a nil pointer only fails
// `required`, a non-nil pointer is validated through its element. This is
// what partial-update types rely on.
//
//	type WatchUpdate struct {
//	    Name  *string  `json:"name"  validate:"min=1,max=120"`
//	    Price *float64 `json:"price" validate:"gt=0"`
//	}
package validate

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		value := rv.Field(i)

		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		name := jsonFieldName(field)
		rules := splitRules(tag)

		if value.Kind() == reflect.Ptr {
			if value.IsNil() {
				if hasRule(rules, "required") {
					errs[name] = requiredMsg(name)
				}
				continue
			}
			value = value.Elem()
		}

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := applyRule(rule, name, value); msg != "" {
				errs[name] = msg
				break // first failing rule per field
			}
		}
	}

	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// IsObjectID reports whether s looks like a hex ObjectID.
func IsObjectID(s string) bool { return objectIDRE.MatchString(s) }

func requiredMsg(field string) string { return "Please provide " + field }

func applyRule(rule, field string, v reflect.Value) string {
	raw := fmt.Sprintf("%v", v.Interface())
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "min", "max", "gt", "gte":
		if isNumericKind(v) && !finite(v) {
			return fmt.Sprintf("%s must be a number", field)
		}
	}

	switch key {
	case "required":
		if isEmpty(v) {
			return requiredMsg(field)
		}
	case "email":
		if !emailRE.MatchString(raw) {
			return "Please provide a valid email"
		}
	case "objectid":
		if !objectIDRE.MatchString(raw) {
			return fmt.Sprintf("%s must be a valid id", field)
		}
	case "min":
		n := mustParseFloat(param)
		if isNumericKind(v) {
			if toFloat(v) < n {
				return fmt.Sprintf("%s must be at least %s", field, param)
			}
		} else if float64(len([]rune(strings.TrimSpace(raw)))) < n {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
	case "max":
		n := mustParseFloat(param)
		if isNumericKind(v) {
			if toFloat(v) > n {
				return fmt.Sprintf("%s must not be greater than %s", field, param)
			}
		} else if float64(len([]rune(raw))) > n {
			return fmt.Sprintf("%s must not exceed %s characters", field, param)
		}
	case "gt":
		if toFloat(v) <= mustParseFloat(param) {
			return fmt.Sprintf("%s must be greater than %s", field, param)
		}
	case "gte":
		if toFloat(v) < mustParseFloat(param) {
			return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
		}
	case "in":
		for _, a := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(a) {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s", field, param)
	}

	return ""
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

var (
	emailRE    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	objectIDRE = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
)

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false // false is a valid boolean value, not empty
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	f, _ := strconv.ParseFloat(fmt.Sprintf("%v", v.Interface()), 64)
	return f
}

func finite(v reflect.Value) bool {
	f := toFloat(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func mustParseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

// splitRules splits the tag by comma while keeping the in= list intact.
// "required,in=user,admin,max=10" → ["required","in=user,admin","max=10"]
func splitRules(tag string) []string {
	var rules []string
	var current strings.Builder
	inList := false

	for i := 0; i < len(tag); i++ {
		ch := tag[i]
		if ch != ',' {
			current.WriteByte(ch)
			if !inList && current.String() == "in=" {
				inList = true
			}
			continue
		}
		if inList && !looksLikeNewRule(tag[i+1:]) {
			current.WriteByte(ch)
			continue
		}
		rules = append(rules, current.String())
		current.Reset()
		inList = false
	}
	if current.Len() > 0 {
		rules = append(rules, current.String())
	}
	return rules
}

func looksLikeNewRule(s string) bool {
	for _, k := range []string{"required", "nullable", "email", "objectid", "min=", "max=", "gt=", "gte=", "in="} {
		if strings.HasPrefix(s, k) {
			return true
		}
	}
	return false
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}
