// Package validation evaluates ordered rule sets against decoded JSON bodies.
//
// A RuleSet is a list of rules applied in order; the first failing rule
// decides the single error returned to the client. Most checks are
// validator tags applied to the field's string value, so the rules of each
// resource read as a table.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/thefavrs/backend/internal/errs"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	slugRegex  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	uuidRegex  = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

// isoLayouts are the ISO-8601 shapes accepted for client timestamps.
// Fractional seconds are accepted after any seconds field.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// validate is safe for concurrent use.
var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	mustRegister(v, "site_email", func(fl validator.FieldLevel) bool {
		return emailRegex.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	mustRegister(v, "slug", func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	})
	mustRegister(v, "token_uuid", func(fl validator.FieldLevel) bool {
		return uuidRegex.MatchString(fl.Field().String())
	})
	mustRegister(v, "iso8601", func(fl validator.FieldLevel) bool {
		_, ok := ParseTimestamp(fl.Field().String())
		return ok
	})
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// ParseTimestamp parses an ISO-8601 date or date-time.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Fields is a decoded JSON object body.
type Fields map[string]any

// String returns the field as a string, or "" when absent or not a string.
func (f Fields) String(key string) string {
	s, _ := f[key].(string)
	return s
}

// Object returns the field as a JSON object, or nil.
func (f Fields) Object(key string) map[string]any {
	m, _ := f[key].(map[string]any)
	return m
}

// Check reports whether a field value passes.
type Check func(v any) bool

// Rule is one ordered check on one field.
type Rule struct {
	Field   string
	Code    string
	Message string
	// Optional rules are skipped when the key is absent from the body.
	Optional bool
	Check    Check
}

// RuleSet is evaluated in order; the first failure wins.
type RuleSet []Rule

// Validate returns the 400 error of the first failing rule, or nil.
func (rs RuleSet) Validate(f Fields) *errs.Error {
	for _, r := range rs {
		v, present := f[r.Field]
		if !present && r.Optional {
			continue
		}
		if !r.Check(v) {
			return errs.BadRequest(r.Code, r.Message)
		}
	}
	return nil
}

// Tag passes when the value is a string satisfying the validator tag.
func Tag(tag string) Check {
	return func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		return validate.Var(s, tag) == nil
	}
}

// Value checks a single string against a validator tag.
func Value(s, tag string) bool {
	return validate.Var(s, tag) == nil
}

// NotBlank passes for strings with non-whitespace content.
func NotBlank() Check {
	return Tag("notblank")
}

// NonEmptyString passes for any string except "".
func NonEmptyString() Check {
	return Tag("required")
}

// Blank passes for null, a whitespace-only string, or any other falsy JSON value.
func Blank() Check {
	return func(v any) bool {
		switch x := v.(type) {
		case nil:
			return true
		case string:
			return strings.TrimSpace(x) == ""
		case bool:
			return !x
		case float64:
			return x == 0
		default:
			return false
		}
	}
}

// StringOrFalsy passes for strings and for falsy non-string values
// (null, false, 0), which are treated as "not provided".
func StringOrFalsy() Check {
	return func(v any) bool {
		if _, ok := v.(string); ok {
			return true
		}
		return Blank()(v)
	}
}

// MaxLenIfString passes for non-strings and for strings of at most n characters.
func MaxLenIfString(n int) Check {
	return func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return true
		}
		return validate.Var(s, "max="+strconv.Itoa(n)) == nil
	}
}

// IsObject passes for JSON objects (not arrays, not null).
func IsObject() Check {
	return func(v any) bool {
		_, ok := v.(map[string]any)
		return ok
	}
}
