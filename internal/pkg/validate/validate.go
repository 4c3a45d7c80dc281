package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. Custom tags are registered in
// init() before the first call to Struct or Var.
var v = validator.New()

func init() {
	_ = v.RegisterValidation("querykey", func(fl validator.FieldLevel) bool {
		return IsQueryKey(fl.Field().String())
	})
}

// IsQueryKey reports whether s may be used as a deep-link parameter key:
// non-empty and made only of ASCII letters, digits, '-', '.', '_' and '~'.
func IsQueryKey(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case c == '-', c == '.', c == '_', c == '~':
		default:
			return false
		}
	}
	return true
}

// Struct validates the given struct using its validate tags.
// Returns a human-readable error or nil.
func Struct(s interface{}) error {
	return humanize(v.Struct(s))
}

// Var validates a single value against tag.
func Var(field interface{}, tag string) error {
	return humanize(v.Var(field, tag))
}

func humanize(err error) error {
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var msgs []string
	for _, fe := range ve {
		name := fe.Namespace()
		if name == "" {
			name = "value"
		}
		msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", name, fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
