package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-personform/pkg/model"
)

// Rule checks value (the field being validated) against the whole values
// snapshot and returns a message when the rule is violated, or "" when it
// holds.
type Rule func(value string, values model.FormValues) string

var (
	syntaxOnce     sync.Once
	syntaxValidate *validator.Validate
)

func syntaxValidator() *validator.Validate {
	syntaxOnce.Do(func() {
		syntaxValidate = validator.New(validator.WithRequiredStructEnabled())
	})
	return syntaxValidate
}

// Required fails on the empty string.
func Required(msg string) Rule {
	return func(value string, _ model.FormValues) string {
		if value == "" {
			return msg
		}
		return ""
	}
}

// RequiredWhen fails on the empty string while the boolean field at gate is
// true. Any other state of gate leaves the value unconstrained.
func RequiredWhen(gate, msg string) Rule {
	return func(value string, values model.FormValues) string {
		current, err := values.Get(gate)
		if err != nil {
			return ""
		}
		if checked, _ := current.(bool); checked && value == "" {
			return msg
		}
		return ""
	}
}

// MinLength fails when a non-empty value has fewer than n characters.
func MinLength(n int, msg string) Rule {
	return func(value string, _ model.FormValues) string {
		if value != "" && utf8.RuneCountInString(value) < n {
			return msg
		}
		return ""
	}
}

// MaxLength fails when value has more than n characters.
func MaxLength(n int, msg string) Rule {
	return func(value string, _ model.FormValues) string {
		if utf8.RuneCountInString(value) > n {
			return msg
		}
		return ""
	}
}

// Email fails when a non-empty value is not an email address.
func Email(msg string) Rule {
	return func(value string, _ model.FormValues) string {
		if value == "" {
			return ""
		}
		if err := syntaxValidator().Var(value, "email"); err != nil {
			return msg
		}
		return ""
	}
}

// Matches fails when a non-empty value does not contain a match for re.
func Matches(re *regexp.Regexp, msg string) Rule {
	return func(value string, _ model.FormValues) string {
		if value != "" && !re.MatchString(value) {
			return msg
		}
		return ""
	}
}

// Equals fails when a non-empty value differs from want.
func Equals(want, msg string) Rule {
	return func(value string, _ model.FormValues) string {
		if value != "" && value != want {
			return msg
		}
		return ""
	}
}

// PositiveInteger accepts the empty string as "not provided" and otherwise
// requires a whole number greater than zero.
func PositiveInteger(messages AgeMessages) Rule {
	return func(value string, _ model.FormValues) string {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return ""
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return messages.NotNumber
		}
		if n <= 0 {
			return messages.NotPositive
		}
		if n != math.Trunc(n) {
			return messages.NotInteger
		}
		return ""
	}
}

// Optional runs rules only when value is non-empty.
func Optional(rules ...Rule) Rule {
	return func(value string, values model.FormValues) string {
		if value == "" {
			return ""
		}
		for _, rule := range rules {
			if msg := rule(value, values); msg != "" {
				return msg
			}
		}
		return ""
	}
}
