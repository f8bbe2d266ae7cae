// Package phone normalises free-text phone input into the North American
// display form used by the form, e.g. "+1 (555) 123-4567".
package phone

import (
	"regexp"
	"strings"
)

var (
	nonDigit     = regexp.MustCompile(`\D`)
	northAmerica = regexp.MustCompile(`^(1)?(\d{3})(\d{3})(\d{4})$`)
	displayForm  = regexp.MustCompile(`^(\+1 )?\(\d{3}\) \d{3}-\d{4}$`)
)

// Digits strips every non-digit character from raw.
func Digits(raw string) string {
	return nonDigit.ReplaceAllString(raw, "")
}

// FormatPhone renders raw as "(AAA) BBB-CCCC", prefixed with "+1 " when a
// leading country code 1 was present. Input whose digits are not ten digits,
// optionally preceded by 1, yields fallback unchanged.
func FormatPhone(raw, fallback string) string {
	match := northAmerica.FindStringSubmatch(Digits(raw))
	if match == nil {
		return fallback
	}

	var b strings.Builder
	if match[1] != "" {
		b.WriteString("+1 ")
	}
	b.WriteString("(")
	b.WriteString(match[2])
	b.WriteString(") ")
	b.WriteString(match[3])
	b.WriteString("-")
	b.WriteString(match[4])
	return b.String()
}

// IsFormatted reports whether s is already in display form.
func IsFormatted(s string) bool {
	return displayForm.MatchString(s)
}
