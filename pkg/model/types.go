package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field paths addressing FormValues entries.
const (
	PathFirstName     = "firstName"
	PathMiddleName    = "middleName"
	PathLastName      = "lastName"
	PathEmail         = "email"
	PathPassword      = "password"
	PathPhone         = "phone"
	PathAge           = "age"
	PathOptional      = "optionalField"
	PathOptionalCheck = "optionalField.checked"
	PathOptionalInput = "optionalField.input"
)

// FormValues is the single mutable record collected by the form.
type FormValues struct {
	FirstName     string        `json:"firstName" yaml:"firstName"`
	MiddleName    string        `json:"middleName" yaml:"middleName"`
	LastName      string        `json:"lastName" yaml:"lastName"`
	Email         string        `json:"email" yaml:"email"`
	Password      string        `json:"password" yaml:"password"`
	Phone         string        `json:"phone" yaml:"phone"`
	Age           Age           `json:"age" yaml:"age"`
	OptionalField OptionalField `json:"optionalField" yaml:"optionalField"`
}

// OptionalField groups the checkbox and the input it makes required.
type OptionalField struct {
	Checked bool   `json:"checked" yaml:"checked"`
	Input   string `json:"input" yaml:"input"`
}

// Age keeps the raw age input. Payloads may carry it either as a JSON number
// or as a string; both decode into the textual form so validation sees what
// the user typed.
type Age string

// UnmarshalJSON accepts numbers, strings, and null.
func (a *Age) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("model: decode age: %w", err)
		}
		*a = Age(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("model: decode age: %w", FieldError{Path: PathAge, Message: "age must be a number"})
	}
	*a = Age(n.String())
	return nil
}

// UnmarshalYAML keeps the scalar text so `age: 3.5` stays "3.5" and is
// rejected by validation rather than silently truncated.
func (a *Age) UnmarshalYAML(node *yaml.Node) error {
	if node == nil || node.Tag == "!!null" {
		*a = ""
		return nil
	}
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("model: decode age: expected scalar, got kind %d", node.Kind)
	}
	*a = Age(node.Value)
	return nil
}

// String returns the raw age text.
func (a Age) String() string { return string(a) }

// Get resolves a dotted path into its current value. Text fields return a
// string, optionalField.checked returns a bool.
func (v FormValues) Get(path string) (any, error) {
	switch normalizePath(path) {
	case PathFirstName:
		return v.FirstName, nil
	case PathMiddleName:
		return v.MiddleName, nil
	case PathLastName:
		return v.LastName, nil
	case PathEmail:
		return v.Email, nil
	case PathPassword:
		return v.Password, nil
	case PathPhone:
		return v.Phone, nil
	case PathAge:
		return v.Age.String(), nil
	case PathOptionalCheck:
		return v.OptionalField.Checked, nil
	case PathOptionalInput:
		return v.OptionalField.Input, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
}

// Text returns the textual value stored at path. Boolean fields render as
// "true"/"false".
func (v FormValues) Text(path string) string {
	value, err := v.Get(path)
	if err != nil {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	default:
		return fmt.Sprint(typed)
	}
}

// Set writes value at path. Text fields accept strings (other values are
// formatted with fmt.Sprint); optionalField.checked accepts a bool or a
// string understood by strconv.ParseBool.
func (v *FormValues) Set(path string, value any) error {
	if v == nil {
		return fmt.Errorf("model: values are nil")
	}
	key := normalizePath(path)
	if key == PathOptionalCheck {
		checked, err := toBool(value)
		if err != nil {
			return fmt.Errorf("model: set %s: %w", key, err)
		}
		v.OptionalField.Checked = checked
		return nil
	}

	text := toText(value)
	switch key {
	case PathFirstName:
		v.FirstName = text
	case PathMiddleName:
		v.MiddleName = text
	case PathLastName:
		v.LastName = text
	case PathEmail:
		v.Email = text
	case PathPassword:
		v.Password = text
	case PathPhone:
		v.Phone = text
	case PathAge:
		v.Age = Age(text)
	case PathOptionalInput:
		v.OptionalField.Input = text
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
	return nil
}

// Paths lists every addressable leaf path in form order.
func Paths() []string {
	return []string{
		PathFirstName,
		PathMiddleName,
		PathLastName,
		PathEmail,
		PathPassword,
		PathPhone,
		PathAge,
		PathOptionalCheck,
		PathOptionalInput,
	}
}

func normalizePath(path string) string {
	return strings.Trim(strings.TrimSpace(path), ".")
}

func toText(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case Age:
		return string(typed)
	default:
		return fmt.Sprint(typed)
	}
}

func toBool(value any) (bool, error) {
	switch typed := value.(type) {
	case nil:
		return false, nil
	case bool:
		return typed, nil
	case string:
		if strings.TrimSpace(typed) == "" {
			return false, nil
		}
		return strconv.ParseBool(strings.TrimSpace(typed))
	default:
		return false, fmt.Errorf("expected bool, got %T", value)
	}
}
