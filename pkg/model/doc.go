// Package model defines the personal-information form values, the field
// descriptors front-ends walk to collect them, and the field-level error
// types produced by validation. Field paths use dot notation for nested
// values, so the conditional input is addressed as `optionalField.input`.
// FormValues is deliberately flat apart from OptionalField; Get and Set
// resolve dotted paths without reflection so callers can drive the form from
// prompts or request payloads keyed by path.
package model
