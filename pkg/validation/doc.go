// Package validation turns a FormValues snapshot into field-level errors.
//
// Each field owns an ordered list of Rule functions. Schema.Validate runs
// every field and keeps the first violated rule per field, which is what the
// form displays. Schema.ValidateAll keeps every violated rule so callers can
// render a checklist of outstanding requirements instead of one message at a
// time.
//
// Rules are plain functions passed to the schema explicitly; nothing is
// registered globally. The password sentinel check is one such rule and can
// be replaced or removed through schema options.
package validation
