package render

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-personform/pkg/model"
)

// ErrorMapping splits an external error payload into field-level and
// form-level messages keyed by the dotted paths used by FormValues.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// FieldErrors keeps the first message per field, matching ValidationErrors.
func (m ErrorMapping) FieldErrors() model.ValidationErrors {
	out := make(model.ValidationErrors, len(m.Fields))
	for path, messages := range m.Fields {
		if len(messages) > 0 {
			out[path] = messages[0]
		}
	}
	return out
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload resolves payload keys written as JSON pointers
// ("/body/optionalField/input"), dotted paths ("data.email") or bracketed
// paths ("optionalField[input]") onto the fields of form. Keys that do not
// resolve become form-level messages so nothing is lost. Keys are visited in
// sorted order so the output is stable.
func MapErrorPayload(form model.FormModel, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		return mapping
	}

	keys := make([]string, 0, len(payload))
	for raw := range payload {
		keys = append(keys, raw)
	}
	sort.Strings(keys)

	known := knownPaths(form)
	for _, raw := range keys {
		messages := normalizeMessages(payload[raw])
		if len(messages) == 0 {
			continue
		}
		path, ok := resolvePath(raw, known)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields[path] = append(mapping.Fields[path], messages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func knownPaths(form model.FormModel) map[string]struct{} {
	known := make(map[string]struct{}, len(form.Fields)+1)
	for _, field := range form.Fields {
		path := strings.TrimSpace(field.Path)
		if path == "" {
			continue
		}
		known[path] = struct{}{}
		// parents of nested paths are addressable too
		for idx := strings.LastIndex(path, "."); idx > 0; idx = strings.LastIndex(path, ".") {
			path = path[:idx]
			known[path] = struct{}{}
		}
	}
	return known
}

func resolvePath(raw string, known map[string]struct{}) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	segments := splitSegments(raw)
	if len(segments) == 0 {
		return "", false
	}

	best := ""
	for _, candidate := range [][]string{segments, dropWrappers(segments)} {
		candidate = dropNumeric(candidate)
		for end := len(candidate); end > 0; end-- {
			path := strings.Join(candidate[:end], ".")
			if _, ok := known[path]; ok {
				if strings.Count(path, ".") >= strings.Count(best, ".") || best == "" {
					best = path
				}
				break
			}
		}
	}
	return best, best != ""
}

func splitSegments(raw string) []string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimLeft(clean, "#$./")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)

	parts := strings.FieldsFunc(clean, func(r rune) bool { return r == '.' || r == '/' })
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		out = append(out, part)
	}
	return out
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"values":     {},
	"attributes": {},
}

func dropWrappers(segments []string) []string {
	out := segments
	for len(out) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func dropNumeric(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
