package validation

import "github.com/goliatone/go-personform/pkg/model"

// Issue is a single reported problem in Result.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result wraps a validation pass for CLI and HTTP output.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Check validates values with s and reports the outcome with issues sorted by
// field path.
func (s *Schema) Check(values model.FormValues) Result {
	return resultFrom(s.Validate(values))
}

// Check runs the default schema.
func Check(values model.FormValues) Result {
	return defaultSchema.Check(values)
}

func resultFrom(errs model.ValidationErrors) Result {
	result := Result{Valid: errs.Len() == 0}
	for _, fe := range errs.Errors() {
		result.Issues = append(result.Issues, Issue{Field: fe.Path, Message: fe.Message})
	}
	return result
}
