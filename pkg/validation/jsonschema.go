package validation

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/goliatone/go-personform/pkg/model"
)

const schemaID = "https://github.com/goliatone/go-personform/form-values.json"

// JSONSchema describes FormValues as a Draft 2020-12 document carrying the
// same constraints the rule set enforces, including the conditional
// requirement on optionalField.input. The sentinel rule is expressed as a
// const when enabled.
func JSONSchema(sentinel string) *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference:             true,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  false,
	}
	s := r.Reflect(new(model.FormValues))
	s.ID = schemaID
	s.Title = "Personal information"
	s.Required = []string{model.PathFirstName, model.PathLastName, model.PathEmail, model.PathPassword}

	applyName(s, model.PathFirstName, true)
	applyName(s, model.PathMiddleName, false)
	applyName(s, model.PathLastName, true)

	if email := property(s, model.PathEmail); email != nil {
		email.Format = "email"
		email.MinLength = uintPtr(1)
	}
	if password := property(s, model.PathPassword); password != nil {
		password.MinLength = uintPtr(8)
		password.Pattern = "[a-zA-Z]"
		if sentinel != "" {
			password.Const = sentinel
		}
	}
	if age := property(s, model.PathAge); age != nil {
		*age = jsonschema.Schema{
			AnyOf: []*jsonschema.Schema{
				{Type: "string", Pattern: `^([1-9][0-9]*)?$`},
				{Type: "integer", Minimum: json.Number("1")},
				{Type: "null"},
			},
		}
	}
	if optional := property(s, model.PathOptional); optional != nil {
		checked := jsonschema.NewProperties()
		checked.Set("checked", &jsonschema.Schema{Const: true})
		input := jsonschema.NewProperties()
		input.Set("input", &jsonschema.Schema{Type: "string", MinLength: uintPtr(1)})

		optional.If = &jsonschema.Schema{Properties: checked, Required: []string{"checked"}}
		optional.Then = &jsonschema.Schema{Properties: input, Required: []string{"input"}}
	}
	return s
}

// MarshalJSONSchema renders JSONSchema as indented JSON.
func MarshalJSONSchema(sentinel string) ([]byte, error) {
	out, err := json.MarshalIndent(JSONSchema(sentinel), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("validation: marshal json schema: %w", err)
	}
	return out, nil
}

func applyName(s *jsonschema.Schema, name string, required bool) {
	prop := property(s, name)
	if prop == nil {
		return
	}
	prop.MaxLength = uintPtr(50)
	if required {
		prop.MinLength = uintPtr(2)
		return
	}
	// empty means "not provided"
	prop.Pattern = `^(.{2,})?$`
}

func property(s *jsonschema.Schema, name string) *jsonschema.Schema {
	if s == nil || s.Properties == nil {
		return nil
	}
	prop, ok := s.Properties.Get(name)
	if !ok {
		return nil
	}
	return prop
}

func uintPtr(v uint64) *uint64 { return &v }
