package model

// FieldType is the simplified enum for prompt-friendly field kinds.
type FieldType string

const (
	FieldTypeString   FieldType = "string"
	FieldTypeEmail    FieldType = "email"
	FieldTypePassword FieldType = "password"
	FieldTypePhone    FieldType = "phone"
	FieldTypeInteger  FieldType = "integer"
	FieldTypeBoolean  FieldType = "boolean"
)

// Field describes a single input. Front-ends walk FormModel.Fields in order.
type Field struct {
	Path     string    `json:"path"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Help     string    `json:"help,omitempty"`
	// VisibleWhen names a boolean field that must be true for this field to
	// be shown. Empty means always visible.
	VisibleWhen string `json:"visibleWhen,omitempty"`
	// FormatOnBlur marks fields whose value is normalised when the user
	// leaves them.
	FormatOnBlur bool `json:"formatOnBlur,omitempty"`
}

// DisplayLabel appends the required marker the way the web form did.
func (f Field) DisplayLabel() string {
	label := f.Label
	if label == "" {
		label = f.Path
	}
	if f.Required {
		return label + " *"
	}
	return label
}

// Visible reports whether the field should be presented for values.
func (f Field) Visible(values FormValues) bool {
	if f.VisibleWhen == "" {
		return true
	}
	gate, err := values.Get(f.VisibleWhen)
	if err != nil {
		return false
	}
	checked, _ := gate.(bool)
	return checked
}

// FormModel is the ordered field list for the personal-information form.
type FormModel struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Field returns the descriptor for path.
func (m FormModel) Field(path string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Path == path {
			return f, true
		}
	}
	return Field{}, false
}

// VisibleFields filters Fields down to the ones shown for values.
func (m FormModel) VisibleFields(values FormValues) []Field {
	out := make([]Field, 0, len(m.Fields))
	for _, f := range m.Fields {
		if f.Visible(values) {
			out = append(out, f)
		}
	}
	return out
}

// DefaultForm mirrors the layout of the original personal-information form.
func DefaultForm() FormModel {
	return FormModel{
		Title: "Personal information",
		Fields: []Field{
			{Path: PathFirstName, Label: "First Name", Type: FieldTypeString, Required: true},
			{Path: PathMiddleName, Label: "Middle Name", Type: FieldTypeString},
			{Path: PathLastName, Label: "Last Name", Type: FieldTypeString, Required: true},
			{Path: PathEmail, Label: "Email", Type: FieldTypeEmail, Required: true},
			{
				Path:     PathPassword,
				Label:    "Password",
				Type:     FieldTypePassword,
				Required: true,
				Help:     "should be 8 chars minimum",
			},
			{
				Path:         PathPhone,
				Label:        "Phone Number",
				Type:         FieldTypePhone,
				Help:         "Type: String (formatted when you leave the field)",
				FormatOnBlur: true,
			},
			{Path: PathAge, Label: "Age", Type: FieldTypeInteger, Help: "Type: Number"},
			{Path: PathOptionalCheck, Label: "Add Required Field", Type: FieldTypeBoolean},
			{
				Path:        PathOptionalInput,
				Label:       "Conditionally Required Field",
				Type:        FieldTypeString,
				Required:    true,
				VisibleWhen: PathOptionalCheck,
			},
		},
	}
}
