package validation

import (
	"regexp"

	"github.com/goliatone/go-personform/pkg/model"
)

// DefaultPasswordSentinel is the literal the demo password rule expects.
const DefaultPasswordSentinel = "isFooBar7331"

var latinLetter = regexp.MustCompile(`[a-zA-Z]`)

// Messages holds every user-facing validation message.
type Messages struct {
	Required           string
	TooShort           string
	TooLong            string
	InvalidEmail       string
	PasswordMissing    string
	PasswordTooShort   string
	PasswordNoLetter   string
	PasswordSentinel   string
	ConditionalMissing string
	Age                AgeMessages
}

// AgeMessages holds the messages used by PositiveInteger.
type AgeMessages struct {
	NotNumber   string
	NotPositive string
	NotInteger  string
}

// DefaultMessages returns the messages shown by the original form.
func DefaultMessages() Messages {
	return Messages{
		Required:           "Required",
		TooShort:           "Too Short!",
		TooLong:            "Too Long!",
		InvalidEmail:       "Invalid email",
		PasswordMissing:    "No password provided.",
		PasswordTooShort:   "Password is too short - should be 8 chars minimum.",
		PasswordNoLetter:   "Password can only contain Latin letters.",
		PasswordSentinel:   `password is not "fooBar7331"`,
		ConditionalMissing: "Required if checkbox is selected",
		Age: AgeMessages{
			NotNumber:   "age must be a number",
			NotPositive: "age must be a positive number",
			NotInteger:  "age must be an integer",
		},
	}
}

// FieldRules binds an ordered rule list to a field path.
type FieldRules struct {
	Path  string
	Rules []Rule
}

// Schema is the ordered rule set applied to FormValues.
type Schema struct {
	fields []FieldRules
}

type schemaConfig struct {
	messages        Messages
	sentinel        string
	requireSentinel bool
	passwordRules   []Rule
}

// Option customises NewSchema.
type Option func(*schemaConfig)

// WithPasswordSentinel requires the password to equal sentinel.
func WithPasswordSentinel(sentinel string) Option {
	return func(cfg *schemaConfig) {
		cfg.sentinel = sentinel
		cfg.requireSentinel = sentinel != ""
	}
}

// WithoutPasswordSentinel drops the sentinel equality rule.
func WithoutPasswordSentinel() Option {
	return func(cfg *schemaConfig) {
		cfg.requireSentinel = false
	}
}

// WithPasswordRules appends extra password rules after the built-in ones.
func WithPasswordRules(rules ...Rule) Option {
	return func(cfg *schemaConfig) {
		for _, rule := range rules {
			if rule != nil {
				cfg.passwordRules = append(cfg.passwordRules, rule)
			}
		}
	}
}

// WithMessages overrides the user-facing messages.
func WithMessages(messages Messages) Option {
	return func(cfg *schemaConfig) {
		cfg.messages = messages
	}
}

// NewSchema builds the personal-information rule set. The sentinel rule is
// enabled unless WithoutPasswordSentinel is supplied.
func NewSchema(options ...Option) *Schema {
	cfg := schemaConfig{
		messages:        DefaultMessages(),
		sentinel:        DefaultPasswordSentinel,
		requireSentinel: true,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	msg := cfg.messages

	password := []Rule{
		Required(msg.PasswordMissing),
		MinLength(8, msg.PasswordTooShort),
		Matches(latinLetter, msg.PasswordNoLetter),
	}
	if cfg.requireSentinel {
		password = append(password, Equals(cfg.sentinel, msg.PasswordSentinel))
	}
	password = append(password, cfg.passwordRules...)

	return &Schema{
		fields: []FieldRules{
			{Path: model.PathFirstName, Rules: nameRules(msg, true)},
			{Path: model.PathMiddleName, Rules: nameRules(msg, false)},
			{Path: model.PathLastName, Rules: nameRules(msg, true)},
			{Path: model.PathEmail, Rules: []Rule{
				Required(msg.Required),
				Email(msg.InvalidEmail),
			}},
			{Path: model.PathPassword, Rules: password},
			{Path: model.PathAge, Rules: []Rule{PositiveInteger(msg.Age)}},
			{Path: model.PathOptionalInput, Rules: []Rule{
				RequiredWhen(model.PathOptionalCheck, msg.ConditionalMissing),
			}},
		},
	}
}

func nameRules(msg Messages, required bool) []Rule {
	length := []Rule{MinLength(2, msg.TooShort), MaxLength(50, msg.TooLong)}
	if !required {
		return []Rule{Optional(length...)}
	}
	return append([]Rule{Required(msg.Required)}, length...)
}

// Validate evaluates every field and keeps the first violated rule per field.
// The result never carries entries for valid fields.
func (s *Schema) Validate(values model.FormValues) model.ValidationErrors {
	errs := make(model.ValidationErrors)
	if s == nil {
		return errs
	}
	for _, field := range s.fields {
		value := values.Text(field.Path)
		for _, rule := range field.Rules {
			if msg := rule(value, values); msg != "" {
				errs[field.Path] = msg
				break
			}
		}
	}
	return errs
}

// ValidateAll evaluates every rule of every field and collects every message.
func (s *Schema) ValidateAll(values model.FormValues) map[string][]string {
	out := make(map[string][]string)
	if s == nil {
		return out
	}
	for _, field := range s.fields {
		value := values.Text(field.Path)
		for _, rule := range field.Rules {
			if msg := rule(value, values); msg != "" {
				out[field.Path] = append(out[field.Path], msg)
			}
		}
	}
	return out
}

// ValidateField returns the first message for a single path, or "".
func (s *Schema) ValidateField(path string, values model.FormValues) string {
	if s == nil {
		return ""
	}
	for _, field := range s.fields {
		if field.Path != path {
			continue
		}
		value := values.Text(path)
		for _, rule := range field.Rules {
			if msg := rule(value, values); msg != "" {
				return msg
			}
		}
	}
	return ""
}

var defaultSchema = NewSchema()

// Validate runs the default schema, sentinel rule included.
func Validate(values model.FormValues) model.ValidationErrors {
	return defaultSchema.Validate(values)
}
