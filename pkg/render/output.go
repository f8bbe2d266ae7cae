package render

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-personform/pkg/model"
)

// OutputFormat controls how a values snapshot is serialised.
type OutputFormat string

const (
	// OutputFormatJSON emits indented application/json.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded
	// with dotted keys.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one `path=value` line per field.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat validates a user supplied format name.
func ParseOutputFormat(raw string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", OutputFormatJSON:
		return OutputFormatJSON, nil
	case OutputFormatFormURLEncoded:
		return OutputFormatFormURLEncoded, nil
	case OutputFormatPrettyText:
		return OutputFormatPrettyText, nil
	default:
		return "", fmt.Errorf("render: unknown output format %q", raw)
	}
}

// ContentType reports the media type produced by Serialize.
func (f OutputFormat) ContentType() string {
	switch f {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Serialize renders values in format. Field order follows model.Paths so
// text output is stable.
func Serialize(values model.FormValues, format OutputFormat) ([]byte, error) {
	switch format {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for _, path := range model.Paths() {
			form.Set(path, values.Text(path))
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, path := range model.Paths() {
			fmt.Fprintf(&b, "%s=%s\n", path, values.Text(path))
		}
		return []byte(b.String()), nil
	case OutputFormatJSON, "":
		out, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("render: encode json: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("render: unknown output format %q", format)
	}
}
