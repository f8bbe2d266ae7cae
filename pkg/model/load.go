package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeValues parses data as YAML when ext is ".yaml" or ".yml" and as JSON
// otherwise.
func DecodeValues(data []byte, ext string) (FormValues, error) {
	var out FormValues
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &out)
	default:
		err = json.Unmarshal(data, &out)
	}
	if err != nil {
		return FormValues{}, fmt.Errorf("model: decode values: %w", err)
	}
	return out, nil
}

// LoadValues reads a JSON or YAML values file, choosing the decoder by
// extension.
func LoadValues(path string) (FormValues, error) {
	if path == "" {
		return FormValues{}, errors.New("model: values path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return FormValues{}, fmt.Errorf("model: read values: %w", err)
	}
	return DecodeValues(data, filepath.Ext(path))
}
