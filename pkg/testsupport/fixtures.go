package testsupport

import (
	"fmt"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/goliatone/go-personform/pkg/model"
)

// ValidValues returns a snapshot that passes the default schema, sentinel
// password included. Tests mutate a copy to exercise one rule at a time.
func ValidValues() model.FormValues {
	return model.FormValues{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "isFooBar7331",
		Phone:     "(555) 123-4567",
		Age:       "36",
	}
}

// LoadValues decodes a JSON or YAML fixture (chosen by extension) into
// FormValues, returning an error for callers managing setup outside of
// *testing.T.
func LoadValues(path string) (model.FormValues, error) {
	values, err := model.LoadValues(path)
	if err != nil {
		return model.FormValues{}, fmt.Errorf("testsupport: %w", err)
	}
	return values, nil
}

// MustLoadValues loads a fixture and fails the test on error.
func MustLoadValues(t *testing.T, path string) model.FormValues {
	t.Helper()

	values, err := LoadValues(path)
	if err != nil {
		t.Fatalf("load values: %v", err)
	}
	return values
}

// Fixture resolves name inside this package's testdata directory so other
// packages can share the same payloads.
func Fixture(name string) string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return filepath.Join("testdata", name)
	}
	return filepath.Join(filepath.Dir(file), "testdata", name)
}
