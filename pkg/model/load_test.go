package model_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-personform/pkg/model"
	"github.com/goliatone/go-personform/pkg/testsupport"
)

func TestLoadValues_JSONAndYAML(t *testing.T) {
	valid, err := model.LoadValues(testsupport.Fixture("valid.json"))
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	want := model.FormValues{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "isFooBar7331",
		Phone:     "15551234567",
		Age:       "36",
		OptionalField: model.OptionalField{
			Checked: true,
			Input:   "analytical engine",
		},
	}
	if diff := cmp.Diff(want, valid); diff != "" {
		t.Fatalf("json values mismatch (-want +got):\n%s", diff)
	}

	invalid, err := model.LoadValues(testsupport.Fixture("invalid.yaml"))
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if invalid.Age != "3.5" || !invalid.OptionalField.Checked {
		t.Fatalf("unexpected yaml values %+v", invalid)
	}
}

func TestLoadValues_Errors(t *testing.T) {
	if _, err := model.LoadValues(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := model.LoadValues(testsupport.Fixture("missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := model.DecodeValues([]byte(`{"age": true}`), ".json"); err == nil {
		t.Fatalf("expected error for boolean age")
	}
}
