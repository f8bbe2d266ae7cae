package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-personform/pkg/model"
	"github.com/goliatone/go-personform/pkg/render"
	"github.com/goliatone/go-personform/pkg/submit"
	"github.com/goliatone/go-personform/pkg/testsupport"
)

type stubDriver struct {
	inputs         []string
	passwords      []string
	confirm        []bool
	acceptDefaults bool
	infoMessages   []string
	prompts        []string
	inputPos       int
	passPos        int
	confirmPos     int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		if s.acceptDefaults {
			return cfg.Default, nil
		}
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) sawMessage(substr string) bool {
	for _, msg := range s.infoMessages {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func quietSubmitter(notifier submit.Notifier) *submit.Submitter {
	return submit.New(
		submit.WithDelay(0),
		submit.WithLogger(slog.New(slog.DiscardHandler)),
		submit.WithNotifier(notifier),
		submit.WithIDGenerator(func() string { return "sub-test" }),
	)
}

func newTestRenderer(t *testing.T, driver PromptDriver, notifier submit.Notifier) render.Renderer {
	t.Helper()
	r, err := New(
		WithPromptDriver(driver),
		WithSubmitter(quietSubmitter(notifier)),
		WithLogger(slog.New(slog.DiscardHandler)),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestRender_CollectsValidatesAndSubmits(t *testing.T) {
	driver := &stubDriver{
		// firstName is re-prompted after "A" fails the length rule.
		inputs:    []string{"A", "Ada", "", "Lovelace", "ada@example.com", "5551234567", "36", "extra"},
		passwords: []string{"isFooBar7331"},
		confirm:   []bool{true, true},
	}
	var notified bytes.Buffer
	r := newTestRenderer(t, driver, submit.NewConsoleNotifier(&notified))

	out, err := r.Render(context.Background(), model.DefaultForm(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got model.FormValues
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := model.FormValues{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "isFooBar7331",
		Phone:     "(555) 123-4567",
		Age:       "36",
		OptionalField: model.OptionalField{
			Checked: true,
			Input:   "extra",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}

	if !driver.sawMessage("Invalid First Name: Too Short!") {
		t.Fatalf("expected validation feedback, got %v", driver.infoMessages)
	}
	if !driver.sawMessage("Phone Number: (555) 123-4567") {
		t.Fatalf("expected formatted phone feedback, got %v", driver.infoMessages)
	}
	if !strings.Contains(notified.String(), "Submitted: {") {
		t.Fatalf("expected console notification, got %q", notified.String())
	}
	if driver.prompts[0] != "First Name *" {
		t.Fatalf("expected required marker on first prompt, got %q", driver.prompts[0])
	}
}

func TestRender_SkipsConditionalFieldWhenUnchecked(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ada", "", "Lovelace", "ada@example.com", "", ""},
		passwords: []string{"isFooBar7331"},
		confirm:   []bool{false, true},
	}
	r := newTestRenderer(t, driver, submit.NotifierFunc(func(context.Context, submit.Receipt) error { return nil }))

	if _, err := r.Render(context.Background(), model.DefaultForm(), render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, prompt := range driver.prompts {
		if strings.HasPrefix(prompt, "Conditionally Required Field") {
			t.Fatalf("conditional field prompted while unchecked")
		}
	}
}

func TestRender_ConditionalFieldRequiredWhenChecked(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ada", "", "Lovelace", "ada@example.com", "", "", "", "filled"},
		passwords: []string{"isFooBar7331"},
		confirm:   []bool{true, true},
	}
	r := newTestRenderer(t, driver, submit.NotifierFunc(func(context.Context, submit.Receipt) error { return nil }))

	if _, err := r.Render(context.Background(), model.DefaultForm(), render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !driver.sawMessage("Invalid Conditionally Required Field: Required if checkbox is selected") {
		t.Fatalf("expected conditional requirement feedback, got %v", driver.infoMessages)
	}
}

func TestRender_RejectedSubmissionRepromptsWithFieldErrors(t *testing.T) {
	driver := &stubDriver{
		passwords:      []string{"isFooBar7331", "isFooBar7331"},
		confirm:        []bool{false, true, false, true},
		acceptDefaults: true,
	}
	calls := 0
	notifier := submit.NotifierFunc(func(context.Context, submit.Receipt) error {
		calls++
		if calls == 1 {
			return submit.Rejected(errors.New("duplicate"), map[string][]string{
				"data.email": {"Email already registered"},
			})
		}
		return nil
	})
	r := newTestRenderer(t, driver, notifier)

	_, err := r.Render(context.Background(), model.DefaultForm(), render.RenderOptions{Values: testsupport.ValidValues()})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected two submission attempts, got %d", calls)
	}
	if !driver.sawMessage("Invalid Email: Email already registered") {
		t.Fatalf("expected mapped server error, got %v", driver.infoMessages)
	}
}

func TestRender_GivesUpAfterMaxAttempts(t *testing.T) {
	driver := &stubDriver{
		passwords:      []string{"isFooBar7331", "isFooBar7331"},
		confirm:        []bool{false, true, true, false, true},
		acceptDefaults: true,
	}
	boom := errors.New("connection reset")
	r, err := New(
		WithPromptDriver(driver),
		WithLogger(slog.New(slog.DiscardHandler)),
		WithMaxAttempts(2),
		WithSubmitter(quietSubmitter(submit.NotifierFunc(func(context.Context, submit.Receipt) error {
			return submit.Network(boom)
		}))),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	_, err = r.Render(context.Background(), model.DefaultForm(), render.RenderOptions{Values: testsupport.ValidValues()})
	if !errors.Is(err, ErrTooManyAttempts) || !errors.Is(err, boom) {
		t.Fatalf("expected ErrTooManyAttempts wrapping cause, got %v", err)
	}
}

func TestRender_DecliningCleanFormAborts(t *testing.T) {
	driver := &stubDriver{
		passwords:      []string{"isFooBar7331"},
		confirm:        []bool{false, false},
		acceptDefaults: true,
	}
	r := newTestRenderer(t, driver, submit.NotifierFunc(func(context.Context, submit.Receipt) error {
		t.Fatalf("submission must not run")
		return nil
	}))

	_, err := r.Render(context.Background(), model.DefaultForm(), render.RenderOptions{Values: testsupport.ValidValues()})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestRender_ShowsPriorErrors(t *testing.T) {
	driver := &stubDriver{
		passwords:      []string{"isFooBar7331"},
		confirm:        []bool{false, true},
		acceptDefaults: true,
	}
	r := newTestRenderer(t, driver, submit.NotifierFunc(func(context.Context, submit.Receipt) error { return nil }))

	opts := render.RenderOptions{
		Values: testsupport.ValidValues(),
		Errors: map[string][]string{
			"/body/lastName":   {"Name on file differs"},
			"non_field_errors": {"Please review your details"},
		},
	}
	if _, err := r.Render(context.Background(), model.DefaultForm(), opts); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !driver.sawMessage("Please review your details") || !driver.sawMessage("Invalid Last Name: Name on file differs") {
		t.Fatalf("expected prior errors to be shown, got %v", driver.infoMessages)
	}
}

func TestRender_PrettyOutput(t *testing.T) {
	driver := &stubDriver{
		passwords:      []string{"isFooBar7331"},
		confirm:        []bool{false, true},
		acceptDefaults: true,
	}
	r, err := New(
		WithPromptDriver(driver),
		WithOutputFormat(render.OutputFormatPrettyText),
		WithLogger(slog.New(slog.DiscardHandler)),
		WithSubmitter(quietSubmitter(submit.NotifierFunc(func(context.Context, submit.Receipt) error { return nil }))),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if r.ContentType() != "text/plain" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}

	out, err := r.Render(context.Background(), model.DefaultForm(), render.RenderOptions{Values: testsupport.ValidValues()})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "email=ada@example.com\n") {
		t.Fatalf("unexpected pretty output %q", out)
	}
}

func TestRender_RequiresFields(t *testing.T) {
	r := newTestRenderer(t, &stubDriver{}, nil)
	if _, err := r.Render(context.Background(), model.FormModel{}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected error for empty form")
	}
}
