package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-personform/pkg/api"
	"github.com/goliatone/go-personform/pkg/model"
	"github.com/goliatone/go-personform/pkg/submit"
	"github.com/goliatone/go-personform/pkg/testsupport"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var discard = slog.New(slog.DiscardHandler)

func newRouter(notifier submit.Notifier, options ...api.Option) *gin.Engine {
	base := []api.Option{
		api.WithLogger(discard),
		api.WithSubmitOptions(
			submit.WithDelay(0),
			submit.WithLogger(discard),
			submit.WithNotifier(notifier),
			submit.WithIDGenerator(func() string { return "sub-1" }),
		),
	}
	return api.NewRouter(append(base, options...)...)
}

func okNotifier() submit.Notifier {
	return submit.NotifierFunc(func(context.Context, submit.Receipt) error { return nil })
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch typed := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(typed))
	default:
		data, err := json.Marshal(typed)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	return serve(router, method, path, reader)
}

func serve(router http.Handler, method, path string, body *bytes.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthCheck(t *testing.T) {
	rec := do(t, newRouter(okNotifier()), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if diff := cmp.Diff(map[string]string{"status": "ok"}, decode[map[string]string](t, rec)); diff != "" {
		t.Fatalf("health payload mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_EmptyRecord(t *testing.T) {
	rec := do(t, newRouter(okNotifier()), http.MethodPost, "/api/form/validate", "{}")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decode[api.ValidateResponse](t, rec)
	if got.Valid {
		t.Fatalf("expected invalid result")
	}
	want := model.ValidationErrors{
		model.PathFirstName: "Required",
		model.PathLastName:  "Required",
		model.PathEmail:     "Required",
		model.PathPassword:  "No password provided.",
	}
	if diff := cmp.Diff(want, got.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if len(got.Issues) != 4 || got.Issues[0].Field != model.PathEmail {
		t.Fatalf("expected sorted issues, got %+v", got.Issues)
	}
}

func TestValidate_AcceptsNumericAge(t *testing.T) {
	body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","password":"isFooBar7331","age":36}`
	rec := do(t, newRouter(okNotifier()), http.MethodPost, "/api/form/validate", body)
	got := decode[api.ValidateResponse](t, rec)
	if !got.Valid || len(got.Errors) != 0 {
		t.Fatalf("expected valid result, got %+v", got)
	}
}

func TestValidate_RejectsMalformedJSON(t *testing.T) {
	rec := do(t, newRouter(okNotifier()), http.MethodPost, "/api/form/validate", "{")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSubmit_Success(t *testing.T) {
	var got []submit.Receipt
	notifier := submit.NotifierFunc(func(_ context.Context, receipt submit.Receipt) error {
		got = append(got, receipt)
		return nil
	})
	values := testsupport.ValidValues()
	values.FirstName = "<b>Ada</b>"

	rec := do(t, newRouter(notifier), http.MethodPost, "/api/form/submit", values)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[api.SubmitResponse](t, rec)
	if resp.Status != "success" || resp.Receipt.ID != "sub-1" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(got) != 1 {
		t.Fatalf("expected one notification, got %d", len(got))
	}
	if got[0].Values.FirstName != "Ada" {
		t.Fatalf("expected sanitised first name, got %q", got[0].Values.FirstName)
	}
}

func TestSubmit_InvalidValuesNeverReachSubmitter(t *testing.T) {
	notifier := submit.NotifierFunc(func(context.Context, submit.Receipt) error {
		t.Fatalf("submitter must not be called")
		return nil
	})
	values := testsupport.ValidValues()
	values.OptionalField.Checked = true

	rec := do(t, newRouter(notifier), http.MethodPost, "/api/form/submit", values)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	got := decode[api.ValidateResponse](t, rec)
	want := model.ValidationErrors{model.PathOptionalInput: "Required if checkbox is selected"}
	if diff := cmp.Diff(want, got.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_RejectionMapsFieldErrors(t *testing.T) {
	notifier := submit.NotifierFunc(func(context.Context, submit.Receipt) error {
		return submit.Rejected(errors.New("duplicate"), map[string][]string{
			"/body/email": {"Email already registered"},
			"__all__":     {"Try again later"},
		})
	})
	rec := do(t, newRouter(notifier), http.MethodPost, "/api/form/submit", testsupport.ValidValues())
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	got := decode[struct {
		Fields map[string][]string `json:"fields"`
		Form   []string            `json:"form"`
	}](t, rec)
	if diff := cmp.Diff(map[string][]string{"email": {"Email already registered"}}, got.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Try again later"}, got.Form); diff != "" {
		t.Fatalf("form messages mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_NetworkFailure(t *testing.T) {
	notifier := submit.NotifierFunc(func(context.Context, submit.Receipt) error {
		return submit.Network(errors.New("connection reset"))
	})
	rec := do(t, newRouter(notifier), http.MethodPost, "/api/form/submit", testsupport.ValidValues())
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestSubmit_IndependentFormsSubmitConcurrently(t *testing.T) {
	entered := make(chan string, 2)
	release := make(chan struct{})
	notifier := submit.NotifierFunc(func(_ context.Context, receipt submit.Receipt) error {
		entered <- receipt.Values.FirstName
		<-release
		return nil
	})
	router := newRouter(notifier)

	alice := testsupport.ValidValues()
	alice.FirstName = "Alice"
	bobby := testsupport.ValidValues()
	bobby.FirstName = "Bobby"

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i, values := range []model.FormValues{alice, bobby} {
		payload, err := json.Marshal(values)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		wg.Add(1)
		go func(i int, payload []byte) {
			defer wg.Done()
			codes[i] = serve(router, http.MethodPost, "/api/form/submit", bytes.NewReader(payload)).Code
		}(i, payload)
	}

	// both saves are in flight at the same time before either finishes
	got := []string{<-entered, <-entered}
	close(release)
	wg.Wait()

	if diff := cmp.Diff([]string{"Alice", "Bobby"}, got, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("in-flight submissions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{http.StatusOK, http.StatusOK}, codes); diff != "" {
		t.Fatalf("status codes mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAndSubmitAgreeOnMarkup(t *testing.T) {
	notifier := submit.NotifierFunc(func(context.Context, submit.Receipt) error {
		t.Fatalf("submitter must not be called")
		return nil
	})
	router := newRouter(notifier)

	values := testsupport.ValidValues()
	values.MiddleName = "J<br>"

	validated := do(t, router, http.MethodPost, "/api/form/validate", values)
	submitted := do(t, router, http.MethodPost, "/api/form/submit", values)
	if validated.Code != http.StatusOK || submitted.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status codes validate=%d submit=%d", validated.Code, submitted.Code)
	}

	fromValidate := decode[api.ValidateResponse](t, validated)
	fromSubmit := decode[api.ValidateResponse](t, submitted)
	if diff := cmp.Diff(fromValidate, fromSubmit); diff != "" {
		t.Fatalf("endpoints disagree (-validate +submit):\n%s", diff)
	}
	want := model.ValidationErrors{model.PathMiddleName: "Too Short!"}
	if diff := cmp.Diff(want, fromValidate.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestBindErrorsNameTheField(t *testing.T) {
	router := newRouter(okNotifier())
	tests := []struct {
		name string
		body string
		path string
	}{
		{name: "boolean age", body: `{"age": true}`, path: "age"},
		{name: "numeric name", body: `{"firstName": 5}`, path: "firstName"},
		{name: "string checkbox", body: `{"optionalField": {"checked": "yes"}}`, path: "optionalField.checked"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/form/validate", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			got := decode[struct {
				Fields map[string]string `json:"fields"`
			}](t, rec)
			if _, ok := got.Fields[tt.path]; !ok {
				t.Fatalf("expected %s in fields, got %v", tt.path, got.Fields)
			}
		})
	}
}

func TestFormatPhone(t *testing.T) {
	router := newRouter(okNotifier())
	tests := []struct {
		name string
		req  api.FormatPhoneRequest
		want string
	}{
		{name: "ten digits", req: api.FormatPhoneRequest{Raw: "5551234567"}, want: "(555) 123-4567"},
		{name: "country code", req: api.FormatPhoneRequest{Raw: "1-555-123-4567"}, want: "+1 (555) 123-4567"},
		{name: "fallback", req: api.FormatPhoneRequest{Raw: "abc", Fallback: "fallback"}, want: "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/phone/format", tt.req)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if got := decode[api.FormatPhoneResponse](t, rec).Formatted; got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSchema(t *testing.T) {
	rec := do(t, newRouter(okNotifier(), api.WithPasswordSentinel("")), http.MethodGet, "/api/form/schema", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/schema+json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	doc := decode[struct {
		Required   []string                  `json:"required"`
		Properties map[string]map[string]any `json:"properties"`
	}](t, rec)
	want := []string{model.PathFirstName, model.PathLastName, model.PathEmail, model.PathPassword}
	if diff := cmp.Diff(want, doc.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if _, ok := doc.Properties[model.PathPassword]["const"]; ok {
		t.Fatalf("expected no sentinel const when disabled")
	}
}
