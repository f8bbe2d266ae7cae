package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-personform/pkg/form"
	"github.com/goliatone/go-personform/pkg/model"
	"github.com/goliatone/go-personform/pkg/phone"
	"github.com/goliatone/go-personform/pkg/render"
	"github.com/goliatone/go-personform/pkg/submit"
	"github.com/goliatone/go-personform/pkg/validation"
)

// ValidateResponse reports the outcome of a validation pass.
type ValidateResponse struct {
	Valid  bool                   `json:"valid"`
	Errors model.ValidationErrors `json:"errors,omitempty"`
	Issues []validation.Issue     `json:"issues,omitempty"`
}

// SubmitResponse is returned for a saved submission.
type SubmitResponse struct {
	Status  string         `json:"status"`
	Receipt submit.Receipt `json:"receipt"`
}

// FormatPhoneRequest carries the raw phone input and its fallback.
type FormatPhoneRequest struct {
	Raw      string `json:"raw"`
	Fallback string `json:"fallback"`
}

// FormatPhoneResponse carries the formatted phone.
type FormatPhoneResponse struct {
	Formatted string `json:"formatted"`
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Schema serves the JSON Schema for FormValues.
func (h *Handlers) Schema(c *gin.Context) {
	doc, err := validation.MarshalJSONSchema(h.sentinel)
	if err != nil {
		h.logger.Error("render schema", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "schema unavailable"})
		return
	}
	c.Data(http.StatusOK, "application/schema+json", doc)
}

// Validate runs the rule set over the posted values. The status is 200
// whether or not the values are valid. Values go through the same
// sanitising as Submit so both endpoints judge the same text.
func (h *Handlers) Validate(c *gin.Context) {
	values, ok := h.bindValues(c)
	if !ok {
		return
	}
	state, err := h.loadState(values)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.report(state))
}

// Submit validates the posted values and hands them to a submitter of its
// own.
func (h *Handlers) Submit(c *gin.Context) {
	values, ok := h.bindValues(c)
	if !ok {
		return
	}
	state, err := h.loadState(values)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clean, err := state.BeginSubmit()
	if errors.Is(err, form.ErrInvalid) {
		c.JSON(http.StatusUnprocessableEntity, h.report(state))
		return
	}
	if err != nil {
		h.logger.Error("begin submission", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "submission failed"})
		return
	}
	defer state.EndSubmit()

	receipt, err := h.newSubmitter().Submit(c.Request.Context(), clean)
	if err != nil {
		h.writeSubmitError(c, err)
		return
	}
	c.JSON(http.StatusOK, SubmitResponse{Status: "success", Receipt: receipt})
}

// FormatPhone applies the blur formatter to a raw value.
func (h *Handlers) FormatPhone(c *gin.Context) {
	var req FormatPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}
	c.JSON(http.StatusOK, FormatPhoneResponse{Formatted: phone.FormatPhone(req.Raw, req.Fallback)})
}

func (h *Handlers) bindValues(c *gin.Context) (model.FormValues, bool) {
	var values model.FormValues
	if err := c.ShouldBindJSON(&values); err != nil {
		h.logger.Debug("decode form values", "error", err)
		body := gin.H{"error": "Invalid JSON format"}
		if fields := decodeErrorFields(err); len(fields) > 0 {
			body["fields"] = fields
		}
		c.JSON(http.StatusBadRequest, body)
		return model.FormValues{}, false
	}
	return values, true
}

// loadState seeds a fresh form state the way a user filling the form would,
// so sanitising applies before validation.
func (h *Handlers) loadState(values model.FormValues) (*form.State, error) {
	state := form.New(model.FormValues{},
		form.WithSchema(h.schema),
		form.WithFormModel(h.form),
		form.WithLogger(h.logger),
	)
	if err := state.SetValues(values); err != nil {
		return nil, err
	}
	return state, nil
}

func (h *Handlers) report(state *form.State) ValidateResponse {
	errs := state.Errors()
	resp := ValidateResponse{Valid: errs.Len() == 0}
	if errs.Len() > 0 {
		resp.Errors = errs
		resp.Issues = h.schema.Check(state.Values()).Issues
	}
	return resp
}

// decodeErrorFields names the offending field of a decode error when the
// decoder reports one.
func decodeErrorFields(err error) map[string]string {
	var fieldErr model.FieldError
	if errors.As(err, &fieldErr) && fieldErr.Path != "" {
		return map[string]string{fieldErr.Path: fieldErr.Message}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return map[string]string{typeErr.Field: fmt.Sprintf("must be a %s", typeErr.Type)}
	}
	return nil
}

func (h *Handlers) writeSubmitError(c *gin.Context, err error) {
	var subErr *submit.Error
	if errors.As(err, &subErr) {
		switch subErr.Kind {
		case submit.KindRejected:
			mapped := render.MapErrorPayload(h.form, subErr.Fields)
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  subErr.Error(),
				"fields": mapped.Fields,
				"form":   mapped.Form,
			})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": subErr.Error()})
		}
		return
	}

	if c.Request.Context().Err() != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("form submission", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "submission failed"})
}
