// Package api exposes the form operations over HTTP with gin: validation,
// phone formatting, submission and the JSON Schema describing the values.
package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-personform/pkg/model"
	"github.com/goliatone/go-personform/pkg/submit"
	"github.com/goliatone/go-personform/pkg/validation"
)

// Handlers contains the HTTP handlers for the form API.
type Handlers struct {
	form       model.FormModel
	schema     *validation.Schema
	submitOpts []submit.Option
	sentinel   string
	logger     *slog.Logger
}

// Option configures Handlers.
type Option func(*Handlers)

// WithSchema overrides the validation schema.
func WithSchema(schema *validation.Schema) Option {
	return func(h *Handlers) {
		if schema != nil {
			h.schema = schema
		}
	}
}

// WithSubmitOptions configures the submitter built for each submission.
// Every request gets its own submitter, so one client's in-flight save
// never blocks another's.
func WithSubmitOptions(options ...submit.Option) Option {
	return func(h *Handlers) {
		h.submitOpts = append(h.submitOpts, options...)
	}
}

// WithFormModel overrides the field descriptors used for sanitising and
// error mapping.
func WithFormModel(form model.FormModel) Option {
	return func(h *Handlers) {
		if len(form.Fields) > 0 {
			h.form = form
		}
	}
}

// WithPasswordSentinel sets the sentinel published in the schema document.
// An empty sentinel publishes no const.
func WithPasswordSentinel(sentinel string) Option {
	return func(h *Handlers) {
		h.sentinel = sentinel
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handlers) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandlers creates a Handlers instance with the default schema and
// submitter settings.
func NewHandlers(options ...Option) *Handlers {
	h := &Handlers{
		form:     model.DefaultForm(),
		sentinel: validation.DefaultPasswordSentinel,
		logger:   slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}
	if h.schema == nil {
		h.schema = validation.NewSchema()
	}
	return h
}

func (h *Handlers) newSubmitter() *submit.Submitter {
	options := append([]submit.Option{submit.WithLogger(h.logger)}, h.submitOpts...)
	return submit.New(options...)
}

// Register mounts the routes on router.
func (h *Handlers) Register(router gin.IRouter) {
	router.GET("/healthz", h.HealthCheck)

	group := router.Group("/api")
	group.GET("/form/schema", h.Schema)
	group.POST("/form/validate", h.Validate)
	group.POST("/form/submit", h.Submit)
	group.POST("/phone/format", h.FormatPhone)
}

// NewRouter builds a gin engine with recovery, request logging and the form
// routes.
func NewRouter(options ...Option) *gin.Engine {
	h := NewHandlers(options...)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.logger))
	h.Register(router)
	return router
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
