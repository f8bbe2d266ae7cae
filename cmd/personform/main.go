package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"
	"github.com/mattn/go-isatty"

	"github.com/goliatone/go-personform/internal/config"
	"github.com/goliatone/go-personform/pkg/api"
	"github.com/goliatone/go-personform/pkg/form"
	"github.com/goliatone/go-personform/pkg/model"
	"github.com/goliatone/go-personform/pkg/phone"
	"github.com/goliatone/go-personform/pkg/render"
	"github.com/goliatone/go-personform/pkg/renderers/tui"
	"github.com/goliatone/go-personform/pkg/submit"
	"github.com/goliatone/go-personform/pkg/validation"
)

var version = "dev"

// errInvalidValues signals that validate found problems; the details have
// already been printed.
var errInvalidValues = errors.New("values failed validation")

// CLI is the top-level command structure for personform.
type CLI struct {
	Version  kong.VersionFlag `help:"Show version." short:"V"`
	Config   string           `help:"YAML config file." type:"path" env:"PERSONFORM_CONFIG"`
	DotEnv   string           `name:"dotenv" help:"Optional .env file." default:".env"`
	LogLevel string           `help:"Override the configured log level."`

	Fill        FillCmd        `cmd:"" help:"Fill in the form interactively."`
	Validate    ValidateCmd    `cmd:"" help:"Validate a JSON or YAML values file."`
	FormatPhone FormatPhoneCmd `cmd:"" name:"format-phone" help:"Format a phone number the way the form does on blur."`
	Schema      SchemaCmd      `cmd:"" help:"Print the JSON Schema for form values."`
	Serve       ServeCmd       `cmd:"" help:"Serve the form API over HTTP."`
}

// app carries what every command needs once flags and config are resolved.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func (a *app) schema() *validation.Schema {
	return validation.NewSchema(a.cfg.SchemaOptions()...)
}

func (a *app) submitOptions(notifier submit.Notifier) []submit.Option {
	return []submit.Option{
		submit.WithDelay(a.cfg.Submit.Delay),
		submit.WithLogger(a.logger),
		submit.WithNotifier(notifier),
	}
}

// FillCmd runs the survey-driven form session.
type FillCmd struct {
	Format string `help:"Output format for the submitted values (json, form, pretty)."`
}

// Run executes the fill command.
func (f *FillCmd) Run(a *app) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("fill: requires a terminal (TTY)")
	}

	format := a.cfg.OutputFormat()
	if f.Format != "" {
		parsed, err := render.ParseOutputFormat(f.Format)
		if err != nil {
			return fmt.Errorf("fill: %w", err)
		}
		format = parsed
	}

	renderer, err := tui.New(
		tui.WithOutputFormat(format),
		tui.WithSchema(a.schema()),
		tui.WithSubmitter(submit.New(a.submitOptions(submit.NewConsoleNotifier(a.stderr))...)),
		tui.WithLogger(a.logger),
	)
	if err != nil {
		return fmt.Errorf("fill: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, err := renderer.Render(ctx, model.DefaultForm(), render.RenderOptions{})
	if errors.Is(err, tui.ErrAborted) {
		fmt.Fprintln(a.stderr, "form discarded")
		return nil
	}
	if err != nil {
		return fmt.Errorf("fill: %w", err)
	}
	fmt.Fprintln(a.stdout, string(out))
	return nil
}

// ValidateCmd checks a values file without submitting it.
type ValidateCmd struct {
	File   string `arg:"" help:"Values file (.json, .yaml or .yml)." type:"existingfile"`
	Output string `help:"Report format." enum:"text,json" default:"text"`
	All    bool   `help:"Report every violated rule instead of the first per field."`
}

// Run executes the validate command.
func (v *ValidateCmd) Run(a *app) error {
	values, err := model.LoadValues(v.File)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	schema := a.schema()
	state := form.New(model.FormValues{}, form.WithSchema(schema), form.WithLogger(a.logger))
	if err := state.SetValues(values); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	values = state.Values()
	result := schema.Check(values)

	switch v.Output {
	case "json":
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if v.All {
			err = enc.Encode(struct {
				Valid  bool                `json:"valid"`
				Errors map[string][]string `json:"errors,omitempty"`
			}{Valid: result.Valid, Errors: schema.ValidateAll(values)})
		} else {
			err = enc.Encode(result)
		}
		if err != nil {
			return fmt.Errorf("validate: encode result: %w", err)
		}
	default:
		if result.Valid {
			fmt.Fprintln(a.stdout, "valid")
			break
		}
		if v.All {
			all := schema.ValidateAll(values)
			for _, issue := range result.Issues {
				for _, msg := range all[issue.Field] {
					fmt.Fprintf(a.stdout, "%s: %s\n", issue.Field, msg)
				}
			}
		} else {
			for _, issue := range result.Issues {
				fmt.Fprintf(a.stdout, "%s: %s\n", issue.Field, issue.Message)
			}
		}
	}

	a.logger.Debug("values validated", "file", v.File, "valid", result.Valid, "issues", len(result.Issues))
	if !result.Valid {
		return errInvalidValues
	}
	return nil
}

// FormatPhoneCmd applies the blur formatter to one value.
type FormatPhoneCmd struct {
	Raw      string `arg:"" help:"Raw phone input."`
	Fallback string `help:"Value printed when the input cannot be formatted."`
}

// Run executes the format-phone command.
func (f *FormatPhoneCmd) Run(a *app) error {
	fmt.Fprintln(a.stdout, phone.FormatPhone(f.Raw, f.Fallback))
	return nil
}

// SchemaCmd prints the JSON Schema document.
type SchemaCmd struct{}

// Run executes the schema command.
func (s *SchemaCmd) Run(a *app) error {
	doc, err := validation.MarshalJSONSchema(a.cfg.Sentinel())
	if err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	fmt.Fprintln(a.stdout, string(doc))
	return nil
}

// ServeCmd runs the HTTP API until interrupted.
type ServeCmd struct {
	Addr string `help:"Listen address; overrides http.addr."`
}

// Run executes the serve command.
func (s *ServeCmd) Run(a *app) error {
	addr := a.cfg.HTTP.Addr
	if s.Addr != "" {
		addr = s.Addr
	}

	if level, _ := a.cfg.LogLevel(); level > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(
		api.WithSchema(a.schema()),
		api.WithPasswordSentinel(a.cfg.Sentinel()),
		api.WithSubmitOptions(a.submitOptions(submit.NewConsoleNotifier(a.stderr))...),
		api.WithLogger(a.logger),
	)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.logger.Info("server stopping")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	return nil
}

func (c *CLI) app(stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(c.Config, c.DotEnv)
	if err != nil {
		return nil, err
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return &app{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr}, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("personform"),
		kong.Description("Collect, validate and submit personal information."),
		kong.Vars{"version": version},
		kong.Writers(stdout, stderr),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return 2
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return 2
	}

	a, err := cli.app(stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return 2
	}
	if err := kctx.Run(a); err != nil {
		if !errors.Is(err, errInvalidValues) {
			fmt.Fprintf(stderr, "error: %s\n", err)
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
