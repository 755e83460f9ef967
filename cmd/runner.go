package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdx/internal/credentials"
	"github.com/desertthunder/tdx/internal/services"
	"github.com/desertthunder/tdx/internal/session"
	"github.com/desertthunder/tdx/internal/shared"
	"github.com/desertthunder/tdx/internal/store"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	creds      credentials.Store
	sess       *session.Controller
	todos      *store.TodoStore
	auth       *services.AuthService
	api        *services.Client
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Creds      credentials.Store
	API        *services.Client
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration, filling in
// defaults for anything not supplied.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Creds == nil {
		opts.Creds = credentials.Unavailable()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: time.Duration(opts.Config.API.TimeoutSeconds) * time.Second,
		}
	}
	if opts.API == nil {
		opts.API = services.NewClient(services.ClientOpts{
			BaseURL:    opts.Config.API.BaseURL,
			HTTPClient: opts.HTTPClient,
			Tokens:     credentials.TokenSource(context.Background(), opts.Creds),
			RateLimit:  opts.Config.API.RateLimit,
			Logger:     opts.Logger,
		})
	}

	return &Runner{
		config:     opts.Config,
		creds:      opts.Creds,
		sess:       session.NewController(opts.Creds, opts.Logger),
		todos:      store.NewTodoStore(opts.API, opts.Logger),
		auth:       services.NewAuthService(opts.API),
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the runner's logger, e.g. to a file logger before the TUI starts.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, registerCommand, loginCommand, logoutCommand, statusCommand,
		profileCommand, listCommand, showCommand, addCommand, editCommand, rmCommand,
		tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireAuth resolves the session and fails with a hint when no one is
// logged in.
func (r *Runner) requireAuth(ctx context.Context) error {
	if r.sess.Bootstrap(ctx) != session.StatusAuthenticated {
		return fmt.Errorf("%w: run `tdx login` first", shared.ErrNotAuthenticated)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
