package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/movievault/internal/repositories"
	"github.com/desertthunder/movievault/internal/services"
	"github.com/desertthunder/movievault/internal/shared"
	"github.com/desertthunder/movievault/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config       *shared.Config
	configPath   string
	provider     services.Provider
	connectivity shared.Connectivity
	store        *repositories.KVRepository
	db           *sql.DB
	httpClient   *http.Client
	logger       *log.Logger
	output       io.Writer
	input        io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config       *shared.Config
	ConfigPath   string
	Provider     services.Provider
	Connectivity shared.Connectivity
	Store        *repositories.KVRepository
	HTTPClient   *http.Client
	Logger       *log.Logger
	Output       io.Writer
	Input        io.Reader
}

// NewRunner creates a new Runner with the provided configuration
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
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:       opts.Config,
		configPath:   opts.ConfigPath,
		provider:     opts.Provider,
		connectivity: opts.Connectivity,
		store:        opts.Store,
		httpClient:   opts.HTTPClient,
		logger:       opts.Logger,
		output:       opts.Output,
		input:        opts.Input,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, searchCommand, detailsCommand, watchlistCommand, themeCommand, tuiCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before resolves configuration (file, .env, environment) and builds the provider.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	config, err := shared.ResolveConfig(r.configPath)
	if err != nil {
		return ctx, err
	}
	r.config = config

	level := shared.ParseLogLevel(config.Log.Level)
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	if r.provider == nil {
		r.provider = services.NewOMDbServiceFromConfig(config, r.httpClient, r.logger)
	}
	return ctx, nil
}

// SetLogger replaces the logger, e.g. with a file logger for the TUI.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Provider returns the movie provider, building one from config if none was set.
func (r *Runner) Provider() services.Provider {
	if r.provider == nil {
		r.provider = services.NewOMDbServiceFromConfig(r.config, r.httpClient, r.logger)
	}
	return r.provider
}

// Connectivity returns the probe used to short-circuit searches while offline.
func (r *Runner) Connectivity() shared.Connectivity {
	if r.connectivity == nil {
		r.connectivity = shared.NewProbe(r.config.Credentials.OMDb.BaseURL, 2*time.Second)
	}
	return r.connectivity
}

// Store opens the persistent store on first use.
func (r *Runner) Store() (*repositories.KVRepository, error) {
	if r.store != nil {
		return r.store, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrStorage, err)
	}

	r.db = db
	r.store = repositories.NewKVRepository(db, r.config.Storage.MaxValueBytes)
	r.logger.Debug("opened store", "path", r.config.Database.Path, "origin", r.store.Origin())
	return r.store, nil
}

// Close releases the database opened by [Runner.Store].
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// controller builds a one-shot [tasks.SearchController] printing through presenter.
func (r *Runner) controller(store repositories.Store, presenter tasks.Presenter) *tasks.SearchController {
	return tasks.NewSearchController(tasks.SearchOptions{
		Provider:           r.Provider(),
		Session:            repositories.NewSessionStore(r.config.Storage.MaxValueBytes),
		Watchlist:          tasks.NewWatchlist(store, presenter, r.logger),
		Presenter:          presenter,
		Connectivity:       r.Connectivity(),
		Logger:             r.logger,
		Debounce:           r.config.Search.Debounce,
		MinTypeaheadLength: r.config.Search.MinTypeaheadLength,
	})
}

// confirm asks a yes/no question on the runner's input. Anything but y/yes is a no.
func (r *Runner) confirm(prompt string) bool {
	r.writePlain("%s [y/N]: ", prompt)

	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
