package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/mwilde/topho/internal/services"
	"github.com/mwilde/topho/internal/shared"
	"github.com/mwilde/topho/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	source  services.SourceStore
	library services.Library
	logger  *log.Logger
	output  io.Writer
	input   io.Reader

	// historyDB is held open between run start and run completion so both
	// history writes go to the same connection pool.
	historyDB *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Source  services.SourceStore
	Library services.Library
	Logger  *log.Logger
	Output  io.Writer
	Input   io.Reader
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

	return &Runner{
		config:  opts.Config,
		source:  opts.Source,
		library: opts.Library,
		logger:  opts.Logger,
		output:  opts.Output,
		input:   opts.Input,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, syncCommand, albumsCommand, ledgerCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// reloadConfig loads the config file named by the command's --config flag
// when it exists, keeping the current config otherwise.
func (r *Runner) reloadConfig(cmd *cli.Command) {
	path := cmd.String("config")
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warnf("failed to load config, keeping current settings %v", err)
		return
	}
	r.config = config
}

// SetLogger replaces the runner's logger, used when the terminal is occupied
// by the TUI.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// newEngine builds the sync engine from the runner's services and the
// configured ledger location.
func (r *Runner) newEngine() (*tasks.ImportEngine, error) {
	if r.source == nil {
		return nil, fmt.Errorf("%w: Drive service not initialized, run 'topho auth login'", shared.ErrNotAuthenticated)
	}
	if r.library == nil {
		return nil, fmt.Errorf("%w: Photos service not initialized, run 'topho auth login'", shared.ErrNotAuthenticated)
	}

	led, err := r.loadLedger()
	if err != nil {
		return nil, err
	}

	classifier := tasks.Classifier{MaxVideoSeconds: float64(r.config.Sync.MaxVideoSeconds)}
	return tasks.NewImportEngine(r.source, r.library, led, r.missLog(), classifier), nil
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
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
