package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/smileynet/faceoff/internal/config"
	"github.com/smileynet/faceoff/internal/dashboard"
	"github.com/smileynet/faceoff/internal/logging"
	"github.com/smileynet/faceoff/internal/nhl"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// CLI is the top-level command structure for faceoff.
type CLI struct {
	Version  kong.VersionFlag `help:"Show version." short:"V"`
	Config   string           `help:"Config file layered over the user and project configs." type:"path" placeholder:"FILE"`
	LogLevel string           `help:"Log level (trace, debug, info, warn, error, disabled)." placeholder:"LEVEL"`
	Watch    WatchCmd         `cmd:"" default:"1" help:"Open the live scoreboard."`
}

// WatchCmd opens the interactive dashboard.
type WatchCmd struct{}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// programError marks a failure of the running dashboard, as opposed to
// one while setting it up.
type programError struct {
	err error
}

func (e *programError) Error() string { return "watch: " + e.err.Error() }
func (e *programError) Unwrap() error { return e.err }

// Run builds real dependencies and launches the dashboard.
func (w *WatchCmd) Run(cli *CLI) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("watch: requires a terminal (TTY)")
	}

	cfg, err := loadConfig(cli.Config, cli.LogLevel)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	log, closeLog, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer func() { _ = closeLog() }()
	log.Info().Str("version", version).Str("base_url", cfg.API.BaseURL).Msg("starting")

	client := newClient(cfg, log)
	defer client.Close()

	// Cancelled on exit so fetches still in flight are abandoned.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := dashboard.NewModel(client,
		dashboard.WithLogger(log),
		dashboard.WithRefreshInterval(cfg.RefreshInterval()),
		dashboard.WithContext(ctx),
		dashboard.WithLocations(dashboard.LeagueLocation(), time.Local),
	)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	err = w.run(true, prog)
	if err != nil {
		log.Error().Err(err).Msg("dashboard exited")
	}
	return err
}

// run executes the dashboard program. Separated from Run for testability.
func (w *WatchCmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("watch: requires a terminal (TTY)")
	}
	if _, err := prog.Run(); err != nil {
		return &programError{err: err}
	}
	return nil
}

// loadConfig layers the user, project and explicit config files, then
// applies environment and flag overrides.
func loadConfig(explicit, logLevel string) (*config.Config, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	cfg, err := config.LoadLayered(config.Paths(explicit)...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newClient builds the caching feed client from config.
func newClient(cfg *config.Config, log zerolog.Logger) *nhl.Client {
	return nhl.NewClient(
		nhl.WithBaseURL(cfg.API.BaseURL),
		nhl.WithTimeout(cfg.API.Timeout),
		nhl.WithUserAgent(cfg.API.UserAgent),
		nhl.WithDefaultTTL(cfg.Cache.TTL),
		nhl.WithLogger(log),
	)
}

const (
	exitSuccess = 0
	exitRuntime = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var pe *programError
	if errors.As(err, &pe) {
		return exitRuntime
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("faceoff"),
		kong.Description("Live NHL scores, standings and stats in the terminal."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
