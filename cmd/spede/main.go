// Package main provides the CLI entrypoint for spede.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/spede/internal/config"
	"github.com/verte-zerg/spede/internal/logging"
	"github.com/verte-zerg/spede/internal/model"
	"github.com/verte-zerg/spede/internal/quote"
	"github.com/verte-zerg/spede/internal/store"
	"github.com/verte-zerg/spede/internal/tui"
)

const (
	defaultSource  = string(model.SourceAPI)
	defaultTimeout = "10s"
	defaultRetries = 0
	maxRetries     = 10
)

var (
	practiceSource   string
	practiceEndpoint string
	practiceTimeout  string
	practiceRetries  int
	practiceLogFile  string
	practiceLogLevel string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "spede",
		Short:         "Terminal typing test against random quotes",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceSource, "source", defaultSource, "quote source: api or local")
	rootCmd.Flags().StringVar(&practiceEndpoint, "endpoint", quote.DefaultEndpoint, "quote API endpoint")
	rootCmd.Flags().StringVar(&practiceTimeout, "timeout", defaultTimeout, "quote request timeout")
	rootCmd.Flags().IntVar(&practiceRetries, "retries", defaultRetries, "extra attempts for a failed quote request")
	rootCmd.Flags().StringVar(&practiceLogFile, "log-file", "", "write diagnostics to this file")
	rootCmd.Flags().StringVar(&practiceLogLevel, "log-level", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newQuotesCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd, config.DefaultConfigPath())
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeLog(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	inFd := int(os.Stdin.Fd())
	if !term.IsTerminal(inFd) {
		return fmt.Errorf("stdin is not a terminal")
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width = 0
	}

	provider, closeProvider, err := openProvider(cfg, logger)
	if err != nil {
		return err
	}
	defer closeProvider()

	logger.Info("starting", "source", cfg.Source, "endpoint", cfg.Endpoint, "retries", cfg.Retries)
	m := tui.NewModel(provider, logger, width)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := m.Err(); err != nil {
		return userFacingError(err)
	}
	return nil
}

func openProvider(cfg model.Config, logger *slog.Logger) (quote.Provider, func(), error) {
	switch cfg.Source {
	case model.SourceLocal:
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open quote library: %w", err)
		}
		return st, func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}, nil
	default:
		client := quote.NewClient(cfg.Endpoint,
			quote.WithTimeout(cfg.Timeout),
			quote.WithRetries(cfg.Retries, 0),
			quote.WithLogger(logger),
		)
		return client, func() {}, nil
	}
}

func userFacingError(err error) error {
	switch {
	case errors.Is(err, store.ErrEmptyLibrary):
		return fmt.Errorf("%w\nAdd one with: spede quotes add --author NAME TEXT", err)
	case errors.Is(err, quote.ErrNetwork):
		return fmt.Errorf("there was an error retrieving a quote, be sure that you are connected to the Internet: %w", err)
	default:
		return err
	}
}

func resolveConfig(cmd *cobra.Command, path string) (model.Config, error) {
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "source", &practiceSource, fileCfg.Quotes.Source)
	applyStringConfig(cmd, "endpoint", &practiceEndpoint, fileCfg.Quotes.Endpoint)
	applyStringConfig(cmd, "timeout", &practiceTimeout, fileCfg.Quotes.Timeout)
	applyIntConfig(cmd, "retries", &practiceRetries, fileCfg.Quotes.Retries)
	applyStringConfig(cmd, "log-file", &practiceLogFile, fileCfg.Log.File)
	applyStringConfig(cmd, "log-level", &practiceLogLevel, fileCfg.Log.Level)

	timeout, err := time.ParseDuration(practiceTimeout)
	if err != nil {
		return model.Config{}, fmt.Errorf("invalid --timeout value: %w", err)
	}
	cfg := model.Config{
		Source:   model.Source(strings.ToLower(strings.TrimSpace(practiceSource))),
		Endpoint: strings.TrimSpace(practiceEndpoint),
		Timeout:  timeout,
		Retries:  practiceRetries,
		LogFile:  practiceLogFile,
		LogLevel: practiceLogLevel,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeDefaultConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# spede configuration
# Uncomment a value to enable it. CLI flags override config values.

[quotes]
# source = %q           # "api" fetches from the endpoint, "local" uses the quote library
# endpoint = %q
# timeout = %q          # Go duration
# retries = %d              # Extra attempts for a failed request (0-%d)

[log]
# file = ""                # Diagnostics log file; empty disables logging
# level = "info"           # debug, info, warn, error
`,
		defaultSource,
		quote.DefaultEndpoint,
		defaultTimeout,
		defaultRetries,
		maxRetries,
	)
}

func validateConfig(cfg model.Config) error {
	switch cfg.Source {
	case model.SourceAPI, model.SourceLocal:
	default:
		return fmt.Errorf("--source must be %q or %q", model.SourceAPI, model.SourceLocal)
	}
	if cfg.Source == model.SourceAPI && cfg.Endpoint == "" {
		return fmt.Errorf("--endpoint must not be empty")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}
	if cfg.Retries < 0 || cfg.Retries > maxRetries {
		return fmt.Errorf("--retries must be between 0 and %d", maxRetries)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	return nil
}

func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
