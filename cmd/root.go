package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/mapty/internal/config"
	"github.com/Tiliavir/mapty/internal/geo"
	"github.com/Tiliavir/mapty/internal/storage"
	"github.com/Tiliavir/mapty/internal/tracker"
)

var (
	configPath string
	verbose    bool

	app   *tracker.Tracker
	blobs storage.BlobStore
)

var rootCmd = &cobra.Command{
	Use:   "mapty",
	Short: "Mapty – log runs and rides on a map",
	Long: `mapty is a single-binary workout log. Pick a location with "click",
log a run or ride there with "add", and browse or export what you logged.
Workouts are stored as one JSON blob in ~/.mapty/ (or a SQLite database).`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute is the entry point called from main.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	// PersistentPostRunE is skipped when a command fails.
	if closeErr := teardown(nil, nil); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.mapty/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log diagnostics to stderr")

	rootCmd.AddCommand(clickCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(locateCmd)
}

// exitCode maps err to 1 for bad input and 2 for storage or environment
// failures.
func exitCode(err error) int {
	if tracker.IsUserError(err) {
		return 1
	}
	var usage usageError
	if errors.As(err, &usage) {
		return 1
	}
	return 2
}

// usageError marks malformed arguments.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

func setup(cmd *cobra.Command, _ []string) error {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	locator, err := newLocator(cfg.Location)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Storage.Dir, 0o700); err != nil {
		return fmt.Errorf("storage error creating %s: %w", cfg.Storage.Dir, err)
	}
	blobs, err = storage.Open(cmd.Context(), cfg.Storage.Backend, cfg.Storage.Dir)
	if err != nil {
		return err
	}
	logger.Debug("storage opened", "backend", cfg.Storage.Backend, "dir", cfg.Storage.Dir)

	app = tracker.New(tracker.Options{
		Blobs:   blobs,
		Key:     cfg.Storage.Key,
		Locator: locator,
		Logger:  logger,
	})
	return app.Load(cmd.Context())
}

func teardown(_ *cobra.Command, _ []string) error {
	if blobs == nil {
		return nil
	}
	err := blobs.Close()
	blobs = nil
	return err
}

func newLogger(c config.LogConfig) (*slog.Logger, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// newLocator tries the location environment variable first and falls back
// to the configured home location.
func newLocator(c config.LocationConfig) (geo.Locator, error) {
	chain := geo.Chain{geo.NewEnv(c.Env)}
	if c.Home != "" {
		home, err := geo.ParseCoords(c.Home)
		if err != nil {
			return nil, fmt.Errorf("location.home: %w", err)
		}
		chain = append(chain, geo.Static{Coords: home, Known: true})
	}
	return geo.WithTimeout(chain, c.Timeout), nil
}
