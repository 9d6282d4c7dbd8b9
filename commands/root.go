package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-breathfree/internal/application/app"
	"github.com/penwyp/go-breathfree/internal/config"
	"github.com/penwyp/go-breathfree/internal/data/store"
	"github.com/penwyp/go-breathfree/internal/games"
	"github.com/penwyp/go-breathfree/internal/presentation/formatter"
	"github.com/penwyp/go-breathfree/internal/util"
)

// rootOptions carries the global flags and the state opened for one run.
type rootOptions struct {
	// Logging related
	debug bool

	// Data path
	dataDir    string
	storeKind  string
	configPath string

	// Output related
	outputFormat string
	timezone     string

	cfg   *config.Config
	st    store.Store
	app   *app.App
	clock func() time.Time
	rng   games.Rand
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&rootOptions{})
}

func newRootCommand(o *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "go-breathfree",
		Short: "A quit-nicotine companion for the terminal",
		Long: `go-breathfree tracks resisted cravings and relapses, derives your smoke-free
streak, money saved and skill levels, and rewards progress with credits you
can spend in a small shop.

Examples:
  go-breathfree resist                          # Log a resisted craving
  go-breathfree consume -n 2 --note "party"     # Log two units consumed
  go-breathfree epoch set "2024-01-01 08:00"    # Set the quit date
  go-breathfree financial set --cost 12 --days 2
  go-breathfree progress                        # Show levels and savings
  go-breathfree live                            # Live dashboard
  go-breathfree backup export                   # Write a backup file`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: o.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return o.teardown()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&o.dataDir, "data-dir", "",
		"Data directory (default from config, ~/.go-breathfree)")
	flags.StringVar(&o.storeKind, "store", "",
		"Storage backend (json, sqlite)")
	flags.StringVar(&o.configPath, "config", config.DefaultConfigFile,
		"Config file path")
	flags.BoolVar(&o.debug, "debug", false,
		"Enable debug mode")
	flags.StringVar(&o.timezone, "timezone", "",
		"Timezone setting (e.g., Asia/Shanghai, UTC)")
	flags.StringVarP(&o.outputFormat, "output", "o", formatter.FormatTable,
		"Output format (table, json, csv)")

	rootCmd.AddCommand(
		newResistCmd(o),
		newConsumeCmd(o),
		newEntriesCmd(o),
		newEpochCmd(o),
		newFinancialCmd(o),
		newStatsCmd(o),
		newProgressCmd(o),
		newShopCmd(o),
		newInventoryCmd(o),
		newDiscoverCmd(o),
		newClaimCmd(o),
		newGamesCmd(o),
		newBreatheCmd(o),
		newBackupCmd(o),
		newResetCmd(o),
		newCoachCmd(o),
		newLiveCmd(o),
		newSettingsCmd(o),
	)
	return rootCmd
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// setup layers config file and flags, then opens logging, the clock and
// the store.
func (o *rootOptions) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	if o.storeKind != "" {
		cfg.Store = o.storeKind
	}
	if o.timezone != "" {
		if _, err := time.LoadLocation(o.timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", o.timezone, err)
		}
		cfg.Timezone = o.timezone
	}
	if o.debug {
		cfg.Log.Level = "debug"
	}
	if o.storeKind != "" && o.storeKind != store.BackendJSON && o.storeKind != store.BackendSQLite {
		return fmt.Errorf("invalid store %q: must be json or sqlite", o.storeKind)
	}
	cfg.Normalize()
	o.cfg = cfg

	if err := ensureDir(filepath.Dir(cfg.Log.File)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(util.LoggerOptions{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Format:  util.LogFormat(cfg.Log.Format),
		Console: o.debug,
	}); err != nil {
		return fmt.Errorf("failed to initialise logging: %w", err)
	}
	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return err
	}

	if _, err := formatter.New(o.outputFormat, io.Discard); err != nil {
		return err
	}

	st, err := store.Open(cfg.Store, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open %s store in %s: %w", cfg.Store, cfg.DataDir, err)
	}
	a, err := app.Open(st, app.WithClock(o.now))
	if err != nil {
		_ = st.Close()
		return err
	}
	o.st, o.app = st, a
	util.LogDebug("command started", util.F("command", cmd.CommandPath()), util.F("store", st.Location()))
	return nil
}

func (o *rootOptions) teardown() error {
	defer util.CloseLogger()
	if o.st == nil {
		return nil
	}
	err := o.st.Close()
	o.st, o.app = nil, nil
	return err
}

// print writes v in the selected output format.
func (o *rootOptions) print(cmd *cobra.Command, v any) error {
	f, err := formatter.New(o.outputFormat, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return f.Format(v)
}

// notice prints a one-line result, with data attached for JSON.
func (o *rootOptions) notice(cmd *cobra.Command, data any, format string, args ...any) error {
	return o.print(cmd, formatter.Notice{Message: fmt.Sprintf(format, args...), Data: data})
}

// interactive reports whether the human-oriented table output is active.
func (o *rootOptions) interactive() bool {
	return o.outputFormat == "" || o.outputFormat == formatter.FormatTable
}

// discover pays a section's first-visit reward when gamification is on.
// It never fails the command.
func (o *rootOptions) discover(cmd *cobra.Command, id string) {
	r, paid, err := o.app.Discover(id)
	if err != nil {
		if !errors.Is(err, app.ErrGamificationDisabled) {
			util.LogWarn("discovery failed", util.F("id", id), util.F("error", err))
		}
		return
	}
	if paid && o.interactive() {
		fmt.Fprintf(cmd.ErrOrStderr(), "✨ Discovered %s: +%d credits, +%d XP\n", id, r.Credits, r.XP)
	}
}

// now is the injected clock, or the configured time provider.
func (o *rootOptions) now() time.Time {
	if o.clock != nil {
		return o.clock()
	}
	return util.GetTimeProvider().Now()
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
