package main

import (
	"fmt"
	"os"
	"time"

	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"

	"github.com/maloquacious/timetracker/internal/config"
	"github.com/maloquacious/timetracker/internal/logger"
	"github.com/maloquacious/timetracker/internal/store"
	"github.com/maloquacious/timetracker/internal/store/sqlite"
)

var (
	version   = semver.Version{Minor: 1, PreRelease: "alpha", Build: semver.Commit()}
	buildDate = ""
)

// app carries the resolved configuration and logger for one invocation.
type app struct {
	cfg config.Config
	log *logger.CharmLogger
}

func main() {
	a := &app{}
	err := newRootCmd(a).Execute()
	if cerr := a.close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "close log: %v\n", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

// close releases the logger. It runs after Execute because cobra skips
// post-run hooks when a command fails.
func (a *app) close() error {
	if a.log == nil {
		return nil
	}
	err := a.log.Close()
	a.log = nil
	return err
}

func newRootCmd(a *app) *cobra.Command {
	var (
		storeDir   string
		debug      bool
		logFile    string
		shutdownTO time.Duration
	)

	rootCmd := &cobra.Command{
		Use:           "timetracker",
		Short:         "Track elapsed time entries in a local database",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("store") {
				cfg.StoreDir = storeDir
			}
			if flags.Changed("debug") {
				cfg.Debug = debug
			}
			if flags.Changed("log-file") {
				cfg.LogFile = logFile
			}
			if flags.Changed("shutdown-timeout") {
				cfg.ShutdownTimeout = shutdownTO
			}
			a.cfg = cfg
			a.log = logger.New(logger.Config{Debug: cfg.Debug, File: cfg.LogFile})
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&storeDir, "store", ".", "directory holding "+store.DefaultDBFile)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this rotating file")
	rootCmd.PersistentFlags().DurationVar(&shutdownTO, "shutdown-timeout", 15*time.Second, "graceful shutdown timeout")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build and schema version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "timetracker %s (schema %s) %s\n", version.String(), store.SchemaVersion, buildDate)
		},
	}

	rootCmd.AddCommand(versionCmd, a.serveCmd(), a.dbCmd())
	rootCmd.AddCommand(a.entryCmds()...)
	return rootCmd
}

func (a *app) dbPath() string {
	return store.GetDBPath(store.GetStorePath(a.cfg.StoreDir))
}

// openStore opens the shared store handle, creating the database if absent.
func (a *app) openStore() (*sqlite.SQLiteStore, error) {
	path := a.dbPath()
	a.log.Debug("opening datastore %s", path)
	s, err := sqlite.Connect(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return s, nil
}
