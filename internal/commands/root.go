package commands

import (
	"github.com/spf13/cobra"

	"github.com/balkashynov/record/internal/config"
	"github.com/balkashynov/record/internal/db"
	recerr "github.com/balkashynov/record/internal/errors"
	"github.com/balkashynov/record/internal/logging"
	"github.com/balkashynov/record/internal/tracker"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "record",
	Short: "Record when work on a task starts and ends",
	Long: `record keeps a log of work sessions in a local sqlite file.
Mark the start of a task, mark its end, and print what you did today.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp(cmd.OutOrStdout())
	},
}

// app is everything a command needs, opened once per invocation.
type app struct {
	cfg     *config.Config
	log     *logging.Logger
	store   *db.Store
	tracker *tracker.Manager
}

// openApp resolves the configuration, opens the trace log and the store.
func openApp(cmd *cobra.Command) (*app, error) {
	v := config.NewViper()
	if f := cmd.Flags().Lookup("verbose"); f != nil {
		_ = v.BindPFlag(config.KeyDebug, f)
	}
	if f := cmd.Flags().Lookup("db"); f != nil && f.Changed {
		_ = v.BindPFlag(config.KeyDBFile, f)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	log, err := logging.NewLogger(cfg.LogFile, cfg.Debug)
	if err != nil {
		return nil, recerr.NewConfigError(config.KeyLogFile, "cannot open trace log", err)
	}
	log.Info("================================================================")
	log.Info("setting up db", "path", cfg.DBFile, "command", cmd.Name())

	store, err := db.Setup(cfg.DBFile, db.WithLogger(log))
	if err != nil {
		log.Error("storage setup failed", "error", err)
		log.Close()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		tracker: tracker.New(store, tracker.WithLogger(log)),
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("closing store", "error", err)
	}
	a.log.Close()
}

// withApp opens the app, runs fn and closes everything again on every path.
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		if err := fn(cmd, args, a); err != nil {
			if recerr.IsUserFacing(err) {
				a.log.Info("command rejected", "command", cmd.Name(), "error", err)
			} else {
				a.log.Error("command failed", "command", cmd.Name(), "error", err)
			}
			return err
		}
		return nil
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = v + " (" + c + ", " + d + ")"
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Write debug lines to the trace log")
	rootCmd.PersistentFlags().String("db", "", "Storage file (default ~/.record/db.sqlite)")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(endCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.SetHelpCommand(helpCmd)
}
