package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/config"
	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/reconcile"
	"github.com/abhisek/lingua/internal/remote"
	"github.com/abhisek/lingua/internal/store"
)

var (
	cfg    config.Config
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:           "lingua",
	Short:         "Spaced-repetition progress tracker for language learners",
	Long:          "lingua grades answers, schedules reviews and keeps learning progress in sync across devices.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(config.Options{ConfigFile: configFile})
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if p, _ := cmd.Flags().GetString("db"); p != "" {
			loaded.DBPath = p
		}
		if l, _ := cmd.Flags().GetString("lang"); l != "" {
			loaded.Language = l
		}
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			loaded.Verbose = true
		}
		cfg = loaded

		level := slog.LevelWarn
		if cfg.Verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LINGUA_DB env var)")
	rootCmd.PersistentFlags().StringP("lang", "l", "", "Language code to work on (overrides LINGUA_LANGUAGE env var)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/lingua/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the configured database path, falling back to the
// default XDG path.
func resolveDBPath() (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// workspace bundles what most commands need: the database, the progress
// store for the selected language and, when a remote is configured, a
// syncer.
type workspace struct {
	db     *store.Store
	store  *progress.Store
	syncer *reconcile.Syncer
}

// openWorkspace opens the database and the selected language's progress.
// Callers must call close.
func openWorkspace(ctx context.Context) (*workspace, error) {
	if cfg.Language == "" {
		return nil, errors.New("no language selected: pass --lang or set LINGUA_LANGUAGE")
	}

	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	st, err := progress.Open(ctx, db.SnapshotRepo(), cfg.Language, progress.WithLogger(logger))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load progress: %w", err)
	}

	ws := &workspace{db: db, store: st}
	syncer, err := newSyncer(db)
	switch {
	case err == nil:
		ws.syncer = syncer
	case errors.Is(err, remote.ErrDisabled):
	default:
		ws.close(ctx)
		return nil, err
	}
	return ws, nil
}

func newSyncer(db *store.Store) (*reconcile.Syncer, error) {
	rcfg := cfg.Remote
	if rcfg.Kind != remote.KindNone && rcfg.DeviceID == "" {
		id, err := config.DeviceID()
		if err != nil {
			return nil, err
		}
		rcfg.DeviceID = id
	}

	r, err := remote.New(rcfg, db.SyncEventRepo(), logger)
	if err != nil {
		return nil, err
	}
	return reconcile.NewSyncer(r,
		reconcile.WithLogger(logger),
		reconcile.WithDeviceID(rcfg.DeviceID),
		reconcile.WithTimeout(rcfg.Timeout),
	), nil
}

func (w *workspace) close(ctx context.Context) {
	if err := w.store.Close(ctx); err != nil {
		logger.Warn("flush progress", "language", w.store.Language(), "error", err)
	}
	if err := w.db.Close(); err != nil {
		logger.Warn("close database", "error", err)
	}
}
