package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/reconcile"
	"github.com/abhisek/lingua/internal/store"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile progress with the configured remote",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		watch, _ := cmd.Flags().GetBool("watch")

		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.close(ctx)
		if ws.syncer == nil {
			return errors.New("sync is disabled: set LINGUA_REMOTE_KIND to http or dir")
		}

		if !watch {
			rep, err := ws.syncer.Sync(ctx, ws.store)
			if err != nil {
				return err
			}
			printSyncOutcome(cmd, &rep, "")
			return nil
		}

		w := reconcile.NewWatcher(ws.syncer, cfg.SyncInterval, ws.store)
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Syncing %s every %s. Press Ctrl+C to stop.\n", ws.store.Language(), cfg.SyncInterval)
		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-sigCtx.Done()
		return nil
	},
}

var syncLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent remote sync operations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := resolveDBPath()
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		db, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer db.Close()

		events, err := db.SyncEventRepo().Query(ctx, store.QueryOpts{Limit: limit, Language: cfg.Language})
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sync operations recorded.")
			return nil
		}

		t := newTable(cmd)
		t.AppendHeader(table.Row{"When", "Language", "Backend", "Op", "Records", "Latency", "Result"})
		for _, e := range events {
			result := "ok"
			if !e.Success {
				result = e.ErrorMessage
			}
			t.AppendRow(table.Row{
				e.Timestamp.Local().Format(timeLayout),
				e.Language,
				e.Backend,
				e.Operation,
				e.Records,
				(time.Duration(e.LatencyMs) * time.Millisecond).String(),
				result,
			})
		}
		t.Render()
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolP("watch", "w", false, "Keep running and sync every sync_interval")
	syncLogCmd.Flags().IntP("limit", "n", 20, "Maximum events to show (0 = all)")
	syncCmd.AddCommand(syncLogCmd)
}
