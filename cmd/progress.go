package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"pmteambuilder/core/config"
	"pmteambuilder/core/logger"
	"pmteambuilder/core/progress"
	"pmteambuilder/core/storage"
	"pmteambuilder/feature/integrity/checks"
	pokesync "pmteambuilder/feature/pokedex/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var jsonProgress bool

// progressCmd is the parent command for checkpoint operations.
var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect or reset the sync checkpoint",
}

var progressShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the sync checkpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker, _, err := openTracker(cmd.Context())
		if err != nil {
			return err
		}
		state := tracker.Snapshot()

		if jsonProgress {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(state)
		}

		report := checks.CheckProgress(state, pokesync.Stages())
		fmt.Println("=== Sync Checkpoint ===")
		fmt.Printf("All done: %t\n", report.AllDone)
		for _, s := range pokesync.Stages() {
			status := "not started"
			switch {
			case slices.Contains(report.Done, s):
				status = "done"
			case report.InProgress[s] > 0:
				status = fmt.Sprintf("resume at %d", report.InProgress[s])
			case slices.Contains(report.NotStarted, s):
			default:
				status = "started"
			}
			if n := report.Entities[s]; n > 0 {
				status += fmt.Sprintf(" (%d entities done)", n)
			}
			if slices.Contains(report.Refreshing, s) {
				status += ", forced refresh pending"
			}
			fmt.Printf("%-20s %s\n", s, status)
		}
		return nil
	},
}

var progressResetCmd = &cobra.Command{
	Use:   "reset [stage...]",
	Short: "Forget checkpoints so the next sync starts over",
	Long: `Without arguments the whole checkpoint is cleared. With stage names only those
stages and their per-entity markers are forgotten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		tracker, logg, err := openTracker(ctx)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			if err := tracker.Reset(ctx); err != nil {
				return fmt.Errorf("failed to reset checkpoint: %w", err)
			}
			logg.Info("Checkpoint cleared")
			return nil
		}

		all := pokesync.Stages()
		for _, stage := range args {
			if !slices.Contains(all, stage) {
				return fmt.Errorf("unknown stage %q, expected one of %v", stage, all)
			}
		}

		forgotten := 0
		keys := tracker.Snapshot().Keys()
		for _, stage := range args {
			for _, key := range keys {
				if key == stage || strings.HasPrefix(key, stage+":") {
					forgotten++
				}
			}
			if err := tracker.Forget(ctx, stage); err != nil {
				return fmt.Errorf("failed to forget %s: %w", stage, err)
			}
			if err := tracker.ForgetPrefix(ctx, stage+":"); err != nil {
				return fmt.Errorf("failed to forget %s markers: %w", stage, err)
			}
		}
		logg.Info("Stage checkpoints forgotten", zap.Strings("stages", args), zap.Int("keys", forgotten))
		return nil
	},
}

// openTracker loads the checkpoint without touching the database.
func openTracker(ctx context.Context) (*progress.Tracker, *zap.Logger, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	var client storage.Client
	if cfg.Progress.Backend == progress.BackendObject {
		if client, err = storage.NewClient(cfg.Storage); err != nil {
			return nil, nil, fmt.Errorf("failed to create storage client: %w", err)
		}
	}
	store, err := progress.NewStore(cfg.Progress, client, cfg.Storage.Bucket, logg)
	if err != nil {
		return nil, nil, err
	}
	tracker, err := progress.NewTracker(ctx, store, logg)
	if err != nil {
		return nil, nil, err
	}
	return tracker, logg, nil
}

func init() {
	RootCmd.AddCommand(progressCmd)
	progressCmd.AddCommand(progressShowCmd, progressResetCmd)
	progressShowCmd.Flags().BoolVar(&jsonProgress, "json", false, "Print the raw checkpoint as JSON")
}
