package cmd

import (
	"context"
	"fmt"
	"slices"
	"time"

	"pmteambuilder/core/progress"
	pokesync "pmteambuilder/feature/pokedex/sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	forceSync  bool
	syncStages []string
	noProgress bool
)

// syncCmd runs one reference-data sync in the foreground.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync reference data from PokeAPI",
	Long: `Runs the sync once and exits. The run resumes from the checkpoint unless --force is given.

Examples:
  # Resume or start a full sync
  sync

  # Re-import everything
  sync --force

  # Only refresh the learnsets
  sync --stage move_learnset`,
	RunE: func(cmd *cobra.Command, args []string) error {
		all := pokesync.Stages()
		for _, s := range syncStages {
			if !slices.Contains(all, s) {
				return fmt.Errorf("unknown stage %q, expected one of %v", s, all)
			}
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		stop := func() {}
		if !noProgress {
			stop = watchStages(ctx, a.tracker, stagesOf(syncStages))
		}
		rep, err := a.orchestrator.Run(ctx, pokesync.Options{Force: forceSync, Only: syncStages})
		stop()
		if rep != nil {
			printSyncSummary(rep)
		}
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		a.logger.Info("Sync completed", zap.Bool("all_done", rep.AllDone), zap.Duration("duration", rep.Duration))
		return nil
	},
}

func stagesOf(only []string) []string {
	if len(only) > 0 {
		return only
	}
	return pokesync.Stages()
}

// watchStages draws a bar of finished stages until the returned stop is called.
func watchStages(ctx context.Context, tracker *progress.Tracker, stages []string) func() {
	bar := pb.Full.Start(len(stages))
	bar.Set("prefix", "stages ")
	bar.Set(pb.CleanOnFinish, true)

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			n := 0
			for _, s := range stages {
				if tracker.IsDone(s) {
					n++
				}
			}
			bar.SetCurrent(int64(n))
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return func() {
		close(done)
		<-finished
		bar.Finish()
	}
}

func printSyncSummary(rep *pokesync.Report) {
	fmt.Println("\n=== Sync Summary ===")
	if rep.Skipped {
		fmt.Println("Reference data already synced; run with --force to re-import.")
		return
	}
	for _, s := range rep.Stages {
		status := "complete"
		switch {
		case s.Skipped:
			status = "skipped"
		case s.Contended:
			status = "locked elsewhere"
		case !s.Completed:
			status = "incomplete"
		}
		fmt.Printf("%-20s %-16s processed %s, applied %s\n",
			s.Stage, status, humanize.Comma(int64(s.Processed)), humanize.Comma(int64(s.Applied)))
	}
	for _, e := range []*pokesync.EntityReport{rep.Learnset, rep.FormAbilities} {
		if e == nil {
			continue
		}
		fmt.Printf("%-20s %s of %s entities, %s rows, %d failed\n",
			e.Stage, humanize.Comma(int64(e.Processed+e.AlreadyDone)), humanize.Comma(int64(e.Total)),
			humanize.Comma(e.Rows), e.Failed)
	}
	fmt.Printf("First generation backfill: %s updated, %s skipped\n",
		humanize.Comma(int64(rep.Backfill.Updated)), humanize.Comma(int64(rep.Backfill.Skipped)))
	fmt.Printf("All done: %t (started %s, took %s)\n", rep.AllDone, humanize.Time(rep.StartedAt), rep.Duration.Round(time.Millisecond))
	if rep.Error != "" {
		fmt.Printf("Error: %s\n", rep.Error)
	}
}

func init() {
	RootCmd.AddCommand(syncCmd)
	syncCmd.Flags().BoolVar(&forceSync, "force", false, "Ignore the checkpoint and re-import everything")
	syncCmd.Flags().StringSliceVar(&syncStages, "stage", nil, "Only run these stages (repeatable)")
	syncCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
}
