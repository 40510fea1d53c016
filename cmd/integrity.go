package cmd

import (
	"context"
	"fmt"

	"pmteambuilder/feature/integrity"
	pokesync "pmteambuilder/feature/pokedex/sync"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the database schema, sync progress and checkpoint storage",
	Long:  `Compares the live tables to the models, reports which sync stages are unfinished and verifies the checkpoint bucket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		logg := a.logger

		svc := integrity.NewService(a.db, a.tracker, integrity.Options{
			Client: a.objects,
			Bucket: a.cfg.Storage.Bucket,
			Object: a.cfg.Progress.Object,
			Stages: pokesync.Stages(),
		}, logg)

		healthy := true

		logg.Info("Checking database schema...", zap.String("driver", a.cfg.Database.Driver))
		schema, err := svc.CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		if schema.Matched {
			logg.Info("Schema matches the models.")
		} else {
			healthy = false
			logg.Warn("Schema mismatches found", zap.String("dialect", schema.Dialect))
			for table, tbl := range schema.Tables {
				if tbl.Status == "ok" {
					continue
				}
				if tbl.Status == "missing" {
					logg.Warn("Missing Table", zap.String("table", table))
				}
				if len(tbl.MissingColumns) > 0 {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
				}
				if len(tbl.TypeMismatches) > 0 {
					logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tbl.TypeMismatches))
				}
				if len(tbl.PrimaryKey) > 0 {
					logg.Warn("Primary Key Mismatch", zap.String("table", table), zap.Strings("live", tbl.PrimaryKey))
				}
			}
			for _, e := range schema.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}

		logg.Info("Checking sync progress...")
		syncReport, err := svc.CheckSync(ctx)
		if err != nil {
			return fmt.Errorf("sync check failed: %w", err)
		}
		if syncReport.Complete() {
			logg.Info("Every sync stage is done.", zap.Bool("all_done", syncReport.AllDone))
		} else {
			healthy = false
			logg.Warn("Sync incomplete",
				zap.Strings("not_started", syncReport.NotStarted),
				zap.Any("in_progress", syncReport.InProgress))
		}
		for stage, n := range syncReport.Entities {
			logg.Info("Entity markers", zap.String("stage", stage), zap.String("done", humanize.Comma(int64(n))))
		}
		if len(syncReport.EmptyTables) > 0 {
			healthy = false
			logg.Warn("Empty reference tables", zap.Strings("tables", syncReport.EmptyTables))
		}

		if a.objects != nil {
			logg.Info("Checking checkpoint storage...", zap.String("bucket", a.cfg.Storage.Bucket))
			st, err := svc.CheckStorage(ctx)
			if err != nil {
				return fmt.Errorf("storage check failed: %w", err)
			}
			if !st.BucketExists {
				healthy = false
				logg.Warn("Checkpoint bucket missing", zap.String("bucket", st.Bucket))
			} else if !st.ObjectExists {
				logg.Info("No checkpoint written yet", zap.String("object", st.Object))
			}
		}

		if !healthy {
			return fmt.Errorf("integrity checks found problems")
		}
		logg.Info("All integrity checks passed.")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
}
