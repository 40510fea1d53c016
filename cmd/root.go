package cmd

import (
	"fmt"
	"os"

	"pmteambuilder/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd is the pmteambuilder entry point. Subcommands register themselves in init.
var RootCmd = &cobra.Command{
	Use:   "pmteambuilder",
	Short: "Pokémon team builder backend",
	Long: `pmteambuilder keeps a local copy of Pokémon reference data in sync with PokeAPI
and serves the cached reads a team builder needs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the selected command and exits non-zero when it fails.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
