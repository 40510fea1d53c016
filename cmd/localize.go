package cmd

import (
	"fmt"

	"pmteambuilder/core/config"
	"pmteambuilder/feature/pokedex/localize"

	"github.com/spf13/cobra"
)

var (
	formSuffix     string
	speciesEnglish string
	speciesDisplay string
)

// localizeCmd prints the display name the sync would store for a form.
var localizeCmd = &cobra.Command{
	Use:   "localize <pokemon-name>",
	Short: "Print the localized display name of a form",
	Long: `Applies the form name rules to one pokemon name without touching the database.

Example:
  localize marowak-alola --form alola --species marowak --species-name 嘎啦嘎啦`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		names, err := localize.Load(cfg.Localize)
		if err != nil {
			return err
		}

		name := args[0]
		display := names.LocalizePokemon(name, formSuffix, speciesEnglish, speciesDisplay)
		rule := names.Rule(name, formSuffix)
		if rule == "" {
			rule = "-"
		}
		fmt.Printf("%s\t%s\t(rule: %s)\n", name, display, rule)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(localizeCmd)
	localizeCmd.Flags().StringVar(&formSuffix, "form", "", "Form suffix reported by the API (e.g. alola)")
	localizeCmd.Flags().StringVar(&speciesEnglish, "species", "", "English species name")
	localizeCmd.Flags().StringVar(&speciesDisplay, "species-name", "", "Localized species name")
}
