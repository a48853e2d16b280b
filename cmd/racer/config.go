package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lane-racer/internal/config"
	"github.com/vovakirdan/lane-racer/internal/registry"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration a session would run with, as YAML.

Use --track and --difficulty to see the result of a layout and preset.
The output is a valid racer.yaml and can be saved to ~/.racer/configs/.

Examples:
  racer config
  racer config --track highway --difficulty hard > racer.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagTrack, "track", "", "Apply a track layout")
	configCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Apply a difficulty preset")
}

func runConfig(_ *cobra.Command, _ []string) error {
	preset, err := parsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagTrack != "" || preset != "" {
		cfg, err = registry.Configure(cfg, flagTrack, preset)
		if err != nil {
			return err
		}
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	if err != nil {
		return fmt.Errorf("cannot write config: %w", err)
	}
	return nil
}
