package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	port       string
	configPath string
	dataDir    string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	if envPort == "" {
		envPort = "8080"
	}
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}
	envData := os.Getenv("DATA_DIR")
	if envData == "" {
		envData = "data"
	}

	cmd := &cobra.Command{
		Use:   "cyberaware",
		Short: "Security-awareness quiz engine with local progression and leaderboard",
	}

	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port to listen on")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", envData, "directory for record files (file backend)")
	cmd.AddCommand(NewStartCmd(&configPath, &port, &dataDir))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	return cmd
}
