package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// Execute parses arguments and runs the selected command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "quiz-chat-service",
		Short:        "Turn-based quiz conversation service for chat channels",
		SilenceUsage: true,
	}

	// Flags fall back to the environment, so container deployments can
	// skip the command line entirely.
	port := envOr("PORT", "8080")
	configPath := envOr("CONFIG_PATH", "config/config.yaml")
	root.PersistentFlags().StringVar(&configPath, "config", configPath, "path to YAML config")
	root.PersistentFlags().StringVar(&port, "port", port, "port to listen on")

	root.AddCommand(
		NewServeCmd(&configPath, &port),
		NewMigrateCmd(&configPath),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
