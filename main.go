package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "feelora",
		Short:         "Feelora mood check-in service",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing the .env file")

	root.AddCommand(
		newServeCmd(&configPath),
		newAnalyzeCmd(&configPath),
		newMigrateCmd(&configPath),
	)
	return root
}
