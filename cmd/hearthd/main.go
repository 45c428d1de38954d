package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "hearthd",
	Short:   "Hearth homeserver daemon",
	Long: `Hearthd is the hearth homeserver daemon. Server state is persisted
in one or more physical databases (embedded SQLite or PostgreSQL), each
shared by the logical data stores assigned to it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		readConfig(cmd)
		setupLogging()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./homeserver.yaml)")
	rootCmd.PersistentFlags().StringP("database-path", "d", "", "path to a sqlite database to use (overrides the configured path)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
