package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hearth-im/hearth/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify database connectivity",
	Long: `Resolve the database configuration and open a bare connection to
each configured database. Bare connections bypass the connection pools, so
a running server is not disturbed.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	section, err := config.ResolveDatabases(cfg, resolveOptions(cmd, cfg))
	if err != nil {
		return fmt.Errorf("resolve database config: %w", err)
	}

	for _, db := range section.Databases {
		conn, err := db.BareConn(ctx)
		if err != nil {
			return fmt.Errorf("connect database %s: %w", db.Name(), err)
		}

		err = conn.PingContext(ctx)
		if cerr := conn.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("ping database %s: %w", db.Name(), err)
		}

		slog.Info("database reachable",
			"db", db.Name(), "backend", db.Kind(), "data_stores", db.DataStores())
	}

	return nil
}
