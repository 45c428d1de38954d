package main

import (
	"fmt"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/hearth-im/hearth/config"
	"github.com/hearth-im/hearth/database/postgres"
	"github.com/hearth-im/hearth/database/sqlite"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print an example database config section",
	Long: `Print the commented example database section of a config file.

By default the section documents the default SQLite database under the
configured data directory. With --interactive you are prompted for the
backend and its connection arguments instead.`,
	RunE: runGenerate,
}

var interactive bool

func init() {
	generateCmd.Flags().BoolVar(&interactive, "interactive", false, "prompt for backend and connection arguments")

	configCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(configCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var databaseConf map[string]any
	if interactive {
		databaseConf, err = promptDatabaseConf(cfg.Server.DataDir)
		if err != nil {
			return err
		}
	}

	section, err := config.GenerateDatabaseSection(cfg.Server.DataDir, databaseConf)
	if err != nil {
		return err
	}

	fmt.Print(section)
	return nil
}

func promptDatabaseConf(dataDir string) (map[string]any, error) {
	backendPrompt := promptui.Select{
		Label: "Database backend",
		Items: []string{sqlite.Kind, postgres.Kind},
	}
	_, backend, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("select backend: %w", err)
	}

	if backend == sqlite.Kind {
		pathPrompt := promptui.Prompt{
			Label:   "Database path",
			Default: filepath.Join(dataDir, config.DefaultDatabaseFile),
		}
		path, err := pathPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("read database path: %w", err)
		}
		return map[string]any{
			"name": sqlite.Kind,
			"args": map[string]any{"database": path},
		}, nil
	}

	args := map[string]any{}
	for _, field := range []struct{ key, label, def string }{
		{"host", "Host", "localhost"},
		{"database", "Database name", "hearth"},
		{"user", "User", "hearth"},
	} {
		prompt := promptui.Prompt{Label: field.label, Default: field.def}
		value, err := prompt.Run()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", field.key, err)
		}
		args[field.key] = value
	}

	return map[string]any{
		"name": postgres.Kind,
		"args": args,
	}, nil
}
