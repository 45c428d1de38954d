package main

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hearth-im/hearth/config"
)

func init() {
	setDefaults()
}

func setDefaults() {
	viper.SetDefault("server.port", 8008)
	viper.SetDefault("server.data_dir", "./data")

	viper.SetDefault("event_cache_size", config.DefaultEventCacheSize)

	viper.SetDefault("log.level", "info")
}

func readConfig(cmd *cobra.Command) {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		slog.Warn("failed to bind flags", "err", err)
	}

	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("homeserver")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("HEARTH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			slog.Warn("error reading config file", "err", err)
		}
	}
}

// loadConfig builds the validated config for a subcommand run.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var files []string
	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		files = []string{configFile}
	}
	return config.Load(files, cmd.Flags())
}

// resolveOptions gathers the non-file inputs to database resolution: the
// data directory, the directory relative paths resolve against, and the
// CLI database-path override.
func resolveOptions(cmd *cobra.Command, cfg *config.Config) config.ResolveOptions {
	databasePath, _ := cmd.Flags().GetString("database-path")

	baseDir, err := os.Getwd()
	if err != nil {
		baseDir = "."
	}

	return config.ResolveOptions{
		DataDir:      cfg.Server.DataDir,
		BaseDir:      baseDir,
		DatabasePath: databasePath,
	}
}
