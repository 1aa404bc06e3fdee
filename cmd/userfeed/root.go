package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/saturnines/userfeed/pkg/config"
	"github.com/saturnines/userfeed/pkg/logger"
)

var (
	configPath string
	envFile    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "userfeed",
	Short:         "Browse randomly generated user profiles",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnv(envFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "feed config file (YAML); defaults apply when empty")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load if present")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logger.level from the config")

	rootCmd.AddCommand(fetchCmd, browseCmd)
}

// loadEnv loads a dotenv file. A missing file is not an error.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// loadConfig reads --config, or builds the default feed when it is empty.
func loadConfig() (*config.Feed, error) {
	loader := config.NewDefaultLoader()
	if configPath == "" {
		return loader.Default()
	}
	return loader.Load(configPath)
}

// newLogger builds the logger for cfg. The closer must be closed on exit.
func newLogger(cfg *config.Feed) (zerolog.Logger, io.Closer, error) {
	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}
	return logger.New(&cfg.Logger)
}
