// Command marketbot runs the classified-ads Telegram bot.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m3rciful/marketbot/core/bootstrap"
	"github.com/m3rciful/marketbot/core/buildinfo"
	corecmd "github.com/m3rciful/marketbot/core/cmd"
	coredatabase "github.com/m3rciful/marketbot/core/database"
	"github.com/m3rciful/marketbot/core/logger"
	"github.com/m3rciful/marketbot/internal/bot"
	"github.com/m3rciful/marketbot/internal/storage"
)

const defaultConfigPath = "config.yaml"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "marketbot",
	Short:         "Telegram bot for buy and sell listings",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(*cobra.Command, []string) error {
		return corecmd.Run(corecmd.Options{
			ConfigPath:        configPath,
			DefaultConfigPath: defaultConfigPath,
			LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
				cfg, err := bot.LoadConfig(path)
				if err != nil {
					return nil, err
				}
				return cfg, nil
			},
			Bootstrap: bootstrapApp,
		})
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(*cobra.Command, []string) error {
		cfg, err := bot.LoadConfig(resolvedConfigPath())
		if err != nil {
			return err
		}
		if err := logger.InitLogger(&cfg.Config); err != nil {
			return err
		}
		defer logger.Shutdown()
		return coredatabase.RunMigrations(cfg.Database)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "marketbot %s (%s) %s\n", buildinfo.Version, buildinfo.Commit, buildinfo.Date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config.yaml (or set CONFIG_PATH)")
	rootCmd.AddCommand(migrateCmd, versionCmd)
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return defaultConfigPath
}

func bootstrapApp(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*bot.Config)
	if !ok {
		return nil, fmt.Errorf("unexpected config type %T", carrier)
	}
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Config,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}
	return bot.New(cfg, storage.New(res.DB), res.DB.Close), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
