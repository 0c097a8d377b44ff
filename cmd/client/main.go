package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lorekeep/lorekeep/internal/client/config"
	"github.com/lorekeep/lorekeep/internal/utils"
	"github.com/lorekeep/lorekeep/internal/version"
)

var (
	home, _        = os.UserHomeDir()
	configFileName = "config"
)

var rootCmd = &cobra.Command{
	Use:           "lorekeep",
	Short:         "Lorekeep CLI",
	Version:       version.Detailed(),
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultConfigPath, "Lorekeep config file")
	rootCmd.PersistentFlags().StringP("server", "s", "", "Lorekeep server URL")
}

func main() {
	setupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", errorHeaderStyle.Render("ERROR:"), err)
		os.Exit(1)
	}
}

func setupLogging() {
	logFile := filepath.Join(home, ".lorekeep", "logs", "client.log")
	handlers := []slog.Handler{}

	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err == nil {
		if file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			handlers = append(handlers, slog.NewTextHandler(file, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}))
		}
	}

	if os.Getenv("LOREKEEP_DEBUG") != "" {
		handlers = append(handlers, tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: "15:04:05.000",
			NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		}))
	}

	slog.SetDefault(slog.New(utils.NewMultiLogHandler(handlers...)))
}

func loadConfig(cmd *cobra.Command) error {
	if cmd.Flag("config").Changed {
		configFilePath, _ := cmd.Flags().GetString("config")
		viper.SetConfigFile(configFilePath)
	} else {
		viper.AddConfigPath(filepath.Join(home, ".lorekeep"))
		viper.AddConfigPath(filepath.Join(home, ".config/lorekeep"))
		viper.SetConfigName(configFileName)
		viper.SetConfigType("json")
	}

	if err := viper.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !enoent && !notFound {
			return fmt.Errorf("config read '%s': %w", viper.ConfigFileUsed(), err)
		}
	}

	viper.BindPFlag("server_url", cmd.Flags().Lookup("server"))

	viper.SetEnvPrefix("LOREKEEP")
	viper.AutomaticEnv()
	return nil
}

// currentConfig assembles the effective config from file, env and flags.
func currentConfig() (*config.Config, error) {
	cfg := &config.Config{
		Path:      viper.ConfigFileUsed(),
		ServerURL: viper.GetString("server_url"),
		Email:     viper.GetString("email"),
		Token:     viper.GetString("token"),
		HistoryDb: viper.GetString("history_db"),
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = config.DefaultServerURL
	}
	if cfg.HistoryDb == "" {
		cfg.HistoryDb = config.DefaultHistoryDb
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
