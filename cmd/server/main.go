package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lorekeep/lorekeep/internal/server"
	"github.com/lorekeep/lorekeep/internal/server/auth"
	"github.com/lorekeep/lorekeep/internal/version"
)

func main() {
	var configPath string
	var addr string

	_ = godotenv.Load()

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:     "lorekeep-server",
		Short:   "Lorekeep Server CLI",
		Version: version.Detailed(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("bind") {
				cfg.HTTP.Addr = addr
			}

			s, err := server.New(cfg)
			if err != nil {
				return err
			}
			defer slog.Info("Bye!")
			return s.Start(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML config file")
	rootCmd.Flags().StringVarP(&addr, "bind", "b", server.DefaultAddr, "Address to bind the server")
	rootCmd.AddCommand(newTokenCmd(&configPath))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newTokenCmd(configPath *string) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig(*configPath)
			if err != nil {
				return err
			}

			svc := auth.New(cfg.Auth.AuthServiceConfig())
			token, err := svc.GenerateAccessToken(email)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Email to mint the token for")
	cmd.MarkFlagRequired("email")
	return cmd
}
