package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lorekeep/lorekeep/internal/client/config"
	"github.com/lorekeep/lorekeep/internal/wikisdk"
)

func init() {
	rootCmd.AddCommand(newLoginCmd())
}

func newLoginCmd() *cobra.Command {
	var email string
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save server credentials for the Lorekeep CLI",
		Long: "Verifies the server connection and writes the config file.\n" +
			"Mint a token on the server with 'lorekeep-server token --email you@example.com'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, _ := cmd.Flags().GetString("server")
			if serverURL == "" {
				serverURL = config.DefaultServerURL
			}
			cfg := &config.Config{
				ServerURL: serverURL,
				Email:     email,
				Token:     token,
				HistoryDb: config.DefaultHistoryDb,
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			sdk, err := wikisdk.New(&wikisdk.Config{BaseURL: cfg.ServerURL, Token: cfg.Token})
			if err != nil {
				return err
			}
			defer sdk.Close()

			if _, err := sdk.Jobs.Poll(cmd.Context()); err != nil {
				return fmt.Errorf("could not reach %s: %w", cfg.ServerURL, err)
			}

			configPath := cmd.Flag("config").Value.String()
			if err := cfg.Save(configPath); err != nil {
				return err
			}

			fmt.Printf("%s connected to %s\n", green.Render("OK"), cfg.ServerURL)
			fmt.Printf("config saved to %s\n", gray.Render(configPath))
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&token, "token", "t", "", "Access token minted by the server")
	return cmd
}
