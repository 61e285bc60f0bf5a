package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sonarprep/sonarprep/internal/adapters/outbound/credentials"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/localcfg"
	"github.com/sonarprep/sonarprep/internal/domain"
	"github.com/sonarprep/sonarprep/internal/logging"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage server credentials",
		Long:  "Store, inspect and remove the authentication token for a quality server. Tokens live in the OS keyring, never in configuration files.",
	}
	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthStatusCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		serverURL string
		token     string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a server token in the OS keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := localcfg.New().Load(".")
			if err != nil {
				return err
			}
			resolved, err := resolveServerURL(serverURL, settings)
			if err != nil {
				return err
			}

			if token == "" {
				token = os.Getenv(tokenEnvVar)
			}
			if token == "" {
				return fmt.Errorf("no token given (use --token or %s)", tokenEnvVar)
			}

			if err := credentials.New().Store(resolved, token); err != nil {
				return err
			}

			// The last login becomes the user-wide default server so later
			// commands resolve it without flags.
			if err := localcfg.New().SaveGlobal(domain.GlobalSettings{ServerURL: resolved}); err != nil {
				logging.Warn("could not save global settings", "error", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "token stored for %s\n", resolved)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Quality server base URL")
	cmd.Flags().StringVar(&token, "token", "", "Token to store (falls back to "+tokenEnvVar+")")
	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token for a server",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := localcfg.New().Load(".")
			if err != nil {
				return err
			}
			resolved, err := resolveServerURL(serverURL, settings)
			if err != nil {
				return err
			}

			if err := credentials.New().Delete(resolved); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "token removed for %s\n", resolved)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Quality server base URL")
	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show where the server token comes from",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := localcfg.New().Load(".")
			if err != nil {
				return err
			}
			resolved, err := resolveServerURL(serverURL, settings)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case os.Getenv(tokenEnvVar) != "":
				fmt.Fprintf(out, "%s: token from %s\n", resolved, tokenEnvVar)
			case credentials.New().Has(resolved):
				fmt.Fprintf(out, "%s: token stored in the OS keyring\n", resolved)
			default:
				fmt.Fprintf(out, "%s: not logged in\n", resolved)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Quality server base URL")
	return cmd
}
