package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sonarprep/sonarprep/internal/adapters/outbound/credentials"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/downloader"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/localcfg"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/webapi"
	"github.com/sonarprep/sonarprep/internal/domain"
	"github.com/sonarprep/sonarprep/internal/logging"
)

// tokenEnvVar overrides the keyring token when set. It outranks the
// keyring but not the --token flag.
const tokenEnvVar = "SONARPREP_TOKEN"

// serverFlags are the connection options every server-facing command
// shares.
type serverFlags struct {
	serverURL string
	token     string
}

func (f *serverFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.serverURL, "server", "", "Quality server base URL")
	cmd.Flags().StringVar(&f.token, "token", "", "Authentication token (falls back to "+tokenEnvVar+", then the OS keyring)")
}

// resolveServerURL applies the precedence chain: flag, then project
// settings, then the per-user fallback file.
func resolveServerURL(flagURL string, settings domain.ProjectSettings) (string, error) {
	if flagURL != "" {
		return flagURL, nil
	}
	if settings.ServerURL != "" {
		return settings.ServerURL, nil
	}

	global, err := localcfg.New().LoadGlobal()
	if err != nil {
		return "", err
	}
	if global.ServerURL != "" {
		return global.ServerURL, nil
	}

	return "", fmt.Errorf("no server URL configured (use --server, sonarprep.yaml, or %s)", localcfg.GlobalPath())
}

// resolveToken applies the precedence chain: flag, environment, keyring.
// An unauthenticated connection is valid, so no token is not an error.
func resolveToken(flagToken, serverURL string) string {
	if flagToken != "" {
		return flagToken
	}
	if env := os.Getenv(tokenEnvVar); env != "" {
		return env
	}
	if token, err := credentials.New().Get(serverURL); err == nil {
		return token
	}
	return ""
}

// newServerClient builds the web-API client for a resolved connection.
func (f *serverFlags) newServerClient(settings domain.ProjectSettings) (*webapi.Client, error) {
	serverURL, err := resolveServerURL(f.serverURL, settings)
	if err != nil {
		return nil, err
	}

	d := downloader.New()
	if token := resolveToken(f.token, serverURL); token != "" {
		d = d.WithToken(token)
	} else {
		logging.Debug("no token resolved, connecting anonymously", "server", serverURL)
	}

	return webapi.New(serverURL, d), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
