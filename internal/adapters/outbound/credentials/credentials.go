// Package credentials stores server tokens in the operating system
// credential store (Keychain, Credential Manager, Secret Service).
package credentials

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/sonarprep/sonarprep/internal/domain"
)

const service = "sonarprep"

// ErrNoToken reports that no token is stored for a server.
var ErrNoToken = errors.New("no token stored for server")

// Manager reads and writes tokens, keyed by server URL.
type Manager struct {
	service string
}

// New creates a credential manager.
func New() *Manager {
	return &Manager{service: service}
}

// Store saves the token for a server. Blank inputs are rejected before
// the credential store is touched.
func (m *Manager) Store(serverURL, token string) error {
	if err := domain.RequireNonBlank("serverURL", serverURL, "token", token); err != nil {
		return err
	}
	if err := keyring.Set(m.service, serverURL, token); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	return nil
}

// Get returns the token stored for a server, or ErrNoToken.
func (m *Manager) Get(serverURL string) (string, error) {
	token, err := keyring.Get(m.service, serverURL)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNoToken, serverURL)
		}
		return "", fmt.Errorf("reading token: %w", err)
	}
	return token, nil
}

// Delete removes the stored token. Deleting a missing entry is not an
// error.
func (m *Manager) Delete(serverURL string) error {
	err := keyring.Delete(m.service, serverURL)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}

// Has reports whether a token is stored for the server.
func (m *Manager) Has(serverURL string) bool {
	_, err := keyring.Get(m.service, serverURL)
	return err == nil
}
