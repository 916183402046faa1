// internal/auth/provider.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

var ErrNoToken = errors.New("no auth token available")

// TokenProvider supplies the bearer token for every authenticated call.
// Returning ErrNoToken means the caller must not retry until auth state
// changes; the subsystem never refreshes tokens itself.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticProvider returns a fixed token. Used in tests and for one-shot runs.
type StaticProvider struct {
	Value string
}

func (p StaticProvider) Token(ctx context.Context) (string, error) {
	if p.Value == "" {
		return "", ErrNoToken
	}
	return p.Value, nil
}

// EnvProvider reads the token from an environment variable on every call so
// an externally refreshed token is picked up without a restart.
type EnvProvider struct {
	Key string
}

func (p EnvProvider) Token(ctx context.Context) (string, error) {
	v := os.Getenv(p.Key)
	if v == "" {
		return "", ErrNoToken
	}
	return v, nil
}

// KeyringProvider reads the token from the OS keyring, where the login flow
// of the desktop client stores it.
type KeyringProvider struct {
	ServiceName string
	Key         string
	FileDir     string
}

func (p KeyringProvider) Token(ctx context.Context) (string, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: p.ServiceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  p.FileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt(p.ServiceName + "-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return "", fmt.Errorf("opening keyring: %w", err)
	}

	item, err := ring.Get(p.Key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("getting token %q: %w", p.Key, err)
	}
	if len(item.Data) == 0 {
		return "", ErrNoToken
	}
	return string(item.Data), nil
}
