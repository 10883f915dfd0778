package internal

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	keyringAPIKey       = "api_key"
	keyringRefreshToken = "refresh_token"
)

// CredentialStore persists the API key and refresh token outside the
// configuration file. Read failures are reported as "absent" so that a
// broken or locked keyring degrades to an unauthenticated session instead
// of crashing the CLI.
type CredentialStore interface {
	APIKey() (string, bool)
	SetAPIKey(key string) error
	DeleteAPIKey() error
	RefreshToken() (string, bool)
	SetRefreshToken(token string) error
	DeleteRefreshToken() error
}

// KeyringStore stores credentials in the OS keyring
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a credential store backed by the OS keyring
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: KeyringService}
}

func (s *KeyringStore) APIKey() (string, bool) {
	value, err := keyring.Get(s.service, keyringAPIKey)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			LogDebug("keyring read failed: %v", err)
		}
		return "", false
	}
	return value, true
}

func (s *KeyringStore) SetAPIKey(key string) error {
	return keyring.Set(s.service, keyringAPIKey, key)
}

func (s *KeyringStore) DeleteAPIKey() error {
	if err := keyring.Delete(s.service, keyringAPIKey); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

func (s *KeyringStore) RefreshToken() (string, bool) {
	value, err := keyring.Get(s.service, keyringRefreshToken)
	if err != nil {
		return "", false
	}
	return value, true
}

func (s *KeyringStore) SetRefreshToken(token string) error {
	return keyring.Set(s.service, keyringRefreshToken, token)
}

func (s *KeyringStore) DeleteRefreshToken() error {
	if err := keyring.Delete(s.service, keyringRefreshToken); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

// IsAuthenticated reports whether an API key is stored locally. It never
// fails; a credential store error just means "not authenticated".
func IsAuthenticated(store CredentialStore) bool {
	_, ok := store.APIKey()
	return ok
}

// ClearCredentials removes both secrets from the store and the cached
// identity from the configuration. Deletion errors on individual entries
// are logged, not returned, so one stuck entry cannot block logout.
func ClearCredentials(store CredentialStore, cfg *Config) error {
	if err := store.DeleteAPIKey(); err != nil {
		LogWarn("failed to delete api key: %v", err)
	}
	if err := store.DeleteRefreshToken(); err != nil {
		LogWarn("failed to delete refresh token: %v", err)
	}
	cfg.Username = ""
	cfg.Organization = ""
	return cfg.Save()
}
