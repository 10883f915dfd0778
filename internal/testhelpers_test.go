package internal

// MemoryCredentialStore is an in-memory CredentialStore used by tests.
// ReadFails simulates an unavailable keyring: reads report "absent".
type MemoryCredentialStore struct {
	apiKey    string
	hasKey    bool
	refresh   string
	hasToken  bool
	ReadFails bool
	WriteErr  error
}

func (s *MemoryCredentialStore) APIKey() (string, bool) {
	if s.ReadFails || !s.hasKey {
		return "", false
	}
	return s.apiKey, true
}

func (s *MemoryCredentialStore) SetAPIKey(key string) error {
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.apiKey = key
	s.hasKey = true
	return nil
}

func (s *MemoryCredentialStore) DeleteAPIKey() error {
	s.apiKey = ""
	s.hasKey = false
	return nil
}

func (s *MemoryCredentialStore) RefreshToken() (string, bool) {
	if s.ReadFails || !s.hasToken {
		return "", false
	}
	return s.refresh, true
}

func (s *MemoryCredentialStore) SetRefreshToken(token string) error {
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.refresh = token
	s.hasToken = true
	return nil
}

func (s *MemoryCredentialStore) DeleteRefreshToken() error {
	s.refresh = ""
	s.hasToken = false
	return nil
}
