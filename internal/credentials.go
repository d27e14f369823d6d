package internal

// CredentialProviders lists the provider names a credential can be stored for
var CredentialProviders = []string{"gemini", "groq", "openai", "anthropic"}

// CredentialKey returns the storage key for a provider's API key
func CredentialKey(provider string) string {
	return provider + "_api_key"
}

// CredentialStore holds per-provider API keys. Values are opaque; an empty
// string means "not configured".
type CredentialStore struct {
	kv KeyValueStore
}

// NewCredentialStore creates a credential store over kv
func NewCredentialStore(kv KeyValueStore) *CredentialStore {
	return &CredentialStore{kv: kv}
}

// Get returns the stored key, or "" when missing or unreadable
func (c *CredentialStore) Get(provider string) string {
	value, err := c.kv.Get(CredentialKey(provider))
	if err != nil {
		LogWarn("Failed to read %s credential: %v", provider, err)
		return ""
	}
	return value
}

// Set persists the key before returning
func (c *CredentialStore) Set(provider, value string) error {
	return c.kv.Set(CredentialKey(provider), value)
}

// ClearAll removes every stored credential
func (c *CredentialStore) ClearAll() error {
	for _, p := range CredentialProviders {
		if err := c.kv.Delete(CredentialKey(p)); err != nil {
			return err
		}
	}
	return nil
}

// Configured returns the providers that have a non-empty key, in CredentialProviders order
func (c *CredentialStore) Configured() []string {
	var configured []string
	for _, p := range CredentialProviders {
		if c.Get(p) != "" {
			configured = append(configured, p)
		}
	}
	return configured
}
