package secrets

import (
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups this app's secrets in the OS keychain.
const KeyringService = "jobsearcher"

// EmbedAPIKey resolves the embedding provider's API key: OS keyring first
// (when an account is configured), then the environment. Empty is fine —
// local embedding servers don't authenticate.
func EmbedAPIKey(keyringAccount string) string {
	if strings.TrimSpace(keyringAccount) != "" {
		if key, err := keyring.Get(KeyringService, keyringAccount); err == nil && strings.TrimSpace(key) != "" {
			return key
		}
	}
	return strings.TrimSpace(os.Getenv("JOBSEARCHER_EMBED_API_KEY"))
}

// SetEmbedAPIKey stores the key in the OS keychain.
func SetEmbedAPIKey(keyringAccount, key string) error {
	return keyring.Set(KeyringService, keyringAccount, key)
}
