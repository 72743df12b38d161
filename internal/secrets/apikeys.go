package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// "Service" groups the engine's secrets in the OS keychain.
	KeyringService = "leadscout"

	serpAccount  = "serp_api_keys"
	emailAccount = "email_api_key"

	envSerpKeys = "LEADSCOUT_SERP_KEYS" // comma separated
	envEmailKey = "LEADSCOUT_EMAIL_KEY"
)

// SerpAPIKeys returns the rotating search credentials, keyring first, env
// fallback. Empty is fine: the DDG HTML backend needs no key.
func SerpAPIKeys() []string {
	raw, err := keyring.Get(KeyringService, serpAccount)
	if err != nil || strings.TrimSpace(raw) == "" {
		raw = os.Getenv(envSerpKeys)
	}
	return splitKeys(raw)
}

// EmailAPIKey returns the bulk-email provider credential. Missing is fatal at
// startup only — never checked mid-run.
func EmailAPIKey() (string, error) {
	if pw, err := keyring.Get(KeyringService, emailAccount); err == nil && strings.TrimSpace(pw) != "" {
		return strings.TrimSpace(pw), nil
	}
	if v := strings.TrimSpace(os.Getenv(envEmailKey)); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("email provider key not found (set keychain %s/%s or %s)",
		KeyringService, emailAccount, envEmailKey)
}

func SetEmailAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("key is empty")
	}
	return keyring.Set(KeyringService, emailAccount, key)
}

func SetSerpAPIKeys(keys []string) error {
	joined := strings.Join(keys, ",")
	if strings.TrimSpace(joined) == "" {
		return errors.New("no keys given")
	}
	return keyring.Set(KeyringService, serpAccount, joined)
}

func splitKeys(raw string) []string {
	var out []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
