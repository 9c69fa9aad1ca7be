package cmd

import (
	"fmt"
	"strings"

	"github.com/99designs/keyring"
	"github.com/mitchellh/go-homedir"

	"github.com/segmentio/aws-mfa/internal/sessioncache"
	"github.com/segmentio/aws-mfa/provider"
)

// changing any of these will break cache compatibility
const (
	backendDir     = "dir"
	backendKeyring = "keyring"

	defaultCacheDir = "~/.aws/toolkit-cache"

	keyringServiceName             = "aws-mfa"
	keyringLibSecretCollectionName = "awsvault"
	keyringFileDir                 = "~/.aws-mfa/"
)

func keyringPrompt(prompt string) (string, error) {
	return provider.Prompt(prompt, true)
}

func availableKeyringBackends() []string {
	var names []string
	for _, b := range keyring.AvailableBackends() {
		names = append(names, string(b))
	}
	return names
}

func openKeyring(b string) (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	if b != "" {
		allowedBackends = append(allowedBackends, keyring.BackendType(b))
	}

	kr, err := keyring.Open(keyring.Config{
		AllowedBackends:          allowedBackends,
		KeychainTrustApplication: true,
		ServiceName:              keyringServiceName,
		LibSecretCollectionName:  keyringLibSecretCollectionName,
		FileDir:                  keyringFileDir,
		FilePasswordFunc:         keyringPrompt,
	})
	return kr, err
}

// openCache returns the cache for the --backend and --cache-dir flags
func openCache() (*sessioncache.Cache, error) {
	switch {
	case backend == "" || backend == backendDir:
		dir, err := homedir.Expand(cacheDir)
		if err != nil {
			return nil, err
		}
		return sessioncache.New(&sessioncache.DirStore{Dir: dir}), nil
	case backend == backendKeyring || strings.HasPrefix(backend, backendKeyring+":"):
		kr, err := openKeyring(strings.TrimPrefix(strings.TrimPrefix(backend, backendKeyring), ":"))
		if err != nil {
			return nil, err
		}
		return sessioncache.New(&sessioncache.KrItemPerEntryStore{Keyring: kr}), nil
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}
