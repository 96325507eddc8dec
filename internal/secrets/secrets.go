// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves the places API credential. The key comes from the
// GOOGLE_MAPS_API_KEY environment variable or, failing that, from a directory
// of plain-text files where each filename is a key name and the trimmed file
// contents are the value.
package secrets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// EnvAPIKey is the environment variable holding the places API key.
	EnvAPIKey = "GOOGLE_MAPS_API_KEY"

	// FileAPIKey is the secrets file name holding the places API key.
	FileAPIKey = "google-maps-api-key"
)

// ErrMissingAPIKey is returned when no credential is configured anywhere.
var ErrMissingAPIKey = errors.New("places API key not set: export " + EnvAPIKey + " or write .secrets/" + FileAPIKey)

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error. Unreadable files produce a
// warning on warn and are skipped.
func Load(dir string, warn io.Writer) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// APIKey returns the places credential. getenv is consulted first (pass
// os.Getenv in production), then the loaded secrets map.
func APIKey(getenv func(string) string, loaded map[string]string) (string, error) {
	if v := strings.TrimSpace(getenv(EnvAPIKey)); v != "" {
		return v, nil
	}
	if v := loaded[FileAPIKey]; v != "" {
		return v, nil
	}
	return "", ErrMissingAPIKey
}
