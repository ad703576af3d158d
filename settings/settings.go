// Package settings stores the DeepL API key in the per-user config
// directory.
//
// The store lives at <xdg config>/cursor-translator/auth.json with 0600
// permissions. Key lookup order:
//  1. --api-key flag (highest priority)
//  2. CURSOR_TRANSLATOR_API_KEY environment variable
//  3. this store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	appDirName = "cursor-translator"
	authFile   = "auth.json"
	// EnvAPIKey is the environment variable consulted before the store.
	EnvAPIKey = "CURSOR_TRANSLATOR_API_KEY"
)

// store is the on-disk auth.json shape.
type store struct {
	DeepLKey string `json:"deepl_key,omitempty"`
}

// FilePath returns the auth.json location for display purposes.
func FilePath() string {
	return filepath.Join(xdg.ConfigHome, appDirName, authFile)
}

func load() store {
	data, err := os.ReadFile(FilePath())
	if err != nil {
		return store{}
	}
	var s store
	if err := json.Unmarshal(data, &s); err != nil {
		return store{}
	}
	return s
}

func save(s store) error {
	data, err := json.MarshalIndent(&s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	path := FilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// ResolveAPIKey applies the lookup order with flagValue as the explicit
// --api-key flag. Empty result means no credentials anywhere — callers
// degrade to the dictionary path.
func ResolveAPIKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvAPIKey); env != "" {
		return env
	}
	return load().DeepLKey
}

// SetAPIKey stores the DeepL key.
func SetAPIKey(key string) error {
	s := load()
	s.DeepLKey = key
	return save(s)
}

// StoredAPIKey returns the key from the store only.
func StoredAPIKey() string {
	return load().DeepLKey
}

// Remove deletes the stored credentials file.
func Remove() error {
	if err := os.Remove(FilePath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing auth file: %w", err)
	}
	return nil
}

// MaskKey returns a masked version of a key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
