// Package secrets reads the injected-secrets store: a TOML file of keys that a
// hosting environment provides alongside the app (Streamlit-style secrets).
// Values found here take precedence over local files and the environment.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Well-known keys.
const (
	KeyServiceAccountJSON  = "gcp_service_account_json"
	KeyServiceAccountTable = "gcp_service_account"
	KeySheetKey            = "gsheet_key"
)

// Store looks up secrets by key. A missing or blank key reports false.
type Store interface {
	String(key string) (string, bool)
	Table(key string) (map[string]any, bool)
}

// FileStore is a Store backed by a config file read through viper.
type FileStore struct {
	v    *viper.Viper
	path string
}

var _ Store = (*FileStore)(nil)

// Load reads the secrets file at path. A file that does not exist yields an
// empty store, since running without a secrets store is the local default.
// A file that exists but cannot be parsed is an error.
func Load(path string) (*FileStore, error) {
	v := viper.New()
	s := &FileStore{v: v, path: path}
	if strings.TrimSpace(path) == "" {
		return s, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("stat secrets file: %w", err)
	}
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("toml")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read secrets file %s: %w", path, err)
	}
	return s, nil
}

// Path returns the file the store was loaded from.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) String(key string) (string, bool) {
	if !s.v.IsSet(key) {
		return "", false
	}
	str, ok := s.v.Get(key).(string)
	if !ok {
		return "", false
	}
	str = strings.TrimSpace(str)
	return str, str != ""
}

func (s *FileStore) Table(key string) (map[string]any, bool) {
	if !s.v.IsSet(key) {
		return nil, false
	}
	m := s.v.GetStringMap(key)
	return m, len(m) > 0
}

// Map is an in-memory Store, handy for tests and for wiring values that come
// from somewhere other than a file.
type Map map[string]any

var _ Store = Map(nil)

func (m Map) String(key string) (string, bool) {
	str, ok := m[key].(string)
	if !ok {
		return "", false
	}
	str = strings.TrimSpace(str)
	return str, str != ""
}

func (m Map) Table(key string) (map[string]any, bool) {
	t, ok := m[key].(map[string]any)
	return t, ok && len(t) > 0
}
