// Package credentials resolves the service-account credential used to reach
// the spreadsheet. The secrets store always wins over the local file, so a
// deployed instance cannot be overridden by a stray file in its working
// directory.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"expensetracker/internal/secrets"
)

// Source names where a credential was found.
type Source string

const (
	SourceSecrets Source = "secrets"
	SourceFile    Source = "file"
)

var (
	// ErrNotConfigured means neither the secrets store nor the local file holds a credential.
	ErrNotConfigured = errors.New("google service account credentials not found: add gcp_service_account_json to the secrets store or place service_account.json locally")
	// ErrInvalid means a credential was found but cannot be used.
	ErrInvalid = errors.New("invalid service account credentials")
)

// Credential is a parsed service-account key.
type Credential struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	ClientID     string `json:"client_id"`
	TokenURI     string `json:"token_uri"`

	// JSON is the key as found, handed to the token source unchanged.
	JSON   []byte `json:"-"`
	Source Source `json:"-"`
}

// Resolver looks up a credential in the secrets store, then in File.
type Resolver struct {
	Secrets secrets.Store
	File    string
}

// Resolve returns a usable credential or an error; it never returns a partial one.
func (r Resolver) Resolve() (*Credential, error) {
	if raw, ok := r.fromSecrets(); ok {
		return parse(raw, SourceSecrets)
	}
	if r.File != "" {
		raw, err := os.ReadFile(r.File)
		switch {
		case err == nil:
			return parse(raw, SourceFile)
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("read service account file %s: %w", r.File, err)
		}
	}
	return nil, ErrNotConfigured
}

func (r Resolver) fromSecrets() ([]byte, bool) {
	if r.Secrets == nil {
		return nil, false
	}
	if s, ok := r.Secrets.String(secrets.KeyServiceAccountJSON); ok {
		return []byte(s), true
	}
	if t, ok := r.Secrets.Table(secrets.KeyServiceAccountTable); ok {
		raw, err := json.Marshal(t)
		if err != nil {
			return nil, false
		}
		return raw, true
	}
	return nil, false
}

func parse(raw []byte, src Source) (*Credential, error) {
	var c Credential
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w (%s): %v", ErrInvalid, src, err)
	}
	var missing []string
	if strings.TrimSpace(c.ClientEmail) == "" {
		missing = append(missing, "client_email")
	}
	if strings.TrimSpace(c.PrivateKey) == "" {
		missing = append(missing, "private_key")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w (%s): missing %s", ErrInvalid, src, strings.Join(missing, ", "))
	}
	c.JSON = raw
	c.Source = src
	return &c, nil
}

// Fingerprint identifies the key without exposing it.
func (c *Credential) Fingerprint() string {
	return c.ClientEmail + "/" + c.PrivateKeyID
}
