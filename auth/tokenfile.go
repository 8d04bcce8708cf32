package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
)

// tokenRecord is the serialized credential shape written to token.json.
// Field names match Google's authorized-user file format so tokens produced
// by other tooling load cleanly. Expiry is an extension; records without it
// are treated as expired, which just forces one refresh on next load.
type tokenRecord struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	TokenURI     string    `json:"token_uri"`
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	Scopes       []string  `json:"scopes"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

func loadTokenRecord(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec tokenRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse token file: %w", err)
	}
	return &Credentials{
		Token: &oauth2.Token{
			AccessToken:  rec.Token,
			RefreshToken: rec.RefreshToken,
			Expiry:       rec.Expiry,
		},
		TokenURL:     rec.TokenURI,
		ClientID:     rec.ClientID,
		ClientSecret: rec.ClientSecret,
		Scopes:       rec.Scopes,
	}, nil
}

// saveTokenRecord overwrites path atomically (temp file + rename) with 0600
// permissions. There is no cross-process lock; concurrent CLI invocations are
// last-writer-wins.
func saveTokenRecord(path string, creds *Credentials) error {
	rec := tokenRecord{
		Token:        creds.Token.AccessToken,
		RefreshToken: creds.Token.RefreshToken,
		TokenURI:     creds.TokenURL,
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Scopes:       creds.Scopes,
		Expiry:       creds.Token.Expiry,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal token record: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".token-*.json")
	if err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}
