// Package auth manages OAuth2 credentials for the YouTube API with a fixed
// priority chain: environment variables, then the cached token file, then an
// interactive browser flow. Refreshed tokens are persisted back to the token
// file so subsequent invocations skip the browser.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/onnwee/stream-tools/config"
)

// Method identifies which authentication strategy produced the current credentials.
type Method string

const (
	MethodEnvironment Method = "environment"
	MethodTokenFile   Method = "token_file"
	MethodInteractive Method = "interactive"
)

// ParseMethod converts a user-supplied string into a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodEnvironment, MethodTokenFile, MethodInteractive:
		return Method(s), nil
	}
	return "", fmt.Errorf("invalid auth method %q (valid: environment, token_file, interactive)", s)
}

// ErrStrategyUnavailable signals that a strategy's preconditions are unmet
// (missing env vars, missing file) and the next strategy should be tried.
var ErrStrategyUnavailable = errors.New("auth strategy unavailable")

// AuthError is a terminal authentication failure: a refresh exchange was
// rejected, the interactive flow failed, or every strategy was exhausted.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string { return "auth: " + e.Op + ": " + e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

// ConfigError is a misconfiguration (malformed client secret file, missing
// client id/secret). It is not retried.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string { return "auth config: " + e.Path + ": " + e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// refreshSkew mirrors the refresh window used by the background token
// refreshers: a token this close to expiry is treated as expired.
const refreshSkew = 2 * time.Minute

// Credentials is a usable OAuth2 token plus the client identity needed to
// refresh it.
type Credentials struct {
	Token        *oauth2.Token
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// Valid reports whether the access token is present and not within the
// refresh window.
func (c *Credentials) Valid() bool {
	if c == nil || c.Token == nil || c.Token.AccessToken == "" {
		return false
	}
	if c.Token.Expiry.IsZero() {
		// No recorded expiry: assume stale and force a refresh.
		return false
	}
	return time.Until(c.Token.Expiry) > refreshSkew
}

func (c *Credentials) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     oauth2.Endpoint{AuthURL: google.Endpoint.AuthURL, TokenURL: c.TokenURL},
		Scopes:       c.Scopes,
	}
}

// Client returns an *http.Client that injects the bearer token and refreshes
// it transparently on expiry.
func (c *Credentials) Client(ctx context.Context) *http.Client {
	return c.oauthConfig().Client(ctx, c.Token)
}

// Status is a read-only snapshot of the authentication surroundings.
// It performs no network calls.
type Status struct {
	Authenticated      bool `json:"authenticated"`
	TokenFileExists    bool `json:"token_file_exists"`
	EnvConfigured      bool `json:"env_configured"`
	ClientSecretExists bool `json:"client_secret_exists"`
}

// Manager owns the credential lifecycle. It is not safe for concurrent use;
// the CLI drives it from a single goroutine.
type Manager struct {
	cfg   *config.Config
	creds *Credentials

	// openURL launches the system browser for the interactive flow.
	// Overridable in tests.
	openURL func(string) error
}

func NewManager(cfg *config.Config) *Manager {
	return &Manager{cfg: cfg, openURL: openBrowser}
}

// Credentials returns the current credentials, or an error if not authenticated.
func (m *Manager) Credentials() (*Credentials, error) {
	if m.creds == nil {
		return nil, &AuthError{Op: "credentials", Err: errors.New("not authenticated; run 'yt auth login' first")}
	}
	return m.creds, nil
}

// IsAuthenticated reports whether valid (non-expired) credentials are held.
func (m *Manager) IsAuthenticated() bool { return m.creds.Valid() }

// AutoAuthenticate tries ENVIRONMENT, TOKEN_FILE, then INTERACTIVE in that
// order. Strategy-unavailable and refresh failures advance to the next
// strategy; the interactive flow has no successor so its error propagates.
func (m *Manager) AutoAuthenticate(ctx context.Context) (Method, error) {
	if err := m.authenticateFromEnv(ctx); err == nil {
		return MethodEnvironment, nil
	} else {
		slog.Debug("environment auth not used", slog.Any("err", err))
	}
	if err := m.authenticateFromTokenFile(ctx); err == nil {
		return MethodTokenFile, nil
	} else {
		slog.Debug("token file auth not used", slog.Any("err", err))
	}
	if err := m.authenticateInteractive(ctx, false); err != nil {
		return "", err
	}
	return MethodInteractive, nil
}

// Authenticate runs a specific strategy, or the auto chain when method is empty.
func (m *Manager) Authenticate(ctx context.Context, method Method) (Method, error) {
	switch method {
	case "":
		return m.AutoAuthenticate(ctx)
	case MethodEnvironment:
		return method, m.authenticateFromEnv(ctx)
	case MethodTokenFile:
		return method, m.authenticateFromTokenFile(ctx)
	case MethodInteractive:
		return method, m.authenticateInteractive(ctx, false)
	}
	return "", fmt.Errorf("unknown auth method %q", method)
}

// Reauth forces a fresh interactive flow with the account picker shown, even
// when the provider would silently reuse a previous grant.
func (m *Manager) Reauth(ctx context.Context) error {
	return m.authenticateInteractive(ctx, true)
}

// AuthenticateWithToken bypasses the strategy chain: it builds credentials
// from a directly supplied refresh token, refreshes immediately, and persists
// on success. Client id/secret fall back to the client secret file.
func (m *Manager) AuthenticateWithToken(ctx context.Context, refreshToken, clientID, clientSecret string) error {
	if clientID == "" || clientSecret == "" {
		oc, err := m.clientSecretConfig()
		if err != nil {
			return err
		}
		clientID, clientSecret = oc.ClientID, oc.ClientSecret
	}
	m.creds = &Credentials{
		Token:        &oauth2.Token{RefreshToken: refreshToken},
		TokenURL:     m.cfg.TokenURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       m.cfg.Scopes,
	}
	if err := m.RefreshIfNeeded(ctx); err != nil {
		return err
	}
	return m.saveCredentials()
}

// RefreshIfNeeded exchanges the refresh token for a new access token when the
// current one is missing or expired. Any failure discards the credentials so
// a half-valid credential is never left installed.
func (m *Manager) RefreshIfNeeded(ctx context.Context) error {
	if m.creds == nil || m.creds.Valid() {
		return nil
	}
	if m.creds.Token == nil || m.creds.Token.RefreshToken == "" {
		m.creds = nil
		return &AuthError{Op: "refresh", Err: errors.New("token expired and no refresh token available")}
	}
	oc := m.creds.oauthConfig()
	newTok, err := oc.TokenSource(ctx, m.creds.Token).Token()
	if err != nil {
		m.creds = nil
		return &AuthError{Op: "refresh", Err: err}
	}
	if newTok.RefreshToken == "" {
		newTok.RefreshToken = m.creds.Token.RefreshToken
	}
	m.creds.Token = newTok
	return nil
}

// Logout clears the in-memory credentials and removes the token file.
// Idempotent: logging out while logged out is not an error.
func (m *Manager) Logout() error {
	m.creds = nil
	if err := os.Remove(m.cfg.TokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// LoadCached populates credentials from the token file without refreshing.
// It never touches the network; callers that need a usable token should go
// through AutoAuthenticate instead.
func (m *Manager) LoadCached() {
	if m.creds.Valid() {
		return
	}
	creds, err := loadTokenRecord(m.cfg.TokenPath)
	if err != nil {
		return
	}
	if creds.TokenURL == "" {
		creds.TokenURL = m.cfg.TokenURL
	}
	m.creds = creds
}

// GetStatus reports the auth surroundings without mutating anything.
func (m *Manager) GetStatus() Status {
	envSet := true
	for _, name := range []string{m.cfg.ClientIDEnv, m.cfg.ClientSecretEnv, m.cfg.RefreshTokenEnv} {
		if os.Getenv(name) == "" {
			envSet = false
			break
		}
	}
	return Status{
		Authenticated:      m.creds.Valid(),
		TokenFileExists:    fileExists(m.cfg.TokenPath),
		EnvConfigured:      envSet,
		ClientSecretExists: fileExists(m.cfg.ClientSecretPath),
	}
}

// authenticateFromEnv builds credentials from environment variables.
// Environment-sourced credentials are never written to the token file.
func (m *Manager) authenticateFromEnv(ctx context.Context) error {
	clientID := os.Getenv(m.cfg.ClientIDEnv)
	clientSecret := os.Getenv(m.cfg.ClientSecretEnv)
	refreshToken := os.Getenv(m.cfg.RefreshTokenEnv)
	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return fmt.Errorf("%w: env vars not set: %s, %s, %s",
			ErrStrategyUnavailable, m.cfg.ClientIDEnv, m.cfg.ClientSecretEnv, m.cfg.RefreshTokenEnv)
	}
	m.creds = &Credentials{
		Token:        &oauth2.Token{RefreshToken: refreshToken},
		TokenURL:     m.cfg.TokenURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       m.cfg.Scopes,
	}
	return m.RefreshIfNeeded(ctx)
}

// authenticateFromTokenFile loads credentials from the cached token file and
// re-saves them so a refresh that just happened is captured for next time.
func (m *Manager) authenticateFromTokenFile(ctx context.Context) error {
	creds, err := loadTokenRecord(m.cfg.TokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: token file not found: %s", ErrStrategyUnavailable, m.cfg.TokenPath)
		}
		return &ConfigError{Path: m.cfg.TokenPath, Err: err}
	}
	if creds.TokenURL == "" {
		creds.TokenURL = m.cfg.TokenURL
	}
	m.creds = creds
	if err := m.RefreshIfNeeded(ctx); err != nil {
		return err
	}
	return m.saveCredentials()
}

// authenticateInteractive runs the local-listener browser flow. forcePrompt
// adds consent/account-picker directives to the authorization URL.
func (m *Manager) authenticateInteractive(ctx context.Context, forcePrompt bool) error {
	oc, err := m.clientSecretConfig()
	if err != nil {
		return err
	}
	tok, err := m.runFlow(ctx, oc, forcePrompt)
	if err != nil {
		return err
	}
	m.creds = &Credentials{
		Token:        tok,
		TokenURL:     oc.Endpoint.TokenURL,
		ClientID:     oc.ClientID,
		ClientSecret: oc.ClientSecret,
		Scopes:       m.cfg.Scopes,
	}
	return m.saveCredentials()
}

// clientSecretConfig parses the Google client secret file (installed or web
// section) into an oauth2.Config carrying the configured scopes.
func (m *Manager) clientSecretConfig() (*oauth2.Config, error) {
	data, err := os.ReadFile(m.cfg.ClientSecretPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: client secret file not found: %s (run 'yt auth login --token' with explicit client id/secret, or place the file first)",
				ErrStrategyUnavailable, m.cfg.ClientSecretPath)
		}
		return nil, &ConfigError{Path: m.cfg.ClientSecretPath, Err: err}
	}
	oc, err := google.ConfigFromJSON(data, m.cfg.Scopes...)
	if err != nil {
		return nil, &ConfigError{Path: m.cfg.ClientSecretPath, Err: err}
	}
	if oc.ClientID == "" || oc.ClientSecret == "" {
		return nil, &ConfigError{Path: m.cfg.ClientSecretPath, Err: errors.New("missing client_id or client_secret")}
	}
	return oc, nil
}

func (m *Manager) saveCredentials() error {
	if m.creds == nil {
		return nil
	}
	if err := os.MkdirAll(m.cfg.ConfigDir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return saveTokenRecord(m.cfg.TokenPath, m.creds)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
