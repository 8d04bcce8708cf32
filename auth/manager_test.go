package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/onnwee/stream-tools/config"
	"github.com/onnwee/stream-tools/testutil"
)

func newTestManager(t *testing.T, tokenURL string) *Manager {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		ConfigDir:        dir,
		TokenPath:        filepath.Join(dir, "token.json"),
		ClientSecretPath: filepath.Join(dir, "client_secret.json"),
		Scopes:           config.DefaultScopes,
		TokenURL:         tokenURL,
		ClientIDEnv:      "YT_CLIENT_ID",
		ClientSecretEnv:  "YT_CLIENT_SECRET",
		RefreshTokenEnv:  "YT_REFRESH_TOKEN",
		FlowTimeout:      5 * time.Second,
	}
	return NewManager(cfg)
}

// clearEnv guarantees the environment strategy is unavailable regardless of
// the developer's shell.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("YT_CLIENT_ID", "")
	t.Setenv("YT_CLIENT_SECRET", "")
	t.Setenv("YT_REFRESH_TOKEN", "")
}

func validCreds(tokenURL string) *Credentials {
	return &Credentials{
		Token: &oauth2.Token{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			Expiry:       time.Now().Add(time.Hour),
		},
		TokenURL:     tokenURL,
		ClientID:     "cid",
		ClientSecret: "sec",
		Scopes:       config.DefaultScopes,
	}
}

func TestAutoAuthenticatePrefersEnvironment(t *testing.T) {
	ts := testutil.NewMockTokenServer(t, "env-access")
	m := newTestManager(t, ts.URL)
	t.Setenv("YT_CLIENT_ID", "cid")
	t.Setenv("YT_CLIENT_SECRET", "sec")
	t.Setenv("YT_REFRESH_TOKEN", "refresh-env")

	// A token file also exists; the environment must still win, and no
	// browser may be launched.
	if err := saveTokenRecord(m.cfg.TokenPath, validCreds(ts.URL)); err != nil {
		t.Fatal(err)
	}
	m.openURL = func(string) error {
		t.Error("browser launched despite valid environment credentials")
		return nil
	}

	method, err := m.AutoAuthenticate(context.Background())
	if err != nil {
		t.Fatalf("AutoAuthenticate: %v", err)
	}
	if method != MethodEnvironment {
		t.Errorf("method = %s, want %s", method, MethodEnvironment)
	}
	if !m.IsAuthenticated() {
		t.Error("not authenticated after env auth")
	}
	if ts.Requests() != 1 {
		t.Errorf("token requests = %d, want 1 (env creds start without an access token)", ts.Requests())
	}
}

func TestEnvCredentialsAreNeverPersisted(t *testing.T) {
	ts := testutil.NewMockTokenServer(t, "env-access")
	m := newTestManager(t, ts.URL)
	t.Setenv("YT_CLIENT_ID", "cid")
	t.Setenv("YT_CLIENT_SECRET", "sec")
	t.Setenv("YT_REFRESH_TOKEN", "refresh-env")

	if _, err := m.AutoAuthenticate(context.Background()); err != nil {
		t.Fatalf("AutoAuthenticate: %v", err)
	}
	if _, err := os.Stat(m.cfg.TokenPath); !os.IsNotExist(err) {
		t.Error("env auth wrote a token file")
	}
}

func TestAutoAuthenticateFallsBackToTokenFile(t *testing.T) {
	ts := testutil.NewMockTokenServer(t, "unused")
	m := newTestManager(t, ts.URL)
	clearEnv(t)

	if err := saveTokenRecord(m.cfg.TokenPath, validCreds(ts.URL)); err != nil {
		t.Fatal(err)
	}
	method, err := m.AutoAuthenticate(context.Background())
	if err != nil {
		t.Fatalf("AutoAuthenticate: %v", err)
	}
	if method != MethodTokenFile {
		t.Errorf("method = %s, want %s", method, MethodTokenFile)
	}
	if ts.Requests() != 0 {
		t.Errorf("token requests = %d, want 0 (cached token is still valid)", ts.Requests())
	}
	creds, err := m.Credentials()
	if err != nil {
		t.Fatal(err)
	}
	if creds.Token.RefreshToken != "refresh-1" {
		t.Errorf("refresh token = %q, want the file's refresh-1", creds.Token.RefreshToken)
	}
}

func TestTokenFileAuthRefreshesExpiredToken(t *testing.T) {
	ts := testutil.NewMockTokenServer(t, "fresh-access")
	m := newTestManager(t, ts.URL)
	clearEnv(t)

	stale := validCreds(ts.URL)
	stale.Token.Expiry = time.Now().Add(-time.Hour)
	if err := saveTokenRecord(m.cfg.TokenPath, stale); err != nil {
		t.Fatal(err)
	}

	method, err := m.AutoAuthenticate(context.Background())
	if err != nil {
		t.Fatalf("AutoAuthenticate: %v", err)
	}
	if method != MethodTokenFile {
		t.Errorf("method = %s, want %s", method, MethodTokenFile)
	}
	if ts.Requests() != 1 {
		t.Errorf("token requests = %d, want 1", ts.Requests())
	}
	creds, err := m.Credentials()
	if err != nil {
		t.Fatal(err)
	}
	if creds.Token.AccessToken != "fresh-access" {
		t.Errorf("access token = %q, want refreshed value", creds.Token.AccessToken)
	}
	// The refreshed token must be re-saved for the next process.
	saved, err := loadTokenRecord(m.cfg.TokenPath)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Token.AccessToken != "fresh-access" {
		t.Errorf("saved access token = %q, want refreshed value", saved.Token.AccessToken)
	}
}

func TestRefreshIfNeededIsIdempotent(t *testing.T) {
	ts := testutil.NewMockTokenServer(t, "fresh-access")
	m := newTestManager(t, ts.URL)
	m.creds = validCreds(ts.URL)
	m.creds.Token.Expiry = time.Now().Add(-time.Minute)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := m.RefreshIfNeeded(ctx); err != nil {
			t.Fatalf("refresh %d: %v", i, err)
		}
	}
	if ts.Requests() != 1 {
		t.Errorf("token requests = %d, want 1 (only the first call should refresh)", ts.Requests())
	}
}

func TestRefreshPreservesRefreshToken(t *testing.T) {
	// Google omits the refresh token from refresh responses; the old one
	// must survive.
	ts := testutil.NewMockTokenServer(t, "fresh-access")
	m := newTestManager(t, ts.URL)
	m.creds = validCreds(ts.URL)
	m.creds.Token.Expiry = time.Now().Add(-time.Minute)

	if err := m.RefreshIfNeeded(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.creds.Token.RefreshToken != "refresh-1" {
		t.Errorf("refresh token = %q, want preserved refresh-1", m.creds.Token.RefreshToken)
	}
}

func TestRefreshFailureClearsCredentials(t *testing.T) {
	ts := testutil.NewMockTokenServer(t, "unused")
	ts.FailWith = 400
	m := newTestManager(t, ts.URL)
	m.creds = validCreds(ts.URL)
	m.creds.Token.Expiry = time.Now().Add(-time.Minute)

	err := m.RefreshIfNeeded(context.Background())
	if err == nil {
		t.Fatal("expected refresh error")
	}
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Errorf("error type = %T, want *AuthError", err)
	}
	if m.IsAuthenticated() {
		t.Error("still authenticated after failed refresh")
	}
}

func TestRefreshWithoutRefreshTokenFails(t *testing.T) {
	m := newTestManager(t, "http://unused.invalid")
	m.creds = validCreds("http://unused.invalid")
	m.creds.Token.RefreshToken = ""
	m.creds.Token.Expiry = time.Now().Add(-time.Minute)

	if err := m.RefreshIfNeeded(context.Background()); err == nil {
		t.Fatal("expected an error without a refresh token")
	}
	if m.creds != nil {
		t.Error("credentials not cleared")
	}
}

func TestAuthenticateWithTokenFallsBackToClientSecretFile(t *testing.T) {
	ts := testutil.NewMockTokenServer(t, "direct-access")
	m := newTestManager(t, ts.URL)
	clearEnv(t)
	writeClientSecret(t, m.cfg.ClientSecretPath, ts.URL)

	if err := m.AuthenticateWithToken(context.Background(), "refresh-direct", "", ""); err != nil {
		t.Fatalf("AuthenticateWithToken: %v", err)
	}
	creds, err := m.Credentials()
	if err != nil {
		t.Fatal(err)
	}
	if creds.ClientID != "file-cid" || creds.ClientSecret != "file-sec" {
		t.Errorf("client id/secret = %s/%s, want values from the client secret file", creds.ClientID, creds.ClientSecret)
	}
	if _, err := os.Stat(m.cfg.TokenPath); err != nil {
		t.Errorf("token file not written: %v", err)
	}
}

func TestTokenRecordRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.json")
	in := validCreds("https://oauth2.googleapis.com/token")

	if err := saveTokenRecord(path, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := loadTokenRecord(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Token.AccessToken != in.Token.AccessToken ||
		out.Token.RefreshToken != in.Token.RefreshToken ||
		out.ClientID != in.ClientID ||
		out.ClientSecret != in.ClientSecret ||
		out.TokenURL != in.TokenURL {
		t.Errorf("round trip mismatch: got %+v", out)
	}
	if len(out.Scopes) != len(in.Scopes) {
		t.Errorf("scopes = %v, want %v", out.Scopes, in.Scopes)
	}
	if !out.Token.Expiry.Equal(in.Token.Expiry) {
		t.Errorf("expiry = %v, want %v", out.Token.Expiry, in.Token.Expiry)
	}
}

func TestTokenFileHasOwnerOnlyPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := saveTokenRecord(path, validCreds("url")); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	m := newTestManager(t, "http://unused.invalid")
	if err := saveTokenRecord(m.cfg.TokenPath, validCreds("url")); err != nil {
		t.Fatal(err)
	}
	m.creds = validCreds("url")

	for i := 0; i < 2; i++ {
		if err := m.Logout(); err != nil {
			t.Fatalf("logout %d: %v", i, err)
		}
	}
	if m.IsAuthenticated() {
		t.Error("still authenticated after logout")
	}
	if _, err := os.Stat(m.cfg.TokenPath); !os.IsNotExist(err) {
		t.Error("token file survived logout")
	}
}

func TestGetStatusSnapshot(t *testing.T) {
	m := newTestManager(t, "http://unused.invalid")
	clearEnv(t)
	writeClientSecret(t, m.cfg.ClientSecretPath, "http://unused.invalid")

	st := m.GetStatus()
	if st.Authenticated || st.TokenFileExists || st.EnvConfigured {
		t.Errorf("fresh status = %+v, want all false except client secret", st)
	}
	if !st.ClientSecretExists {
		t.Error("client secret file not detected")
	}

	m.creds = validCreds("url")
	if err := m.saveCredentials(); err != nil {
		t.Fatal(err)
	}
	st = m.GetStatus()
	if !st.Authenticated || !st.TokenFileExists {
		t.Errorf("status after login = %+v, want authenticated with token file", st)
	}
}

func TestLoadCachedIsPassive(t *testing.T) {
	m := newTestManager(t, "http://unused.invalid")
	if err := saveTokenRecord(m.cfg.TokenPath, validCreds("url")); err != nil {
		t.Fatal(err)
	}
	m.LoadCached()
	if !m.IsAuthenticated() {
		t.Error("valid cached token not loaded")
	}
}

func TestParseMethod(t *testing.T) {
	cases := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"environment", MethodEnvironment, false},
		{"token_file", MethodTokenFile, false},
		{"interactive", MethodInteractive, false},
		{"browser", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseMethod(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseMethod(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseMethod(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
}
