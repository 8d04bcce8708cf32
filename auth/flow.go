package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"
)

// callbackResult carries the outcome of the provider redirect back from the
// HTTP handler to the waiting flow.
type callbackResult struct {
	code string
	err  error
}

// runFlow performs the local-listener OAuth consent flow: it binds an
// ephemeral loopback port, opens the system browser at the consent URL, and
// blocks until the provider redirects back with an authorization code, which
// is exchanged for a token. The wait is bounded by cfg.FlowTimeout so an
// abandoned browser tab cannot hang the process forever.
func (m *Manager) runFlow(ctx context.Context, oc *oauth2.Config, forcePrompt bool) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, &AuthError{Op: "interactive", Err: fmt.Errorf("bind callback listener: %w", err)}
	}
	defer ln.Close()

	oc.RedirectURL = fmt.Sprintf("http://%s/callback", ln.Addr().String())
	state := uuid.NewString()

	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOffline, oauth2.ApprovalForce}
	if forcePrompt {
		// Show the consent screen and account/channel picker even when the
		// provider already holds a grant for this client.
		opts = append(opts, oauth2.SetAuthURLParam("prompt", "consent select_account"))
	}
	authURL := oc.AuthCodeURL(state, opts...)

	results := make(chan callbackResult, 1)
	srv := &http.Server{
		ReadHeaderTimeout: 5 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/callback" {
				http.NotFound(w, r)
				return
			}
			q := r.URL.Query()
			if q.Get("state") != state {
				http.Error(w, "state mismatch", http.StatusBadRequest)
				results <- callbackResult{err: errors.New("state parameter mismatch")}
				return
			}
			if errCode := q.Get("error"); errCode != "" {
				http.Error(w, "authorization denied", http.StatusBadRequest)
				results <- callbackResult{err: fmt.Errorf("authorization denied: %s", errCode)}
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>Authentication complete. You may close this window.</body></html>"))
			results <- callbackResult{code: q.Get("code")}
		}),
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Debug("callback server exited", slog.Any("err", err))
		}
	}()
	defer func() {
		shutCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	slog.Info("opening browser for OAuth consent", slog.String("url", authURL))
	if err := m.openURL(authURL); err != nil {
		slog.Warn("could not open browser; visit the URL manually", slog.Any("err", err), slog.String("url", authURL))
	}

	flowCtx := ctx
	if m.cfg.FlowTimeout > 0 {
		var cancel context.CancelFunc
		flowCtx, cancel = context.WithTimeout(ctx, m.cfg.FlowTimeout)
		defer cancel()
	}

	select {
	case <-flowCtx.Done():
		return nil, &AuthError{Op: "interactive", Err: fmt.Errorf("waiting for OAuth redirect: %w", flowCtx.Err())}
	case res := <-results:
		if res.err != nil {
			return nil, &AuthError{Op: "interactive", Err: res.err}
		}
		tok, err := oc.Exchange(flowCtx, res.code)
		if err != nil {
			return nil, &AuthError{Op: "interactive", Err: fmt.Errorf("code exchange: %w", err)}
		}
		return tok, nil
	}
}

func openBrowser(url string) error {
	return browser.OpenURL(url)
}
