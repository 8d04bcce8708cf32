// Package youtubeapi wraps the YouTube Data API v3 live-streaming resources
// (broadcasts, streams, chat, moderators, bans, channels) behind typed models.
// It accepts pre-authenticated credentials and is decoupled from any specific
// auth strategy.
package youtubeapi

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/onnwee/stream-tools/auth"
)

// Client is the entry point for all live-streaming API operations.
type Client struct {
	svc *yt.Service
}

// New builds a Client from credentials. Extra options (e.g. a test endpoint)
// are appended after the authenticated HTTP client.
func New(ctx context.Context, creds *auth.Credentials, opts ...option.ClientOption) (*Client, error) {
	all := append([]option.ClientOption{option.WithHTTPClient(creds.Client(ctx))}, opts...)
	svc, err := yt.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("build youtube service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// NewWithService wraps an already-built *yt.Service. Used by tests to point
// the client at a mock server.
func NewWithService(svc *yt.Service) *Client { return &Client{svc: svc} }

// clamp bounds a max-results value into the API's accepted range.
func clamp(n, lo, hi int64) int64 {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
