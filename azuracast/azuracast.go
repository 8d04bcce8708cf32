// Package azuracast contains minimal helpers to drive an AzuraCast station's
// liquidsoap backend (restart/stop/start) and read station status, using a
// station API key.
package azuracast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/onnwee/stream-tools/config"
	"github.com/onnwee/stream-tools/telemetry"
)

// Client calls the AzuraCast station API. The zero client is not usable;
// build one with New.
type Client struct {
	BaseURL    string
	APIKey     string
	StationID  string
	HTTPClient *http.Client
}

// New builds a Client from config, or nil when AzuraCast is not configured.
func New(cfg *config.Config) *Client {
	if !cfg.AzuraCastConfigured() {
		return nil
	}
	return &Client{
		BaseURL:   strings.TrimRight(cfg.AzuraCastURL, "/"),
		APIKey:    cfg.AzuraCastAPIKey,
		StationID: cfg.AzuraCastStationID,
	}
}

func (c *Client) http() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) stationURL(path string) string {
	u := fmt.Sprintf("%s/api/station/%s", c.BaseURL, c.StationID)
	if path != "" {
		u += "/" + path
	}
	return u
}

func (c *Client) do(ctx context.Context, method, url string, out any) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "azuracast", method+" "+url,
		attribute.String("station.id", c.StationID))
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Key", c.APIKey)
	resp, err := c.http().Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("azuracast %s %s: %s: %s", method, url, resp.Status, strings.TrimSpace(string(b)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("azuracast decode response: %w", err)
	}
	return nil
}

// ActionResult is the acknowledgement returned by backend control endpoints.
type ActionResult struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// RestartBackend restarts the liquidsoap backend.
func (c *Client) RestartBackend(ctx context.Context) (ActionResult, error) {
	var out ActionResult
	err := c.do(ctx, http.MethodPost, c.stationURL("backend/restart"), &out)
	return out, err
}

// StopBackend stops the liquidsoap backend.
func (c *Client) StopBackend(ctx context.Context) (ActionResult, error) {
	var out ActionResult
	err := c.do(ctx, http.MethodPost, c.stationURL("backend/stop"), &out)
	return out, err
}

// StartBackend starts the liquidsoap backend.
func (c *Client) StartBackend(ctx context.Context) (ActionResult, error) {
	var out ActionResult
	err := c.do(ctx, http.MethodPost, c.stationURL("backend/start"), &out)
	return out, err
}

// RestartFrontend restarts the streaming frontend (icecast/shoutcast).
func (c *Client) RestartFrontend(ctx context.Context) (ActionResult, error) {
	var out ActionResult
	err := c.do(ctx, http.MethodPost, c.stationURL("frontend/restart"), &out)
	return out, err
}

// Station is the station info document.
type Station struct {
	Name            string `json:"name"`
	Shortcode       string `json:"shortcode"`
	Backend         string `json:"backend"`
	Frontend        string `json:"frontend"`
	PublicPlayerURL string `json:"public_player_url"`
}

// Status fetches station info.
func (c *Client) Status(ctx context.Context) (Station, error) {
	var out Station
	err := c.do(ctx, http.MethodGet, c.stationURL(""), &out)
	return out, err
}

// ServiceStatus is the backend/frontend running state.
type ServiceStatus struct {
	BackendRunning  bool `json:"backend_running"`
	FrontendRunning bool `json:"frontend_running"`
}

// GetServiceStatus fetches the station's service running state.
func (c *Client) GetServiceStatus(ctx context.Context) (ServiceStatus, error) {
	var out ServiceStatus
	err := c.do(ctx, http.MethodGet, c.stationURL("status"), &out)
	return out, err
}

// NowPlaying is the currently playing track and listener counts.
type NowPlaying struct {
	NowPlaying struct {
		Song struct {
			Artist string `json:"artist"`
			Title  string `json:"title"`
		} `json:"song"`
	} `json:"now_playing"`
	Listeners struct {
		Current int `json:"current"`
	} `json:"listeners"`
}

// GetNowPlaying fetches now-playing info for the station.
func (c *Client) GetNowPlaying(ctx context.Context) (NowPlaying, error) {
	var out NowPlaying
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/api/nowplaying/%s", c.BaseURL, c.StationID), &out)
	return out, err
}

// Restart satisfies the watch loop's Actuator interface by restarting the
// liquidsoap backend.
func (c *Client) Restart(ctx context.Context) error {
	_, err := c.RestartBackend(ctx)
	return err
}
