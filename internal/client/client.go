// Package client is a typed REST client for the model viewer API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"modelviewer/internal/apperr"
	"modelviewer/internal/config"
	"modelviewer/internal/model"
)

const requestIDHeader = "X-Request-ID"

// SaveSettingsRequest is the full settings write sent to the API.
type SaveSettingsRequest struct {
	MediaID         string                  `json:"media_id"`
	BackgroundColor string                  `json:"backgroundColor"`
	WireframeMode   bool                    `json:"wireframe_mode"`
	MaterialType    model.MaterialKind      `json:"material_type"`
	HDRIPreset      model.EnvironmentPreset `json:"hdri_preset"`
}

// Client talks to the API over HTTP. Every call runs under the configured
// per-request timeout; expiry and transport faults are reported as
// apperr.KindTransient, non-2xx answers by their status class.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New builds a client for cfg.BaseURL.
func New(cfg config.ClientConfig, opts ...Option) *Client {
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		timeout: timeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
	FileURL string          `json:"file_url"`
	MediaID string          `json:"media_id"`
	Data    json.RawMessage `json:"data"`
}

// LatestMedia returns the most recently uploaded media.
func (c *Client) LatestMedia(ctx context.Context) (*model.Media, error) {
	var m model.Media
	if _, err := c.do(ctx, http.MethodGet, "/media/latest", nil, "", &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// UploadModel sends r as the "model" form field named filename.
func (c *Client) UploadModel(ctx context.Context, filename string, r io.Reader) (*model.Media, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("model", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	var m model.Media
	env, err := c.do(ctx, http.MethodPost, "/media/upload", body, w.FormDataContentType(), &m)
	if err != nil {
		return nil, err
	}
	// file_url and media_id are authoritative even if data is trimmed.
	if env.MediaID != "" {
		m.ID = env.MediaID
	}
	if env.FileURL != "" {
		m.MediaURL = env.FileURL
	}
	return &m, nil
}

// DeleteMedia deletes a media with its settings and file.
func (c *Client) DeleteMedia(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/media/"+url.PathEscape(id), nil, "", nil)
	return err
}

// SaveSettings creates or overwrites the settings of req.MediaID.
func (c *Client) SaveSettings(ctx context.Context, req SaveSettingsRequest) (*model.Settings, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	var s model.Settings
	if _, err := c.do(ctx, http.MethodPost, "/settings", bytes.NewReader(b), "application/json", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SettingsForMedia returns the settings of a media, newest first.
func (c *Client) SettingsForMedia(ctx context.Context, mediaID string) ([]model.Settings, error) {
	var list []model.Settings
	if _, err := c.do(ctx, http.MethodGet, "/settings/"+url.PathEscape(mediaID), nil, "", &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) (*envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, apperr.FromStatus(resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return nil, apperr.Storage("malformed response", decodeErr)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, apperr.Storage("malformed response", err)
		}
	}
	return &env, nil
}

// transportError classifies a failed round trip. A canceled caller context is
// returned as is so callers can tell shutdown from failure.
func transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.Transient("request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return apperr.Transient("request failed", err)
}
