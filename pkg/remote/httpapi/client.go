// Launcher Core
// Copyright (c) 2025 The Open Launcher Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Launcher Core.
//
// Launcher Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Launcher Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Launcher Core.  If not, see <http://www.gnu.org/licenses/>.

// Package httpapi implements remote.Client against the launcher backend's
// JSON HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/OpenLauncherProject/launcher-core/pkg/helpers/syncutil"
	"github.com/OpenLauncherProject/launcher-core/pkg/remote"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const defaultTimeout = 30 * time.Second

// defaultTransport provides connection pooling and sane timeouts for
// all backend calls.
var defaultTransport = &http.Transport{
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ResponseHeaderTimeout: 30 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	MaxIdleConns:          20,
	MaxIdleConnsPerHost:   8,
	IdleConnTimeout:       90 * time.Second,
}

// authTransport injects the session's bearer token into every request
// once one is set.
type authTransport struct {
	base  http.RoundTripper
	token func() string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token := t.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform HTTP round trip: %w", err)
	}
	return resp, nil
}

// Client talks to the launcher backend. Safe for concurrent use.
// httpClient serves the JSON endpoints and carries the configured
// overall timeout; downloadClient shares the same transport but has no
// overall timeout, so a file download is bounded only by its context.
type Client struct {
	fs             afero.Fs
	httpClient     *http.Client
	downloadClient *http.Client
	baseURL        *url.URL
	profilesDir    string
	accessToken    string
	mu             syncutil.RWMutex
}

// Option customizes a Client, mainly for tests.
type Option func(*Client)

// WithFs replaces the filesystem the file sync operates on.
func WithFs(fs afero.Fs) Option {
	return func(c *Client) { c.fs = fs }
}

// WithHTTPClient replaces the underlying HTTP client. Its transport is
// wrapped so bearer token injection still applies; the supplied client
// itself is left untouched.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		clone := *hc
		c.httpClient = &clone
	}
}

// NewClient creates a backend client rooted at baseURL. Synced profile
// files are stored under profilesDir.
func NewClient(baseURL string, timeout time.Duration, profilesDir string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("remote base URL must be http(s), got %q", baseURL)
	}

	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL:     parsed,
		fs:          afero.NewOsFs(),
		profilesDir: profilesDir,
	}
	c.httpClient = &http.Client{Timeout: timeout}

	for _, opt := range opts {
		opt(c)
	}

	base := c.httpClient.Transport
	if base == nil {
		base = defaultTransport
	}
	auth := &authTransport{base: base, token: c.AccessToken}
	c.httpClient.Transport = auth
	if c.httpClient.Timeout == 0 {
		c.httpClient.Timeout = timeout
	}
	// Profile files can take arbitrarily long to stream, so downloads
	// get a client without an overall timeout and rely on the request
	// context for cancellation.
	c.downloadClient = &http.Client{
		Transport:     auth,
		CheckRedirect: c.httpClient.CheckRedirect,
		Jar:           c.httpClient.Jar,
	}

	return c, nil
}

// SetAccessToken sets the bearer token attached to subsequent calls.
// Pass an empty string on logout.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

// AccessToken returns the current bearer token, or "".
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *Client) endpoint(path string) string {
	ref := *c.baseURL
	ref.Path = strings.TrimRight(ref.Path, "/") + path
	return ref.String()
}

// doJSON performs a JSON request against the backend, decoding the
// response body into out when out is non-nil. Transport failures are
// wrapped as transient; HTTP errors are not.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, remote.ErrTransient, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close response body")
		}
	}()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		// Backend down or behind a broken proxy: retryable.
		return fmt.Errorf("%s %s: %w: status %d", method, path, remote.ErrTransient, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Authenticate implements remote.Client.
func (c *Client) Authenticate(ctx context.Context, login, password, hardwareID string) (remote.AuthResult, error) {
	payload := struct {
		Login      string `json:"login"`
		Password   string `json:"password"`
		HardwareID string `json:"hwid"`
	}{login, password, hardwareID}

	var result remote.AuthResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/signin", payload, &result); err != nil {
		return remote.AuthResult{}, err
	}
	return result, nil
}

// ListProfiles implements remote.Client.
func (c *Client) ListProfiles(ctx context.Context) ([]remote.Profile, error) {
	var envelope struct {
		Data []remote.Profile `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/profiles", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// ResolveLaunch implements remote.Client.
func (c *Client) ResolveLaunch(ctx context.Context, req remote.LaunchRequest) (remote.LaunchResolution, error) {
	var resolution remote.LaunchResolution
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/profiles/info", req, &resolution); err != nil {
		return remote.LaunchResolution{}, err
	}
	return resolution, nil
}

// UpdatePresence implements remote.Client.
func (c *Client) UpdatePresence(ctx context.Context, text string) error {
	payload := struct {
		Text string `json:"text"`
	}{text}
	return c.doJSON(ctx, http.MethodPost, "/api/v1/presence/state", payload, nil)
}

// LoadPresenceIntegration implements remote.Client.
func (c *Client) LoadPresenceIntegration(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/v1/presence/init", nil, nil)
}
