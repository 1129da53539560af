// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package atomsphere is a thin client for the integration-platform REST API.
// Every call is account-scoped: the account id is appended to the configured
// platform root and the request carries per-call Basic-Auth headers. The
// client holds no state across calls.
package atomsphere

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/go-core-stack/atomsphere-proxy/pkg/auth"
	"github.com/go-core-stack/atomsphere-proxy/pkg/config"
)

// maxErrorBody caps how much of an upstream error payload is read back.
const maxErrorBody = 64 * 1024

var (
	listenerActions  = map[string]struct{}{"enable": {}, "disable": {}}
	schedulerActions = map[string]struct{}{"pause": {}, "resume": {}}
)

// ValidListenerAction reports whether the literal is an accepted listener action.
func ValidListenerAction(action string) bool {
	_, ok := listenerActions[action]
	return ok
}

// ValidSchedulerAction reports whether the literal is an accepted scheduler action.
func ValidSchedulerAction(action string) bool {
	_, ok := schedulerActions[action]
	return ok
}

// Client performs outbound platform calls with tuned transport settings.
type Client struct {
	// HTTPClient is exported so tests can install a fake transport.
	HTTPClient *http.Client

	baseURL *url.URL
	logger  zerolog.Logger
}

// NewClient constructs a Client backed by an http.Client configured with
// sensible connection pooling defaults and the provided runtime configuration.
func NewClient(cfg config.Config) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify, // nolint:gosec -- opt-in for development scenarios
		},
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		baseURL: cfg.Platform,
		logger:  log.With().Str("component", "atomsphere").Logger(),
	}
}

// queryConfig is the body sent to the platform query endpoints.
type queryConfig struct {
	ProcessID string `json:"processId,omitempty"`
}

// queryResult is the envelope the platform wraps query matches in.
type queryResult struct {
	Result []Deployment `json:"result"`
}

// QueryDeployments fetches deployment summaries, optionally filtered by
// process id, in the order the platform returns them.
func (c *Client) QueryDeployments(ctx context.Context, creds auth.Credentials, processID string) ([]Deployment, error) {
	body, err := c.do(ctx, creds, http.MethodPost,
		c.accountURL(creds, "Deployment", "query"),
		queryConfig{ProcessID: processID})
	if err != nil {
		return nil, err
	}

	var envelope queryResult
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode deployment query result: %w", err)
	}
	return envelope.Result, nil
}

// GetDeployment fetches the full record for one deployment id.
func (c *Client) GetDeployment(ctx context.Context, creds auth.Credentials, deploymentID string) (Deployment, error) {
	body, err := c.do(ctx, creds, http.MethodGet,
		c.accountURL(creds, "Deployment", deploymentID), nil)
	if err != nil {
		return Deployment{}, err
	}

	var deployment Deployment
	if err := json.Unmarshal(body, &deployment); err != nil {
		return Deployment{}, fmt.Errorf("decode deployment %s: %w", deploymentID, err)
	}
	return deployment, nil
}

// ListDeployments queries deployment summaries and resolves each to its full
// record. Detail fetches run concurrently but the result keeps the summary
// order; the first failure cancels the remaining fetches and fails the whole
// call, never returning a partial list.
func (c *Client) ListDeployments(ctx context.Context, creds auth.Credentials, processID string) ([]Deployment, error) {
	summaries, err := c.QueryDeployments(ctx, creds, processID)
	if err != nil {
		return nil, err
	}

	details := make([]Deployment, len(summaries))
	g, ctx := errgroup.WithContext(ctx)
	for i, summary := range summaries {
		g.Go(func() error {
			deployment, err := c.GetDeployment(ctx, creds, summary.ID())
			if err != nil {
				return err
			}
			details[i] = deployment
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}

// ToggleListener dispatches an enable/disable request for a listener-driven
// deployment, relaying the action literal in the upstream path.
func (c *Client) ToggleListener(ctx context.Context, creds auth.Credentials, deploymentID, action string) (json.RawMessage, error) {
	if !ValidListenerAction(action) {
		return nil, fmt.Errorf("%w: listener action must be enable or disable, got %q", ErrInvalidAction, action)
	}
	return c.do(ctx, creds, http.MethodPost,
		c.accountURL(creds, "Deployment", deploymentID, "listener", action), nil)
}

// ToggleScheduler dispatches a pause/resume request for a schedule-driven
// deployment.
func (c *Client) ToggleScheduler(ctx context.Context, creds auth.Credentials, deploymentID, action string) (json.RawMessage, error) {
	if !ValidSchedulerAction(action) {
		return nil, fmt.Errorf("%w: scheduler action must be pause or resume, got %q", ErrInvalidAction, action)
	}
	return c.do(ctx, creds, http.MethodPost,
		c.accountURL(creds, "Deployment", deploymentID, "scheduler", action), nil)
}

// ListProcesses returns the raw process query result, relayed verbatim.
func (c *Client) ListProcesses(ctx context.Context, creds auth.Credentials) (json.RawMessage, error) {
	return c.do(ctx, creds, http.MethodPost,
		c.accountURL(creds, "Process", "query"), queryConfig{})
}

// accountURL resolves an account-scoped endpoint under the platform root.
func (c *Client) accountURL(creds auth.Credentials, parts ...string) string {
	segments := append([]string{creds.AccountID}, parts...)
	return c.baseURL.JoinPath(segments...).String()
}

// do executes one authenticated platform call and returns the response body.
// Failures come back as *UpstreamError so callers can mirror the status.
func (c *Client) do(ctx context.Context, creds auth.Credentials, method, target string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	if err := creds.Attach(req); err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Error().Err(closeErr).Msg("close upstream response body failed")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			c.logger.Error().Err(readErr).Int("status", resp.StatusCode).Msg("failed to read upstream error body")
			errBody = nil
		}
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("method", method).
			Str("url", target).
			Msg("upstream returned error")
		return nil, &UpstreamError{Status: resp.StatusCode, Body: errBody}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Status: resp.StatusCode, Err: fmt.Errorf("read upstream response: %w", err)}
	}
	return respBody, nil
}
