// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-core-stack/atomsphere-proxy/pkg/atomsphere"
	"github.com/go-core-stack/atomsphere-proxy/pkg/auth"
	"github.com/go-core-stack/atomsphere-proxy/pkg/config"
)

// Proxy routes inbound API requests to the platform client.
type Proxy struct {
	client  *atomsphere.Client
	logger  zerolog.Logger
	handler http.Handler
}

// New constructs the proxy handler from runtime configuration.
func New(cfg config.Config) *Proxy {
	p := &Proxy{
		client: atomsphere.NewClient(cfg),
		logger: log.With().Str("component", "proxy").Logger(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/deployments", p.handleListDeployments)
	mux.HandleFunc("GET /api/deployment/{deploymentId}/type", p.handleDeploymentType)
	mux.HandleFunc("POST /api/deployment/{deploymentId}/listener/{action}", p.handleToggleListener)
	mux.HandleFunc("POST /api/deployment/{deploymentId}/scheduler/{action}", p.handleToggleScheduler)
	mux.HandleFunc("GET /api/processes", p.handleListProcesses)
	mux.HandleFunc("GET /health", p.handleHealth)
	p.handler = p.accessLog(mux)

	return p
}

// ServeHTTP delegates to the wrapped mux.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.handler.ServeHTTP(w, r)
}

func (p *Proxy) handleListDeployments(w http.ResponseWriter, r *http.Request) {
	creds := auth.FromQuery(r.URL.Query())
	if err := creds.Validate(); err != nil {
		p.fail(w, "list deployments", "", err)
		return
	}

	deployments, err := p.client.ListDeployments(r.Context(), creds, r.URL.Query().Get("processId"))
	if err != nil {
		p.fail(w, "list deployments", "", err)
		return
	}
	writeJSON(w, http.StatusOK, deployments)
}

func (p *Proxy) handleDeploymentType(w http.ResponseWriter, r *http.Request) {
	creds := auth.FromQuery(r.URL.Query())
	if err := creds.Validate(); err != nil {
		p.fail(w, "get deployment type", "", err)
		return
	}

	deployment, err := p.client.GetDeployment(r.Context(), creds, r.PathValue("deploymentId"))
	if err != nil {
		p.fail(w, "get deployment type", "", err)
		return
	}
	writeJSON(w, http.StatusOK, deployment.TypeView())
}

// toggleResponse is the envelope returned by the listener/scheduler routes.
type toggleResponse struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	DeploymentID string          `json:"deploymentId"`
	Response     json.RawMessage `json:"response"`
}

func (p *Proxy) handleToggleListener(w http.ResponseWriter, r *http.Request) {
	p.handleToggle(w, r, "toggle listener", "listener", atomsphere.ValidListenerAction, p.client.ToggleListener)
}

func (p *Proxy) handleToggleScheduler(w http.ResponseWriter, r *http.Request) {
	p.handleToggle(w, r, "toggle scheduler", "scheduler", atomsphere.ValidSchedulerAction, p.client.ToggleScheduler)
}

func (p *Proxy) handleToggle(w http.ResponseWriter, r *http.Request, op, kind string,
	valid func(string) bool,
	toggle func(ctx context.Context, creds auth.Credentials, deploymentID, action string) (json.RawMessage, error),
) {
	deploymentID := r.PathValue("deploymentId")
	action := r.PathValue("action")

	// An absent body counts as missing credentials, not malformed JSON.
	var creds auth.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil && !errors.Is(err, io.EOF) {
		p.logger.Warn().Err(err).Str("operation", op).Msg("invalid JSON body")
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := creds.Validate(); err != nil {
		p.fail(w, op, action, err)
		return
	}
	// Reject bad actions before any upstream call is attempted.
	if !valid(action) {
		p.fail(w, op, action, fmt.Errorf("%w: %q", atomsphere.ErrInvalidAction, action))
		return
	}

	upstream, err := toggle(r.Context(), creds, deploymentID, action)
	if err != nil {
		p.fail(w, op, action, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{
		Success:      true,
		Message:      fmt.Sprintf("deployment %s %s requested", kind, action),
		DeploymentID: deploymentID,
		Response:     upstream,
	})
}

func (p *Proxy) handleListProcesses(w http.ResponseWriter, r *http.Request) {
	creds := auth.FromQuery(r.URL.Query())
	if err := creds.Validate(); err != nil {
		p.fail(w, "list processes", "", err)
		return
	}

	processes, err := p.client.ListProcesses(r.Context(), creds)
	if err != nil {
		p.fail(w, "list processes", "", err)
		return
	}
	writeJSON(w, http.StatusOK, processes)
}

// healthResponse mirrors the unauthenticated liveness payload.
type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (p *Proxy) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	})
}

// fail maps a handler error to the response contract: missing credentials and
// invalid actions are 400s, upstream failures mirror the upstream status, and
// anything else is a 500. Every failure is logged with its operation.
func (p *Proxy) fail(w http.ResponseWriter, op, action string, err error) {
	event := p.logger.Warn().Err(err).Str("operation", op)
	if action != "" {
		event = event.Str("action", action)
	}

	var upstreamErr *atomsphere.UpstreamError
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		event.Msg("request rejected")
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, atomsphere.ErrInvalidAction):
		event.Msg("request rejected")
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &upstreamErr):
		event.Int("status", upstreamErr.HTTPStatus()).Msg("upstream call failed")
		writeError(w, upstreamErr.HTTPStatus(), upstreamErr.Detail())
	default:
		event.Msg("request failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
