// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package atomsphere

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidAction indicates a toggle action outside the accepted literals.
var ErrInvalidAction = errors.New("invalid action")

// UpstreamError wraps a failed platform call. Status carries the upstream
// HTTP status when the call completed, 0 when it never did (transport
// failure); Body holds the upstream error payload when one was readable.
type UpstreamError struct {
	Status int
	Body   []byte
	Err    error
}

// Error implements the error interface for UpstreamError.
func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("upstream status %d: %s", e.Status, string(e.Body))
}

// Unwrap exposes the underlying error for errors.Is / errors.As checks.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status to mirror to the caller, defaulting to 500
// when the upstream never produced one.
func (e *UpstreamError) HTTPStatus() int {
	if e.Status > 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// Detail returns the upstream error body when available, else the local
// error message.
func (e *UpstreamError) Detail() string {
	if len(e.Body) > 0 {
		return string(e.Body)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.HTTPStatus())
}
