// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package auth

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// ErrMissingCredentials indicates a request arrived without the full
// accountId/username/password triple.
var ErrMissingCredentials = errors.New("accountId, username and password are required")

// Credentials identify the platform account a single request acts on. They
// live for one request only and are never stored.
type Credentials struct {
	AccountID string `json:"accountId"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// FromQuery extracts credentials from URL query parameters.
func FromQuery(values url.Values) Credentials {
	return Credentials{
		AccountID: strings.TrimSpace(values.Get("accountId")),
		Username:  strings.TrimSpace(values.Get("username")),
		Password:  values.Get("password"),
	}
}

// Validate reports ErrMissingCredentials when any field is empty.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.AccountID) == "" ||
		strings.TrimSpace(c.Username) == "" ||
		c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Attach mutates the request by injecting the Basic authorization header and
// the fixed JSON content negotiation headers the platform expects.
func (c Credentials) Attach(req *http.Request) error {
	if err := c.Validate(); err != nil {
		return err
	}

	token := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
	req.Header.Set("Authorization", "Basic "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	return nil
}
