// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package auth

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsAttach(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://platform.example.com/acct-1/Deployment/query", nil)
	require.NoError(t, err)

	creds := Credentials{AccountID: "acct-1", Username: "admin", Password: "secret"}
	require.NoError(t, creds.Attach(req))

	// base64("admin:secret")
	assert.Equal(t, "Basic YWRtaW46c2VjcmV0", req.Header.Get("Authorization"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
}

func TestCredentialsAttachRejectsIncomplete(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://platform.example.com/", nil)
	require.NoError(t, err)

	creds := Credentials{AccountID: "acct-1", Username: "admin"}
	assert.ErrorIs(t, creds.Attach(req), ErrMissingCredentials)
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestCredentialsValidate(t *testing.T) {
	cases := []struct {
		name  string
		creds Credentials
		ok    bool
	}{
		{name: "complete", creds: Credentials{AccountID: "acct-1", Username: "admin", Password: "secret"}, ok: true},
		{name: "missing_account", creds: Credentials{Username: "admin", Password: "secret"}},
		{name: "missing_username", creds: Credentials{AccountID: "acct-1", Password: "secret"}},
		{name: "missing_password", creds: Credentials{AccountID: "acct-1", Username: "admin"}},
		{name: "blank_account", creds: Credentials{AccountID: "   ", Username: "admin", Password: "secret"}},
		{name: "empty", creds: Credentials{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.creds.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrMissingCredentials)
			}
		})
	}
}

func TestFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("accountId", " acct-1 ")
	values.Set("username", "admin")
	values.Set("password", "s3cret!")

	creds := FromQuery(values)
	assert.Equal(t, Credentials{AccountID: "acct-1", Username: "admin", Password: "s3cret!"}, creds)
}
