package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequestWithBody(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{"http://localhost:50577", PathLogin, "http://localhost:50577/api/user/login"},
		{"http://localhost:50577/", PathLogin, "http://localhost:50577/api/user/login"},
		{"http://10.0.2.2:50577", "api/user/register", "http://10.0.2.2:50577/api/user/register"},
		{"http://localhost:50577", "https://other.example/api/user/login", "https://other.example/api/user/login"},
	}

	for _, tt := range tests {
		req, err := BuildRequestWithBody(context.Background(), http.MethodPost, tt.base, tt.path, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.want, req.URL.String())
	}
}

func TestEncodeForm(t *testing.T) {
	values, err := url.ParseQuery(EncodeForm(map[string]string{"username": "a b", "password": "x&y=z"}))
	require.NoError(t, err)
	assert.Equal(t, "a b", values.Get("username"))
	assert.Equal(t, "x&y=z", values.Get("password"))
	assert.Equal(t, "", EncodeForm(nil))
}

func TestSetTypicalHeaders(t *testing.T) {
	req, err := http.NewRequest(http.MethodPost, "http://localhost", nil)
	require.NoError(t, err)

	SetTypicalHeaders(req, nil, "")
	assert.Equal(t, "application/x-www-form-urlencoded; charset=UTF-8", req.Header.Get("Content-Type"))
	assert.Empty(t, req.Header.Get("Authorization"))

	contentType := "application/json"
	SetTypicalHeaders(req, &contentType, "abc")
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "Bearer abc", req.Header.Get("Authorization"))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "", Plural(1))
	assert.Equal(t, "s", Plural(0))
	assert.Equal(t, "s", Plural(5))
}

func TestDebugRequestRedactsAndRestoresBody(t *testing.T) {
	body := EncodeForm(map[string]string{"username": "alice", "password": "secret"})
	req, err := http.NewRequest(http.MethodPost, "http://localhost/api/user/login", bytes.NewBufferString(body))
	require.NoError(t, err)
	SetTypicalHeaders(req, nil, "abc")

	dump := DebugRequest(req)
	assert.Contains(t, dump, "[POST http://localhost/api/user/login]")
	assert.Contains(t, dump, "username=alice")
	assert.NotContains(t, dump, "secret")
	assert.NotContains(t, dump, "Bearer abc")

	restored, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, body, string(restored))
	assert.True(t, strings.Contains(dump, "Authorization: [redacted]"))
}
