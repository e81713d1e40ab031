package httpjson

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newClient(t *testing.T) (*http.Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	return &http.Client{Transport: transport}, transport
}

func TestGet_DecodesBody(t *testing.T) {
	client, transport := newClient(t)
	transport.RegisterResponder(http.MethodGet, "https://api.example.com/thing",
		httpmock.NewStringResponder(200, `{"name":"frxeth","count":2}`))

	var out payload
	require.NoError(t, Get(context.Background(), client, "test.get", "https://api.example.com/thing", &out))
	assert.Equal(t, payload{Name: "frxeth", Count: 2}, out)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestGet_NonSuccessStatus(t *testing.T) {
	client, transport := newClient(t)
	transport.RegisterResponder(http.MethodGet, "https://api.example.com/thing",
		httpmock.NewStringResponder(502, "bad gateway"))

	var out payload
	err := Get(context.Background(), client, "test.get", "https://api.example.com/thing", &out)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, 502, statusErr.StatusCode)
	assert.Equal(t, "bad gateway", statusErr.Body)
	assert.Contains(t, err.Error(), "status 502")
}

func TestGet_MalformedJSON(t *testing.T) {
	client, transport := newClient(t)
	transport.RegisterResponder(http.MethodGet, "https://api.example.com/thing",
		httpmock.NewStringResponder(200, `{"name":`))

	var out payload
	err := Get(context.Background(), client, "test.get", "https://api.example.com/thing", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode https://api.example.com/thing")
}

func TestGet_TransportError(t *testing.T) {
	client, transport := newClient(t)
	transport.RegisterResponder(http.MethodGet, "https://api.example.com/thing",
		httpmock.NewErrorResponder(errors.New("connection reset")))

	var out payload
	err := Get(context.Background(), client, "test.get", "https://api.example.com/thing", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
