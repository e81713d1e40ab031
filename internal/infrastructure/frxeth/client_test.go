package frxeth

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msigcheck/internal/domain"
)

const testURL = "https://api.example.com/v2/frxeth/validators"

func TestClient_Validators(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet, testURL, httpmock.NewStringResponder(200, `{
		"validators": [
			{"publicKey": "0xaa", "statusCode": "uninitialized", "index": null},
			{"publicKey": "0xbb", "statusCode": "active_ongoing"}
		]
	}`))

	client, err := NewClient(Config{URL: testURL, HTTPClient: &http.Client{Transport: transport}})
	require.NoError(t, err)

	validators, err := client.Validators(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Validator{
		{PublicKey: "0xaa", StatusCode: "uninitialized"},
		{PublicKey: "0xbb", StatusCode: "active_ongoing"},
	}, validators)
}

func TestClient_ValidatorsEmpty(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet, testURL, httpmock.NewStringResponder(200, `{"validators": []}`))

	client, err := NewClient(Config{URL: testURL, HTTPClient: &http.Client{Transport: transport}})
	require.NoError(t, err)

	validators, err := client.Validators(context.Background())
	require.NoError(t, err)
	assert.Empty(t, validators)
}

func TestClient_ValidatorsHTTPError(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet, testURL, httpmock.NewStringResponder(500, "oops"))

	client, err := NewClient(Config{URL: testURL, HTTPClient: &http.Client{Transport: transport}})
	require.NoError(t, err)

	_, err = client.Validators(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch validators")
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}
