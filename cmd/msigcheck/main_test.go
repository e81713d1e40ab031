package main

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"msigcheck/internal/config"
	"msigcheck/internal/domain"
	"msigcheck/internal/infrastructure/httpjson"
	"msigcheck/internal/infrastructure/logging"
)

const (
	queuedURL  = "https://safe-client.safe.global/v1/chains/1/safes/0x8306300ffd616049FD7e4b0354a64Da835c1A81C/transactions/queued"
	detailsURL = "https://safe-client.safe.global/v1/chains/1/transactions/multisig_0x83_0x07"
)

func newMockedRun(t *testing.T) (*httpmock.MockTransport, config.Config, *http.Client) {
	t.Helper()
	cfg, err := config.Load(config.EnvMap{})
	require.NoError(t, err)
	transport := httpmock.NewMockTransport()
	return transport, cfg, &http.Client{Transport: transport}
}

func TestRun_EndToEnd(t *testing.T) {
	transport, cfg, client := newMockedRun(t)
	transport.RegisterResponder(http.MethodGet, config.DefaultValidatorAPIURL,
		httpmock.NewStringResponder(200, `{"validators":[{"publicKey":"A","statusCode":"uninitialized"}]}`))
	transport.RegisterResponder(http.MethodGet, queuedURL, httpmock.NewStringResponder(200, `{
		"results": [
			{"type": "LABEL", "label": "Next"},
			{"type": "TRANSACTION", "transaction": {
				"id": "multisig_0x83_0x07",
				"executionInfo": {"nonce": 7},
				"txInfo": {"methodName": "addValidators", "to": {"value": "0xbAFA44EFE7901E04E39Dad13167D089C559c1138"}}
			}}
		]
	}`))
	transport.RegisterResponder(http.MethodGet, detailsURL, httpmock.NewStringResponder(200, `{
		"txData": {"dataDecoded": {
			"method": "addValidators",
			"parameters": [{"name": "validatorArray", "value": [["A", "_", "_"]]}]
		}}
	}`))

	rec := &logging.Recorder{}
	report, err := run(context.Background(), cfg, rec, client)
	require.NoError(t, err)

	info := rec.Messages(logging.LevelInfo)
	assert.Contains(t, info, "For tx #7, we got 1 validator public keys to add")
	assert.Contains(t, info, "There are no duplicate keys in the enqueued transactions")
	assert.Contains(t, info, "All 1 keys are good to go")
	assert.Equal(t, "[End] Validated MSIG validators to add data", info[len(info)-1])
	assert.Empty(t, rec.Messages(logging.LevelError))
	assert.Equal(t, []domain.CandidateKey{{Key: "A", Nonce: 7}}, report.Keys)
	assert.Equal(t, 1, transport.GetCallCountInfo()["GET "+detailsURL])
}

func TestRun_ValidatorAPIFailure(t *testing.T) {
	transport, cfg, client := newMockedRun(t)
	transport.RegisterResponder(http.MethodGet, config.DefaultValidatorAPIURL, httpmock.NewStringResponder(502, "bad gateway"))
	transport.RegisterResponder(http.MethodGet, queuedURL, httpmock.NewStringResponder(200, `{"results":[]}`))

	rec := &logging.Recorder{}
	_, err := run(context.Background(), cfg, rec, client)
	require.Error(t, err)

	var statusErr *httpjson.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, 502, statusErr.StatusCode)
	assert.NotContains(t, rec.Messages(logging.LevelInfo), "[End] Validated MSIG validators to add data")
}

func TestNewApp(t *testing.T) {
	app := newApp()

	assert.Equal(t, "msigcheck", app.Name)
	assert.Contains(t, app.Version, version)
	require.Len(t, app.Flags, 1)
	assert.Equal(t, []string{"no-color"}, app.Flags[0].Names())
}

func TestNewApp_NonBooleanNoColorReachesAction(t *testing.T) {
	t.Setenv("NO_COLOR", "yes")

	app := newApp()
	reached := false
	app.Action = func(c *cli.Context) error {
		reached = true
		assert.False(t, c.Bool("no-color"))
		return nil
	}

	require.NoError(t, app.Run([]string{"msigcheck"}))
	assert.True(t, reached)

	cfg, err := config.Load(config.EnvMap{"NO_COLOR": "yes"})
	require.NoError(t, err)
	assert.True(t, cfg.NoColor)
}

func TestNewApp_NoColorFlag(t *testing.T) {
	app := newApp()
	var noColor bool
	app.Action = func(c *cli.Context) error {
		noColor = c.Bool("no-color")
		return nil
	}

	require.NoError(t, app.Run([]string{"msigcheck", "--no-color"}))
	assert.True(t, noColor)
}
