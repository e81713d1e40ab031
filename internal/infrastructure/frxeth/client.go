package frxeth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"msigcheck/internal/domain"
	"msigcheck/internal/infrastructure/httpjson"
)

// Client reads the frxETH validator registry.
type Client struct {
	url        string
	httpClient *http.Client
}

type Config struct {
	URL        string
	HTTPClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("validator api url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{url: cfg.URL, httpClient: httpClient}, nil
}

type validatorsResponse struct {
	Validators []apiValidator `json:"validators"`
}

type apiValidator struct {
	PublicKey  string `json:"publicKey"`
	StatusCode string `json:"statusCode"`
}

// Validators returns every validator known to the API, in API order.
func (c *Client) Validators(ctx context.Context) ([]domain.Validator, error) {
	var resp validatorsResponse
	if err := httpjson.Get(ctx, c.httpClient, "frxeth.validators", c.url, &resp); err != nil {
		return nil, fmt.Errorf("fetch validators: %w", err)
	}
	validators := make([]domain.Validator, 0, len(resp.Validators))
	for _, v := range resp.Validators {
		validators = append(validators, domain.Validator{
			PublicKey:  v.PublicKey,
			StatusCode: v.StatusCode,
		})
	}
	return validators, nil
}
