package safe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"msigcheck/internal/domain"
	"msigcheck/internal/infrastructure/httpjson"
)

// Client talks to the Safe client gateway for a single Safe on a single chain.
type Client struct {
	baseURL     string
	chainID     uint64
	safeAddress string
	httpClient  *http.Client
}

type Config struct {
	BaseURL     string
	ChainID     uint64
	SafeAddress string
	HTTPClient  *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("safe client url is required")
	}
	if cfg.ChainID == 0 {
		return nil, errors.New("chain id is required")
	}
	if cfg.SafeAddress == "" {
		return nil, errors.New("safe address is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		chainID:     cfg.ChainID,
		safeAddress: cfg.SafeAddress,
		httpClient:  httpClient,
	}, nil
}

type queuedResponse struct {
	Results []queueItem `json:"results"`
}

type queueItem struct {
	Type        string     `json:"type"`
	Transaction *txSummary `json:"transaction"`
}

type txSummary struct {
	ID            string `json:"id"`
	ExecutionInfo *struct {
		Nonce int64 `json:"nonce"`
	} `json:"executionInfo"`
	TxInfo struct {
		MethodName string `json:"methodName"`
		To         *struct {
			Value string `json:"value"`
		} `json:"to"`
	} `json:"txInfo"`
}

type detailsResponse struct {
	TxData *struct {
		DataDecoded *struct {
			Method     string `json:"method"`
			Parameters []struct {
				Name  string          `json:"name"`
				Value json.RawMessage `json:"value"`
			} `json:"parameters"`
		} `json:"dataDecoded"`
	} `json:"txData"`
}

// QueuedTransactions returns the pending queue of the Safe in gateway order.
// Transactions without execution info get nonce -1.
func (c *Client) QueuedTransactions(ctx context.Context) ([]domain.QueueEntry, error) {
	endpoint := fmt.Sprintf("%s/v1/chains/%d/safes/%s/transactions/queued", c.baseURL, c.chainID, c.safeAddress)

	var resp queuedResponse
	if err := httpjson.Get(ctx, c.httpClient, "safe.queued_transactions", endpoint, &resp); err != nil {
		return nil, fmt.Errorf("fetch queued transactions: %w", err)
	}

	entries := make([]domain.QueueEntry, 0, len(resp.Results))
	for _, item := range resp.Results {
		entry := domain.QueueEntry{Type: item.Type}
		if item.Transaction != nil {
			tx := &domain.QueuedTransaction{
				ID:         item.Transaction.ID,
				Nonce:      -1,
				MethodName: item.Transaction.TxInfo.MethodName,
			}
			if item.Transaction.ExecutionInfo != nil {
				tx.Nonce = item.Transaction.ExecutionInfo.Nonce
			}
			if item.Transaction.TxInfo.To != nil {
				tx.To = item.Transaction.TxInfo.To.Value
			}
			entry.Transaction = tx
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// TransactionDetails returns the decoded calldata of the transaction with id.
func (c *Client) TransactionDetails(ctx context.Context, id string) (domain.DecodedCall, error) {
	endpoint := fmt.Sprintf("%s/v1/chains/%d/transactions/%s", c.baseURL, c.chainID, url.PathEscape(id))

	var resp detailsResponse
	if err := httpjson.Get(ctx, c.httpClient, "safe.transaction_details", endpoint, &resp); err != nil {
		return domain.DecodedCall{}, fmt.Errorf("fetch transaction %s: %w", id, err)
	}
	if resp.TxData == nil || resp.TxData.DataDecoded == nil {
		return domain.DecodedCall{}, fmt.Errorf("transaction %s: response has no decoded data", id)
	}

	decoded := resp.TxData.DataDecoded
	call := domain.DecodedCall{
		Method:     decoded.Method,
		Parameters: make([]domain.Parameter, 0, len(decoded.Parameters)),
	}
	for _, param := range decoded.Parameters {
		call.Parameters = append(call.Parameters, domain.Parameter{Name: param.Name, Value: param.Value})
	}
	return call, nil
}
