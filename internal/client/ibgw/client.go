// Package ibgw is the HTTP client for the brokerage gateway's REST bridge.
// The bridge owns the actual brokerage wire protocol; this client only sees
// a session resource and three read endpoints.
package ibgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type Client struct {
	host       string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host string) *Client {
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		httpClient: httpClient,
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	fullURL := c.host + path
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

// OpenSession asks the bridge to establish its brokerage session under the
// given client id.
func (c *Client) OpenSession(ctx context.Context, clientID int) error {
	raw, err := c.doRequest(ctx, http.MethodPost, "/v1/session", nil, map[string]int{"client_id": clientID})
	if err != nil {
		return err
	}
	var state sessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return fmt.Errorf("failed to decode session state: %w", err)
	}
	if !state.Connected {
		return fmt.Errorf("gateway refused session")
	}
	return nil
}

func (c *Client) SessionAlive(ctx context.Context) (bool, error) {
	raw, err := c.doRequest(ctx, http.MethodGet, "/v1/session", nil, nil)
	if err != nil {
		return false, err
	}
	var state sessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return false, fmt.Errorf("failed to decode session state: %w", err)
	}
	return state.Connected, nil
}

func (c *Client) CloseSession(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/v1/session", nil, nil)
	return err
}

func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	raw, err := c.doRequest(ctx, http.MethodGet, "/v1/accounts", nil, nil)
	if err != nil {
		return nil, err
	}
	var accounts []Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("failed to decode accounts: %w", err)
	}
	return accounts, nil
}

// Positions lists positions for one account, or for every account when
// accountID is empty.
func (c *Client) Positions(ctx context.Context, accountID string) ([]PositionRow, error) {
	query := url.Values{}
	if accountID != "" {
		query.Set("account", accountID)
	}
	raw, err := c.doRequest(ctx, http.MethodGet, "/v1/positions", query, nil)
	if err != nil {
		return nil, err
	}
	var rows []PositionRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode positions: %w", err)
	}
	return rows, nil
}

func (c *Client) HistoricalBars(ctx context.Context, req HistoryRequest) ([]Bar, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	query := url.Values{}
	query.Set("symbol", req.Symbol)
	if req.Duration != "" {
		query.Set("duration", req.Duration)
	}
	if req.BarSize != "" {
		query.Set("bar_size", req.BarSize)
	}
	if req.WhatToShow != "" {
		query.Set("what", req.WhatToShow)
	}
	raw, err := c.doRequest(ctx, http.MethodGet, "/v1/history", query, nil)
	if err != nil {
		return nil, err
	}
	var bars []Bar
	if err := json.Unmarshal(raw, &bars); err != nil {
		return nil, fmt.Errorf("failed to decode bars: %w", err)
	}
	return bars, nil
}
