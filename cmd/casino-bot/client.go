package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type apiError struct {
	Status int
	Code   string
}

func (e *apiError) Error() string { return fmt.Sprintf("%d %s", e.Status, e.Code) }

type account struct {
	ID          int64           `json:"id"`
	Username    string          `json:"username"`
	Balance     decimal.Decimal `json:"balance"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

type bet struct {
	ID         int64           `json:"id"`
	Game       string          `json:"game"`
	Amount     decimal.Decimal `json:"amount"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Payout     decimal.Decimal `json:"payout"`
}

type wagerResult struct {
	Bet  bet     `json:"bet"`
	User account `json:"user"`
}

type apiClient struct {
	base  string
	http  *http.Client
	token string
}

func newAPIClient(base string) *apiClient {
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &apiError{Status: resp.StatusCode, Code: e.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// signIn registers the handle, falling back to login when it is taken.
func (c *apiClient) signIn(ctx context.Context, handle, password string) (*account, error) {
	creds := map[string]string{"username": handle, "password": password}
	var auth struct {
		Token string  `json:"token"`
		User  account `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/register", creds, &auth)
	var ae *apiError
	if asAPIError(err, &ae) && ae.Code == "handle_taken" {
		err = c.do(ctx, http.MethodPost, "/api/login", creds, &auth)
	}
	if err != nil {
		return nil, err
	}
	c.token = auth.Token
	return &auth.User, nil
}

func (c *apiClient) me(ctx context.Context) (*account, error) {
	var a account
	if err := c.do(ctx, http.MethodGet, "/api/user", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *apiClient) wager(ctx context.Context, game string, stake decimal.Decimal) (*wagerResult, error) {
	var res wagerResult
	err := c.do(ctx, http.MethodPost, "/api/bet", map[string]string{"game": game, "amount": stake.StringFixed(2)}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *apiClient) deposit(ctx context.Context, amount decimal.Decimal) (*account, error) {
	var res struct {
		User account `json:"user"`
	}
	body := map[string]string{"type": "deposit", "amount": amount.StringFixed(2), "method": "crypto"}
	if err := c.do(ctx, http.MethodPost, "/api/transactions", body, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (c *apiClient) bets(ctx context.Context) ([]bet, error) {
	var res struct {
		Items []bet `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/bets", nil, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}
