package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"coinvault/internal/economy"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Register(ctx context.Context, playerUUID, playerName string) (economy.RegisterResult, error) {
	var out economy.RegisterResult
	err := c.jsonRequest(ctx, http.MethodPost, "/user", map[string]any{
		"player_uuid": playerUUID,
		"player_name": playerName,
	}, &out)
	return out, err
}

func (c *Client) Account(ctx context.Context, playerUUID string) (economy.Account, error) {
	var out economy.Account
	err := c.jsonRequest(ctx, http.MethodGet, "/user/"+url.PathEscape(playerUUID), nil, &out)
	return out, err
}

func (c *Client) Wallet(ctx context.Context, playerUUID string) (int64, error) {
	var out struct {
		Wallet int64 `json:"wallet"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/user/"+url.PathEscape(playerUUID)+"/wallet", nil, &out)
	return out.Wallet, err
}

func (c *Client) Bank(ctx context.Context, playerUUID string) (int64, error) {
	var out struct {
		Bank int64 `json:"bank"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/user/"+url.PathEscape(playerUUID)+"/bank", nil, &out)
	return out.Bank, err
}

func (c *Client) Transfer(ctx context.Context, playerUUID, from, to string, amount int64) (economy.TransferResult, error) {
	var out economy.TransferResult
	err := c.jsonRequest(ctx, http.MethodPost, "/user/"+url.PathEscape(playerUUID)+"/transfer", map[string]any{
		"from":   from,
		"to":     to,
		"amount": amount,
	}, &out)
	return out, err
}

func (c *Client) Sell(ctx context.Context, playerUUID, itemKey string, quantity int64) (economy.SellResult, error) {
	var out economy.SellResult
	err := c.jsonRequest(ctx, http.MethodPost, "/market/sell/"+url.PathEscape(playerUUID), map[string]any{
		"item_key": itemKey,
		"quantity": quantity,
	}, &out)
	return out, err
}

func (c *Client) Buy(ctx context.Context, playerUUID, itemKey string, quantity int64) (economy.BuyResult, error) {
	var out economy.BuyResult
	err := c.jsonRequest(ctx, http.MethodPost, "/market/buy/"+url.PathEscape(playerUUID), map[string]any{
		"item_key": itemKey,
		"quantity": quantity,
	}, &out)
	return out, err
}

func (c *Client) Items(ctx context.Context) ([]economy.MarketItem, error) {
	var out []economy.MarketItem
	err := c.jsonRequest(ctx, http.MethodGet, "/market/items", nil, &out)
	return out, err
}

func (c *Client) Item(ctx context.Context, itemKey string) (economy.MarketItem, error) {
	var out economy.MarketItem
	err := c.jsonRequest(ctx, http.MethodGet, "/market/item/"+url.PathEscape(itemKey), nil, &out)
	return out, err
}

func (c *Client) Prices(ctx context.Context) ([]economy.MarketItemLight, error) {
	var out []economy.MarketItemLight
	err := c.jsonRequest(ctx, http.MethodGet, "/market/items/light", nil, &out)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
