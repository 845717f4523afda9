package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coinvault/internal/config"
	"coinvault/internal/economy"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// Requests that decline before touching storage never use the pool.
	econ := economy.NewService(nil, economy.NewPricingEngine(nil, logger), logger)
	return New(config.APIConfig{}, logger, econ)
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	s := testServer(t)
	rr := doJSON(t, s, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestTransferInvalidDirectionDeclined(t *testing.T) {
	s := testServer(t)
	rr := doJSON(t, s, http.MethodPost, "/user/abc/transfer", `{"from":"wallet","to":"wallet","amount":100}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (declines are business outcomes)", rr.Code)
	}
	var out economy.TransferResult
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Success {
		t.Fatal("expected success=false")
	}
	if !strings.Contains(out.Message, "invalid transfer direction") {
		t.Fatalf("unexpected message %q", out.Message)
	}
	if out.AmountTransferred != 100 {
		t.Fatalf("amount_transferred = %d, want 100", out.AmountTransferred)
	}
}

func TestTransferNonPositiveAmountDeclined(t *testing.T) {
	s := testServer(t)
	rr := doJSON(t, s, http.MethodPost, "/user/abc/transfer", `{"from":"wallet","to":"bank","amount":0}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var out economy.TransferResult
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Success {
		t.Fatal("expected success=false")
	}
}

func TestSellZeroQuantityDeclined(t *testing.T) {
	s := testServer(t)
	rr := doJSON(t, s, http.MethodPost, "/market/sell/abc", `{"item_key":"iron_ingot","quantity":0}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var out economy.SellResult
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Success {
		t.Fatal("expected success=false")
	}
	if !strings.Contains(out.Message, "quantity") {
		t.Fatalf("unexpected message %q", out.Message)
	}
}

func TestBuyZeroQuantityDeclined(t *testing.T) {
	s := testServer(t)
	rr := doJSON(t, s, http.MethodPost, "/market/buy/abc", `{"item_key":"iron_ingot","quantity":-3}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var out economy.BuyResult
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Success {
		t.Fatal("expected success=false")
	}
}

func TestCreateUserRequiresName(t *testing.T) {
	s := testServer(t)
	rr := doJSON(t, s, http.MethodPost, "/user", `{"player_uuid":"abc"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestBadJSONRejected(t *testing.T) {
	s := testServer(t)
	rr := doJSON(t, s, http.MethodPost, "/user/abc/transfer", `{"from":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}
