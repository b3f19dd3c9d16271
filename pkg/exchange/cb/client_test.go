package cb

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"cbtrader/config"
)

func newTestClient(t *testing.T, baseUrl string) *Client {
	t.Helper()
	t.Setenv("CBTEST_API_KEY", "test-key")
	t.Setenv("CBTEST_API_SECRET", "test-secret")
	client, err := New(&config.ExchangeConfig{EnvPrefix: "CBTEST", BaseUrl: baseUrl})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return client
}

func TestNew(t *testing.T) {
	t.Run("requires credentials", func(t *testing.T) {
		t.Setenv("EMPTY_API_KEY", "")
		t.Setenv("EMPTY_API_SECRET", "")
		if _, err := New(&config.ExchangeConfig{EnvPrefix: "EMPTY"}); err == nil {
			t.Fatalf("expected error for missing credentials")
		}
	})
}

func TestCreateOrder(t *testing.T) {
	t.Run("limit buy sends a signed limit_limit_gtc payload", func(t *testing.T) {
		var captured createOrderRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != createOrderPath {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, &captured); err != nil {
				t.Errorf("bad request body: %v", err)
			}

			// the signature must cover timestamp + method + path + body
			timestamp := r.Header.Get("CB-ACCESS-TIMESTAMP")
			mac := hmac.New(sha256.New, []byte("test-secret"))
			mac.Write([]byte(timestamp + r.Method + createOrderPath + string(body)))
			want := hex.EncodeToString(mac.Sum(nil))
			if got := r.Header.Get("CB-ACCESS-SIGN"); got != want {
				t.Errorf("signature mismatch: got %s want %s", got, want)
			}
			if r.Header.Get("CB-ACCESS-KEY") != "test-key" {
				t.Errorf("missing CB-ACCESS-KEY header")
			}

			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"success":true,"success_response":{"order_id":"abc-123"}}`)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		resp, err := client.LimitOrderGtcBuy(context.Background(), "cloid-1", "BTC-USDC",
			decimal.RequireFromString("0.00201"), decimal.RequireFromString("49750.00"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !resp.Success || resp.SuccessResponse.OrderId != "abc-123" {
			t.Fatalf("unexpected response %+v", resp)
		}

		if captured.ClientOrderId != "cloid-1" || captured.ProductId != "BTC-USDC" {
			t.Fatalf("unexpected request %+v", captured)
		}
		if captured.Side != "BUY" {
			t.Fatalf("expected side BUY, got %s", captured.Side)
		}
		gtc := captured.OrderConfiguration.LimitLimitGtc
		if gtc == nil || gtc.BaseSize != "0.00201" || gtc.LimitPrice != "49750" {
			t.Fatalf("unexpected order configuration %+v", captured.OrderConfiguration)
		}
	})

	t.Run("market buy sends quote_size only", func(t *testing.T) {
		var captured createOrderRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, &captured); err != nil {
				t.Errorf("bad request body: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"success":true,"success_response":{"order_id":"abc-124"}}`)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		if _, err := client.MarketOrderBuy(context.Background(), "cloid-2", "BTC-USDC", decimal.RequireFromString("100")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		ioc := captured.OrderConfiguration.MarketMarketIoc
		if ioc == nil || ioc.QuoteSize != "100" || ioc.BaseSize != "" {
			t.Fatalf("unexpected order configuration %+v", captured.OrderConfiguration)
		}
		if captured.OrderConfiguration.LimitLimitGtc != nil {
			t.Fatalf("market order must not carry a limit configuration")
		}
	})

	t.Run("http error surfaces the response body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"error":"NOT_FOUND","message":"Invalid product_id"}`)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.MarketOrderSell(context.Background(), "cloid-3", "NOPE-USD", decimal.RequireFromString("1"))
		if err == nil || !strings.Contains(err.Error(), "Invalid product_id") {
			t.Fatalf("expected error containing the exchange message, got %v", err)
		}
	})
}

func TestGetProduct(t *testing.T) {
	t.Run("parses price and increments as decimals", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/v3/brokerage/products/BTC-USDC" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"product_id":"BTC-USDC","price":"50000","base_increment":"0.00001","quote_increment":"0.01"}`)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		snapshot, err := client.GetProduct(context.Background(), "BTC-USDC")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !snapshot.Price.Equal(decimal.RequireFromString("50000")) {
			t.Fatalf("unexpected price %s", snapshot.Price)
		}
		if !snapshot.BaseIncrement.Equal(decimal.RequireFromString("0.00001")) {
			t.Fatalf("unexpected base increment %s", snapshot.BaseIncrement)
		}
		if !snapshot.QuoteIncrement.Equal(decimal.RequireFromString("0.01")) {
			t.Fatalf("unexpected quote increment %s", snapshot.QuoteIncrement)
		}
	})

	t.Run("rejects malformed increments", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"product_id":"BTC-USDC","price":"50000","base_increment":"not-a-number","quote_increment":"0.01"}`)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		if _, err := client.GetProduct(context.Background(), "BTC-USDC"); err == nil {
			t.Fatalf("expected error for malformed increment")
		}
	})
}
