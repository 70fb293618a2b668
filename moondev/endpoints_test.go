package moondev

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

// recordingClient captures the path and query of each request.
func recordingClient(t *testing.T) (*Client, *http.Request) {
	t.Helper()
	captured := &http.Request{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		*captured = *r
		w.Write([]byte(`{}`))
	})
	return c, captured
}

func TestLiquidationsPath(t *testing.T) {
	c, req := recordingClient(t)

	if _, err := c.Liquidations(context.Background(), "1h"); err != nil {
		t.Fatalf("Liquidations failed: %v", err)
	}
	if req.URL.Path != "/api/liquidations/1h.json" {
		t.Errorf("path = %q, want /api/liquidations/1h.json", req.URL.Path)
	}
}

func TestEndpointPaths(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		call func(c *Client) error
		path string
	}{
		{"liquidation stats", func(c *Client) error { _, err := c.LiquidationStats(ctx); return err }, "/api/liquidations/stats.json"},
		{"all liquidations", func(c *Client) error { _, err := c.AllLiquidations(ctx, "4h"); return err }, "/api/all_liquidations/4h.json"},
		{"all liquidation stats", func(c *Client) error { _, err := c.AllLiquidationStats(ctx); return err }, "/api/all_liquidations/stats.json"},
		{"binance liquidations", func(c *Client) error { _, err := c.BinanceLiquidations(ctx, "24h"); return err }, "/api/binance_liquidations/24h.json"},
		{"bybit liquidations", func(c *Client) error { _, err := c.BybitLiquidations(ctx, "10m"); return err }, "/api/bybit_liquidations/10m.json"},
		{"okx liquidations", func(c *Client) error { _, err := c.OKXLiquidations(ctx, "7d"); return err }, "/api/okx_liquidations/7d.json"},
		{"positions", func(c *Client) error { _, err := c.Positions(ctx); return err }, "/api/positions.json"},
		{"all positions", func(c *Client) error { _, err := c.AllPositions(ctx); return err }, "/api/positions/all.json"},
		{"whales", func(c *Client) error { _, err := c.Whales(ctx); return err }, "/api/whales.json"},
		{"buyers", func(c *Client) error { _, err := c.Buyers(ctx); return err }, "/api/buyers.json"},
		{"depositors", func(c *Client) error { _, err := c.Depositors(ctx); return err }, "/api/depositors.json"},
		{"events", func(c *Client) error { _, err := c.Events(ctx); return err }, "/api/events.json"},
		{"contracts", func(c *Client) error { _, err := c.Contracts(ctx); return err }, "/api/contracts.json"},
		{"tick stats", func(c *Client) error { _, err := c.TickStats(ctx); return err }, "/api/ticks/stats.json"},
		{"tick latest", func(c *Client) error { _, err := c.TickLatest(ctx); return err }, "/api/ticks/latest.json"},
		{"ticks", func(c *Client) error { _, err := c.Ticks(ctx, "btc", "4h"); return err }, "/api/ticks/btc_4h.json"},
		{"trades", func(c *Client) error { _, err := c.Trades(ctx); return err }, "/api/trades.json"},
		{"large trades", func(c *Client) error { _, err := c.LargeTrades(ctx); return err }, "/api/large_trades.json"},
		{"orderflow", func(c *Client) error { _, err := c.OrderFlow(ctx); return err }, "/api/orderflow.json"},
		{"orderflow stats", func(c *Client) error { _, err := c.OrderFlowStats(ctx); return err }, "/api/orderflow/stats.json"},
		{"imbalance", func(c *Client) error { _, err := c.Imbalance(ctx, "15m"); return err }, "/api/imbalance/15m.json"},
		{"smart money rankings", func(c *Client) error { _, err := c.SmartMoneyRankings(ctx); return err }, "/api/smart_money/rankings.json"},
		{"smart money leaderboard", func(c *Client) error { _, err := c.SmartMoneyLeaderboard(ctx); return err }, "/api/smart_money/leaderboard.json"},
		{"smart money signals", func(c *Client) error { _, err := c.SmartMoneySignals(ctx, "10m"); return err }, "/api/smart_money/signals_10m.json"},
		{"user positions", func(c *Client) error { _, err := c.UserPositions(ctx, "0xabc"); return err }, "/api/user/0xabc/positions"},
		{"hlp trade stats", func(c *Client) error { _, err := c.HLPTradeStats(ctx); return err }, "/api/hlp/trades/stats"},
		{"hlp liquidators", func(c *Client) error { _, err := c.HLPLiquidators(ctx); return err }, "/api/hlp/liquidators"},
		{"hlp sentiment", func(c *Client) error { _, err := c.HLPSentiment(ctx); return err }, "/api/hlp/sentiment"},
		{"hlp liquidator status", func(c *Client) error { _, err := c.HLPLiquidatorStatus(ctx); return err }, "/api/hlp/liquidators/status"},
		{"hlp market maker", func(c *Client) error { _, err := c.HLPMarketMaker(ctx); return err }, "/api/hlp/market-maker"},
		{"hlp timing", func(c *Client) error { _, err := c.HLPTiming(ctx); return err }, "/api/hlp/timing"},
		{"hlp correlation", func(c *Client) error { _, err := c.HLPCorrelation(ctx); return err }, "/api/hlp/correlation"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, req := recordingClient(t)
			if err := tc.call(c); err != nil {
				t.Fatalf("call failed: %v", err)
			}
			if req.URL.Path != tc.path {
				t.Errorf("path = %q, want %q", req.URL.Path, tc.path)
			}
		})
	}
}

func TestUserFillsLimitSemantics(t *testing.T) {
	ctx := context.Background()

	t.Run("all fills", func(t *testing.T) {
		c, req := recordingClient(t)
		if _, err := c.UserFills(ctx, "0xabc", AllFills); err != nil {
			t.Fatalf("UserFills failed: %v", err)
		}
		if req.URL.Path != "/api/user/0xabc/fills" {
			t.Errorf("path = %q", req.URL.Path)
		}
		if got := req.URL.Query().Get("limit"); got != "-1" {
			t.Errorf("limit = %q, want -1 (all fills, no page limit)", got)
		}
	})

	t.Run("server default", func(t *testing.T) {
		c, req := recordingClient(t)
		if _, err := c.UserFills(ctx, "0xabc", 0); err != nil {
			t.Fatalf("UserFills failed: %v", err)
		}
		if req.URL.Query().Has("limit") {
			t.Error("limit parameter should be absent for the server default")
		}
	})

	t.Run("explicit page size", func(t *testing.T) {
		c, req := recordingClient(t)
		if _, err := c.UserFills(ctx, "0xabc", 500); err != nil {
			t.Fatalf("UserFills failed: %v", err)
		}
		if got := req.URL.Query().Get("limit"); got != "500" {
			t.Errorf("limit = %q, want 500", got)
		}
	})
}

func TestHLPQueryParameters(t *testing.T) {
	ctx := context.Background()

	t.Run("positions summary only", func(t *testing.T) {
		c, req := recordingClient(t)
		if _, err := c.HLPPositions(ctx, false); err != nil {
			t.Fatalf("HLPPositions failed: %v", err)
		}
		if got := req.URL.Query().Get("include_strategies"); got != "false" {
			t.Errorf("include_strategies = %q, want false", got)
		}
	})

	t.Run("positions with strategies", func(t *testing.T) {
		c, req := recordingClient(t)
		if _, err := c.HLPPositions(ctx, true); err != nil {
			t.Fatalf("HLPPositions failed: %v", err)
		}
		if req.URL.Query().Has("include_strategies") {
			t.Error("include_strategies should be absent when strategies are included")
		}
	})

	t.Run("deltas hours", func(t *testing.T) {
		c, req := recordingClient(t)
		if _, err := c.HLPDeltas(ctx, 48); err != nil {
			t.Fatalf("HLPDeltas failed: %v", err)
		}
		if got := req.URL.Query().Get("hours"); got != "48" {
			t.Errorf("hours = %q, want 48", got)
		}
	})

	t.Run("history default hours", func(t *testing.T) {
		c, req := recordingClient(t)
		if _, err := c.HLPPositionHistory(ctx, 0); err != nil {
			t.Fatalf("HLPPositionHistory failed: %v", err)
		}
		if req.URL.Query().Has("hours") {
			t.Error("hours parameter should be absent for the server default")
		}
	})

	t.Run("trades limit", func(t *testing.T) {
		c, req := recordingClient(t)
		if _, err := c.HLPTrades(ctx, 250); err != nil {
			t.Fatalf("HLPTrades failed: %v", err)
		}
		if got := req.URL.Query().Get("limit"); got != "250" {
			t.Errorf("limit = %q, want 250", got)
		}
	})
}

func TestHyperliquidPositionsPostsClearinghouseState(t *testing.T) {
	var gotBody []byte
	var gotMethod, gotContentType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"assetPositions":[]}`))
	})
	// Route the direct lookup at the same test server.
	srvURL := c.baseURL
	c2, err := New(WithAPIKey("k"), WithBaseURL(srvURL), WithHyperliquidURL(srvURL+"/info"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := c2.HyperliquidPositions(context.Background(), "0xabc"); err != nil {
		t.Fatalf("HyperliquidPositions failed: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}

	var payload map[string]string
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload["type"] != "clearinghouseState" || payload["user"] != "0xabc" {
		t.Errorf("payload = %v", payload)
	}
}
