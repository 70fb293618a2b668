package moondev

import (
	"context"
	"net/url"
	"strconv"
)

// HLPPositions returns positions for all HLP strategies plus combined net
// exposure. includeStrategies false requests the summary only, which is a
// smaller and faster response.
func (c *Client) HLPPositions(ctx context.Context, includeStrategies bool) (Document, error) {
	query := url.Values{}
	if !includeStrategies {
		query.Set("include_strategies", "false")
	}
	return c.get(ctx, "/api/hlp/positions", query, true)
}

// HLPTrades returns historical HLP trade fills across all strategies. limit
// 0 keeps the server default of 100.
func (c *Client) HLPTrades(ctx context.Context, limit int) (Document, error) {
	query := url.Values{}
	if limit != 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return c.get(ctx, "/api/hlp/trades", query, true)
}

// HLPTradeStats returns HLP trade volume and fee statistics.
func (c *Client) HLPTradeStats(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/hlp/trades/stats", nil, true)
}

// HLPPositionHistory returns position snapshots over time. hours 0 keeps the
// server default of 24.
func (c *Client) HLPPositionHistory(ctx context.Context, hours int) (Document, error) {
	query := url.Values{}
	if hours != 0 {
		query.Set("hours", strconv.Itoa(hours))
	}
	return c.get(ctx, "/api/hlp/positions/history", query, true)
}

// HLPLiquidators returns liquidator activation events and current status.
func (c *Client) HLPLiquidators(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/hlp/liquidators", nil, true)
}

// HLPDeltas returns net exposure changes over time. hours 0 keeps the server
// default of 24.
func (c *Client) HLPDeltas(ctx context.Context, hours int) (Document, error) {
	query := url.Values{}
	if hours != 0 {
		query.Set("hours", strconv.Itoa(hours))
	}
	return c.get(ctx, "/api/hlp/deltas", query, true)
}

// HLPSentiment returns the positioning indicator: net delta with z-scores
// and a human readable signal. All scoring happens server-side.
func (c *Client) HLPSentiment(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/hlp/sentiment", nil, true)
}

// HLPLiquidatorStatus returns real-time liquidator status (active/idle) and
// PnL per account.
func (c *Client) HLPLiquidatorStatus(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/hlp/liquidators/status", nil, true)
}

// HLPMarketMaker returns the Strategy B market maker tracker for BTC, ETH
// and SOL.
func (c *Client) HLPMarketMaker(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/hlp/market-maker", nil, true)
}

// HLPTiming returns hourly and session profitability analysis.
func (c *Client) HLPTiming(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/hlp/timing", nil, true)
}

// HLPCorrelation returns delta-price correlation by coin.
func (c *Client) HLPCorrelation(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/hlp/correlation", nil, true)
}
