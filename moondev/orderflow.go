package moondev

import (
	"context"
	"fmt"
)

// Trades returns the most recent 500 trades.
func (c *Client) Trades(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/trades.json", nil, true)
}

// LargeTrades returns trades above $100k from the last 24 hours.
func (c *Client) LargeTrades(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/large_trades.json", nil, true)
}

// OrderFlow returns order flow imbalance by timeframe and per coin.
func (c *Client) OrderFlow(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/orderflow.json", nil, true)
}

// OrderFlowStats returns order flow service stats (uptime, trades/sec).
func (c *Client) OrderFlowStats(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/orderflow/stats.json", nil, true)
}

// Imbalance returns buy/sell imbalance for a timeframe (5m, 15m, 1h, 4h,
// 24h).
func (c *Client) Imbalance(ctx context.Context, timeframe string) (Document, error) {
	return c.get(ctx, fmt.Sprintf("/api/imbalance/%s.json", timeframe), nil, true)
}
