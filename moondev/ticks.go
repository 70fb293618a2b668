package moondev

import (
	"context"
	"fmt"
)

// TickStats returns tick collection stats and summary.
func (c *Client) TickStats(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/ticks/stats.json", nil, true)
}

// TickLatest returns current prices for all tracked symbols.
func (c *Client) TickLatest(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/ticks/latest.json", nil, true)
}

// Ticks returns historical tick data for a symbol (btc, eth, hype, sol, xrp)
// over a timeframe (10m, 1h, 4h, 24h, 7d).
func (c *Client) Ticks(ctx context.Context, symbol, timeframe string) (Document, error) {
	return c.get(ctx, fmt.Sprintf("/api/ticks/%s_%s.json", symbol, timeframe), nil, true)
}
