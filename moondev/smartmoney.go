package moondev

import (
	"context"
	"fmt"
)

// SmartMoneyRankings returns the top 100 smart and bottom 100 dumb money
// wallets by historical profitability.
func (c *Client) SmartMoneyRankings(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/smart_money/rankings.json", nil, true)
}

// SmartMoneyLeaderboard returns the top 50 performers with details.
func (c *Client) SmartMoneyLeaderboard(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/smart_money/leaderboard.json", nil, true)
}

// SmartMoneySignals returns trading signals for a timeframe (10m, 1h, 24h).
func (c *Client) SmartMoneySignals(ctx context.Context, timeframe string) (Document, error) {
	return c.get(ctx, fmt.Sprintf("/api/smart_money/signals_%s.json", timeframe), nil, true)
}
