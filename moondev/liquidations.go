package moondev

import (
	"context"
	"fmt"
)

// Timeframes documents the windows the liquidation endpoints accept. The
// service owns validation; the client forwards whatever it is given.
var Timeframes = []string{"10m", "1h", "4h", "12h", "24h", "2d", "7d", "14d", "30d"}

// Liquidations returns Hyperliquid liquidation data for the timeframe.
func (c *Client) Liquidations(ctx context.Context, timeframe string) (Document, error) {
	return c.get(ctx, fmt.Sprintf("/api/liquidations/%s.json", timeframe), nil, true)
}

// LiquidationStats returns aggregated liquidation stats across all windows.
func (c *Client) LiquidationStats(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/liquidations/stats.json", nil, true)
}

// AllLiquidations returns combined liquidations from every tracked exchange
// (Hyperliquid, Binance, Bybit, OKX) for the timeframe.
func (c *Client) AllLiquidations(ctx context.Context, timeframe string) (Document, error) {
	return c.get(ctx, fmt.Sprintf("/api/all_liquidations/%s.json", timeframe), nil, true)
}

// AllLiquidationStats returns combined stats across all exchanges.
func (c *Client) AllLiquidationStats(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/all_liquidations/stats.json", nil, true)
}

// BinanceLiquidations returns Binance Futures liquidations for the timeframe.
func (c *Client) BinanceLiquidations(ctx context.Context, timeframe string) (Document, error) {
	return c.get(ctx, fmt.Sprintf("/api/binance_liquidations/%s.json", timeframe), nil, true)
}

// BybitLiquidations returns Bybit liquidations for the timeframe.
func (c *Client) BybitLiquidations(ctx context.Context, timeframe string) (Document, error) {
	return c.get(ctx, fmt.Sprintf("/api/bybit_liquidations/%s.json", timeframe), nil, true)
}

// OKXLiquidations returns OKX liquidations for the timeframe.
func (c *Client) OKXLiquidations(ctx context.Context, timeframe string) (Document, error) {
	return c.get(ctx, fmt.Sprintf("/api/okx_liquidations/%s.json", timeframe), nil, true)
}
