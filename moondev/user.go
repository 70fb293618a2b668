package moondev

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// AllFills requests the complete fill history for a wallet instead of a
// page. Forwarded to the service verbatim.
const AllFills = -1

// UserPositions returns open positions for a Hyperliquid wallet from the
// service's local node data.
func (c *Client) UserPositions(ctx context.Context, address string) (Document, error) {
	return c.get(ctx, fmt.Sprintf("/api/user/%s/positions", address), nil, true)
}

// UserFills returns historical fills for a Hyperliquid wallet. limit 0 keeps
// the server default of 100; AllFills (-1) requests every fill on record;
// anything else is forwarded as given (the service accepts 100-2000).
func (c *Client) UserFills(ctx context.Context, address string, limit int) (Document, error) {
	query := url.Values{}
	if limit != 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return c.get(ctx, fmt.Sprintf("/api/user/%s/fills", address), query, true)
}

// HyperliquidPositions queries the Hyperliquid info endpoint directly for a
// wallet's clearinghouse state, bypassing the data API.
func (c *Client) HyperliquidPositions(ctx context.Context, address string) (Document, error) {
	payload := map[string]string{
		"type": "clearinghouseState",
		"user": address,
	}
	return c.postJSON(ctx, c.hyperliquidURL, payload)
}
