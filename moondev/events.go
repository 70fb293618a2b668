package moondev

import "context"

// Events returns real-time blockchain events (transfers, swaps, deposits).
func (c *Client) Events(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/events.json", nil, true)
}

// Contracts returns the contract registry with metadata and activity
// tracking.
func (c *Client) Contracts(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/contracts.json", nil, true)
}
