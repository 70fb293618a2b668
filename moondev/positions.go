package moondev

import "context"

// Positions returns the top 50 large positions near liquidation across all
// symbols. Updates every second.
func (c *Client) Positions(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/positions.json", nil, true)
}

// AllPositions returns top 50 longs/shorts for every tracked symbol. Large
// response, updates every 60 seconds.
func (c *Client) AllPositions(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/positions/all.json", nil, true)
}
