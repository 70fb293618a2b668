package moondev

import "context"

// Whales returns recent whale trades ($25k+).
func (c *Client) Whales(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/whales.json", nil, true)
}

// WhaleAddresses returns the known whale address list. This is the one
// plain-text endpoint; the result is the non-empty lines of the body.
func (c *Client) WhaleAddresses(ctx context.Context) ([]string, error) {
	return c.getText(ctx, "/api/whale_addresses.txt")
}

// Buyers returns recent $5k+ buyers (buy side only).
func (c *Client) Buyers(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/buyers.json", nil, true)
}

// Depositors returns the canonical list of every address that bridged USDC.
func (c *Client) Depositors(ctx context.Context) (Document, error) {
	return c.get(ctx, "/api/depositors.json", nil, true)
}
