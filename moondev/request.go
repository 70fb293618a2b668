package moondev

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"moonflow/logger"
)

// Document is a raw JSON payload exactly as the service returned it. The
// client guarantees it is well-formed JSON and nothing more.
type Document = json.RawMessage

// Raw fetches any documented JSON endpoint by its absolute path. Intended
// for tooling that works from a configured endpoint list rather than the
// typed methods.
func (c *Client) Raw(ctx context.Context, path string) (Document, error) {
	return c.get(ctx, path, nil, true)
}

// get performs an authenticated GET and returns the verified JSON body.
func (c *Client) get(ctx context.Context, path string, query url.Values, auth bool) (Document, error) {
	body, err := c.do(ctx, http.MethodGet, path, query, nil, auth)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, &ResponseFormatError{Err: fmt.Errorf("%s returned a non-JSON body (%d bytes)", path, len(body))}
	}

	return Document(body), nil
}

// getText performs an authenticated GET against a plain-text endpoint and
// returns the non-empty trimmed lines of the body.
func (c *Client) getText(ctx context.Context, path string) ([]string, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil, nil, true)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(string(body), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// postJSON sends a JSON payload and returns the verified JSON body. Used
// only for the direct Hyperliquid info lookup.
func (c *Client) postJSON(ctx context.Context, rawURL string, payload any) (Document, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.send(req, rawURL)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, &ResponseFormatError{Err: fmt.Errorf("%s returned a non-JSON body (%d bytes)", rawURL, len(body))}
	}

	return Document(body), nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, auth bool) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Err: err}
		}
	}

	if query == nil {
		query = url.Values{}
	}
	if auth && c.keyInQuery {
		query.Set("api_key", c.apiKey)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if auth && !c.keyInQuery {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	return c.send(req, path)
}

// send executes the request and maps the response onto the error taxonomy:
// 401 authentication, 429 rate limit, anything else non-2xx transport. No
// retries, no local fallback.
func (c *Client) send(req *http.Request, path string) ([]byte, error) {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	log := c.log.WithComponent("api_client").WithFields(logger.Fields{
		"request_id": requestID,
		"path":       path,
	})
	log.Debug("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Warn("reading response failed")
		return nil, &TransportError{Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		log.Warn("authentication rejected")
		return nil, &AuthenticationError{Status: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		logger.IncrementRateLimited()
		log.Warn("rate limit exceeded")
		return nil, &RateLimitError{RetryAfter: retryAfter(resp)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		log.WithFields(logger.Fields{"status": resp.StatusCode}).Warn("unexpected status")
		return nil, &TransportError{Status: resp.StatusCode}
	}

	logger.IncrementRequest(path, len(body))
	log.WithFields(logger.Fields{"bytes": len(body)}).Debug("request complete")

	return body, nil
}

// retryAfter reads the Retry-After header in both documented forms:
// delta-seconds and an HTTP-date. Absent or unparseable values yield 0.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs > 0 {
			return time.Duration(secs) * time.Second
		}
		return 0
	}
	if at, err := http.ParseTime(v); err == nil {
		if wait := time.Until(at); wait > 0 {
			return wait
		}
	}
	return 0
}
