package moondev

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithAPIKey("test-key"), WithBaseURL(srv.URL)}, opts...)
	c, err := New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestKeyAttachedAsHeader(t *testing.T) {
	var gotKey string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		w.Write([]byte(`{}`))
	})

	if _, err := c.Whales(context.Background()); err != nil {
		t.Fatalf("Whales failed: %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("X-API-Key = %q, want %q", gotKey, "test-key")
	}
}

func TestKeyInQueryFallback(t *testing.T) {
	var gotKey, gotHeader string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		gotHeader = r.Header.Get("X-API-Key")
		w.Write([]byte(`{}`))
	}, WithKeyInQuery())

	if _, err := c.Whales(context.Background()); err != nil {
		t.Fatalf("Whales failed: %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("api_key = %q, want %q", gotKey, "test-key")
	}
	if gotHeader != "" {
		t.Errorf("X-API-Key should be absent when key is in query, got %q", gotHeader)
	}
}

func TestHealthRequiresNoAuth(t *testing.T) {
	var gotKey string
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		gotPath = r.URL.Path
		w.Write([]byte(`{"status":"ok"}`))
	})

	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if gotPath != "/health" {
		t.Errorf("path = %q, want /health", gotPath)
	}
	if gotKey != "" {
		t.Errorf("health should carry no key, got %q", gotKey)
	}
}

func TestUnauthorizedMapsToAuthenticationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	_, err := c.Positions(context.Background())
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %T (%v), want *AuthenticationError", err, err)
	}
	if authErr.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", authErr.Status)
	}
}

func TestTooManyRequestsMapsToRateLimitError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	_, err := c.Trades(context.Background())
	var rlErr *RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("error = %T (%v), want *RateLimitError", err, err)
	}
	if rlErr.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %v, want 7s", rlErr.RetryAfter)
	}
}

func TestRetryAfterHTTPDate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", time.Now().Add(90*time.Second).UTC().Format(http.TimeFormat))
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	_, err := c.Trades(context.Background())
	var rlErr *RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("error = %T (%v), want *RateLimitError", err, err)
	}
	if rlErr.RetryAfter < 80*time.Second || rlErr.RetryAfter > 90*time.Second {
		t.Errorf("RetryAfter = %v, want roughly 90s", rlErr.RetryAfter)
	}
}

func TestRetryAfterPastDateYieldsZero(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat))
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	_, err := c.Trades(context.Background())
	var rlErr *RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("error = %T (%v), want *RateLimitError", err, err)
	}
	if rlErr.RetryAfter != 0 {
		t.Errorf("RetryAfter = %v, want 0 for a past date", rlErr.RetryAfter)
	}
}

func TestServerErrorMapsToTransportError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.Events(context.Background())
	var trErr *TransportError
	if !errors.As(err, &trErr) {
		t.Fatalf("error = %T (%v), want *TransportError", err, err)
	}
	if trErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", trErr.Status)
	}
}

func TestNetworkFailureMapsToTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // nothing listening anymore

	c, err := New(WithAPIKey("k"), WithBaseURL(url))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = c.Whales(context.Background())
	var trErr *TransportError
	if !errors.As(err, &trErr) {
		t.Fatalf("error = %T (%v), want *TransportError", err, err)
	}
	if trErr.Status != 0 {
		t.Errorf("status = %d, want 0 for a request that never completed", trErr.Status)
	}
}

func TestMalformedBodyMapsToResponseFormatError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	doc, err := c.Contracts(context.Background())
	var fmtErr *ResponseFormatError
	if !errors.As(err, &fmtErr) {
		t.Fatalf("error = %T (%v), want *ResponseFormatError", err, err)
	}
	if doc != nil {
		t.Error("no document should be returned for a malformed body")
	}
}

func TestRoundTripIdentity(t *testing.T) {
	payload := `{"symbols":{"BTC":{"longs":[1,2,3],"nested":{"a":null,"b":true}}},"count":42.5}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	})

	doc, err := c.AllPositions(context.Background())
	if err != nil {
		t.Fatalf("AllPositions failed: %v", err)
	}
	if string(doc) != payload {
		t.Errorf("body altered: got %s", doc)
	}

	var fromDoc, fromWire any
	if err := json.Unmarshal(doc, &fromDoc); err != nil {
		t.Fatalf("unmarshal document: %v", err)
	}
	if err := json.Unmarshal([]byte(payload), &fromWire); err != nil {
		t.Fatalf("unmarshal wire payload: %v", err)
	}
	if !reflect.DeepEqual(fromDoc, fromWire) {
		t.Error("parsed document differs from parsed wire payload")
	}
}

func TestRequestIDAttached(t *testing.T) {
	var gotID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	})

	if _, err := c.Whales(context.Background()); err != nil {
		t.Fatalf("Whales failed: %v", err)
	}
	if gotID == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestWhaleAddressesParsesTextLines(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("0xabc\n\n  0xdef  \n0x123\n"))
	})

	addrs, err := c.WhaleAddresses(context.Background())
	if err != nil {
		t.Fatalf("WhaleAddresses failed: %v", err)
	}
	want := []string{"0xabc", "0xdef", "0x123"}
	if !reflect.DeepEqual(addrs, want) {
		t.Errorf("addresses = %v, want %v", addrs, want)
	}
}

func TestContextCancellation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Whales(ctx)
	var trErr *TransportError
	if !errors.As(err, &trErr) {
		t.Fatalf("error = %T (%v), want *TransportError", err, err)
	}
}
