package moondev

import (
	"fmt"
	"time"
)

// ConfigurationError reports a missing or invalid client configuration
// value, most commonly an absent API key.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("moondev: configuration error: %s", e.Reason)
}

// AuthenticationError reports a request rejected with HTTP 401. The key is
// missing, expired or wrong; the client never retries.
type AuthenticationError struct {
	Status int
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("moondev: authentication failed (status %d)", e.Status)
}

// RateLimitError reports a request rejected with HTTP 429. The service caps
// traffic at 3600 requests/minute; the client surfaces the rejection and
// leaves backoff to the caller.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("moondev: rate limit exceeded, retry after %s", e.RetryAfter)
	}
	return "moondev: rate limit exceeded"
}

// TransportError reports a network failure, timeout or unexpected HTTP
// status (5xx and any other non-2xx outside the dedicated cases). Status is
// zero when the request never produced a response.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("moondev: transport error: %v", e.Err)
	}
	return fmt.Sprintf("moondev: unexpected status %d", e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ResponseFormatError reports a 2xx response whose body is not valid JSON.
// The client returns no partial data in this case.
type ResponseFormatError struct {
	Err error
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("moondev: malformed response body: %v", e.Err)
}

func (e *ResponseFormatError) Unwrap() error { return e.Err }
