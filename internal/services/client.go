// Shared HTTP plumbing for the Google API clients: rate limiting, JSON
// decoding, and error body handling.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

const defaultRateLimit = 5.0

// apiClient wraps an authenticated [http.Client] with a shared request rate
// limiter. The http.Client is expected to inject credentials (an oauth2
// transport); apiClient never sees tokens.
type apiClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

func newAPIClient(client *http.Client, requestsPerSecond float64) apiClient {
	if client == nil {
		client = http.DefaultClient
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = defaultRateLimit
	}
	return apiClient{
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// googleError is the error envelope Google APIs return on non-2xx responses.
type googleError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// do performs a rate-limited request and returns the response. The caller
// owns the body.
func (c *apiClient) do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// doJSON performs a rate-limited request and decodes a JSON response into
// result. Non-2xx responses are turned into errors carrying the API's own
// message when one is present.
func (c *apiClient) doJSON(ctx context.Context, method, url string, body io.Reader, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// apiError builds an error from a non-2xx response, preferring the message in
// the Google error envelope over the raw body.
func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	var ge googleError
	if err := json.Unmarshal(data, &ge); err == nil && ge.Error.Message != "" {
		return fmt.Errorf("status %d: %s", resp.StatusCode, ge.Error.Message)
	}

	msg := string(data)
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg == "" {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
}
