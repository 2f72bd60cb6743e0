// Package fetch performs the network retrieval of source images.
//
// A Client makes exactly one GET attempt per call: retry policy, if any,
// belongs to the caller. Proxy selection is uniform-random per request
// when several proxies are configured, driven by an injectable random
// source so tests can pin the choice.
package fetch

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"imgfetch/pkg/errors"
	"imgfetch/pkg/logger"
)

// Options configures a Client.
type Options struct {
	// Timeout for the whole request, connection included.
	Timeout time.Duration

	// Proxies to route requests through. Empty means direct; a single
	// entry is always used; several are picked from uniformly at random
	// per request.
	Proxies []string

	// Headers attached to every request.
	Headers map[string]string

	// Rand drives proxy selection. Nil means a time-seeded source.
	Rand *rand.Rand
}

// Client downloads raw image bytes over HTTP.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	proxies    []*url.URL
	mu         sync.Mutex
	rng        *rand.Rand
	logger     logger.Logger
}

// NewClient creates a Client. Proxy URLs must carry a scheme and host.
func NewClient(opts Options, log logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	c := &Client{
		headers: opts.Headers,
		rng:     opts.Rand,
		logger:  log,
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for _, raw := range opts.Proxies {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, errors.New(errors.ErrorTypeConfig, "", fmt.Sprintf("invalid proxy URL: %q", raw))
		}
		c.proxies = append(c.proxies, u)
	}

	transport := &http.Transport{}
	if len(c.proxies) > 0 {
		transport.Proxy = c.pickProxy
	}
	c.httpClient = &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}

	return c, nil
}

// pickProxy selects the proxy for one outgoing request.
func (c *Client) pickProxy(*http.Request) (*url.URL, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch len(c.proxies) {
	case 0:
		return nil, nil
	case 1:
		return c.proxies[0], nil
	default:
		return c.proxies[c.rng.Intn(len(c.proxies))], nil
	}
}

// Fetch downloads the body at rawURL. One attempt only; connection
// failures, timeouts, non-2xx statuses and empty bodies are all reported
// as transport errors.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeTransport, rawURL, "failed to create request", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"url": rawURL,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      rawURL,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.Wrap(errors.ErrorTypeTransport, rawURL, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WarnWithFields("unexpected HTTP status", map[string]interface{}{
			"url":    rawURL,
			"status": resp.StatusCode,
		})
		return nil, &errors.Error{
			Type:    errors.ErrorTypeTransport,
			URL:     rawURL,
			Message: fmt.Sprintf("unexpected status: %s", resp.Status),
			Code:    resp.StatusCode,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeTransport, rawURL, "failed to read response body", err)
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrorTypeTransport, rawURL, "empty response body")
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      rawURL,
		"status":   resp.StatusCode,
		"size":     len(data),
		"duration": duration,
	})

	return data, nil
}
