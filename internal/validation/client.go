// Package validation checks that the entities referenced by a rating
// submission exist and are eligible, by calling the owning remote authority.
// Results are cached for a short TTL so hot entities do not hammer the
// authorities, and every uncertain outcome fails closed: the entity is
// reported ineligible rather than the fault propagated.
package validation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config carries the knobs shared by both validators.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retries int
	Backoff time.Duration
}

// authorityClient performs the actual HTTP lookup against a remote authority,
// retrying transient failures with exponential backoff.
type authorityClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	retries    uint64
	backoff    time.Duration
}

func newAuthorityClient(cfg Config) (*authorityClient, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("authority base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse authority url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	initial := cfg.Backoff
	if initial <= 0 {
		initial = time.Second
	}
	return &authorityClient{
		baseURL:    parsed,
		httpClient: &http.Client{},
		timeout:    timeout,
		retries:    uint64(cfg.Retries),
		backoff:    initial,
	}, nil
}

// check performs GET path against the authority, forwarding the caller's
// credential when present. A 2xx body is handed to decode; any 4xx means the
// entity is not eligible (a fact, not a fault). Connectivity errors and 5xx
// are retried; the error survives when retries are exhausted.
func (c *authorityClient) check(ctx context.Context, path, credential string, decode func(io.Reader) (bool, error)) (bool, error) {
	endpoint := c.baseURL.ResolveReference(&url.URL{Path: path})

	var eligible bool
	op := func() error {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint.String(), nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if credential != "" {
			req.Header.Set("Authorization", "Bearer "+credential)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("call authority: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			// The authority answered: the entity does not exist or may not
			// be used. Not a transport fault, so no retry.
			eligible = false
			return nil
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			ok, err := decode(resp.Body)
			if err != nil {
				return fmt.Errorf("decode authority response: %w", err)
			}
			eligible = ok
			return nil
		default:
			return fmt.Errorf("authority returned status %d", resp.StatusCode)
		}
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.backoff
	bo.RandomizationFactor = 0
	bo.Multiplier = 2
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0

	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, c.retries), ctx)); err != nil {
		return false, err
	}
	return eligible, nil
}
