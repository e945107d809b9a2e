package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
)

const fetchMaxElapsed = 2 * time.Minute

// ContentFetcher performs HTTP exchanges with bounded exponential-backoff
// retries for network-class and server-side failures. Client errors are
// permanent and never retried. Requests are rebuilt per attempt so POST
// bodies can be replayed safely.
type ContentFetcher interface {
	outbound.MediaFetcherPort
	PostJSON(ctx context.Context, url string, headers map[string]string, body interface{}) ([]byte, error)
}

type contentFetcher struct {
	logger outbound.LoggerPort
	client *http.Client
}

func NewContentFetcher(logger outbound.LoggerPort, client *http.Client) ContentFetcher {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &contentFetcher{
		logger: logger,
		client: client,
	}
}

func (c *contentFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	var contentType string
	payload, err := c.exchange(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}, &contentType)
	if err != nil {
		return nil, "", err
	}
	return payload, contentType, nil
}

func (c *contentFetcher) PostJSON(ctx context.Context, url string, headers map[string]string, body interface{}) ([]byte, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}
	return c.exchange(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		for key, value := range headers {
			req.Header.Set(key, value)
		}
		return req, nil
	}, nil)
}

func (c *contentFetcher) exchange(ctx context.Context, build func() (*http.Request, error), contentType *string) ([]byte, error) {
	policy := backoff.WithContext(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(fetchMaxElapsed)), ctx)

	var payload []byte
	operation := func() error {
		req, err := build()
		if err != nil {
			return backoff.Permanent(err)
		}

		res, err := c.client.Do(req)
		if err != nil {
			c.logger.WarnWithFields("HTTP request failed, may retry", map[string]interface{}{
				"method": req.Method,
				"URL":    req.URL.String(),
				"error":  err.Error(),
			})
			return err
		}
		defer res.Body.Close()

		body, readErr := io.ReadAll(res.Body)
		if readErr != nil {
			return readErr
		}
		if res.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("HTTP %d from %s", res.StatusCode, req.URL.Host)
		}
		if res.StatusCode != http.StatusOK {
			c.logger.ErrorWithFields(fmt.Errorf("status %d", res.StatusCode),
				"HTTP request returned non-OK status code", map[string]interface{}{
					"method":  req.Method,
					"URL":     req.URL.String(),
					"status":  res.StatusCode,
					"message": string(body),
				})
			return backoff.Permanent(fmt.Errorf("HTTP request returned status %d", res.StatusCode))
		}

		payload = body
		if contentType != nil {
			*contentType = res.Header.Get("Content-Type")
		}
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return payload, nil
}
