package clients

import (
	"GlobalpingCLI/internal/cli/domain"
	"GlobalpingCLI/internal/shared/constants"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/rs/zerolog"
)

// ResponseCache stores GET bodies by measurement id for ETag revalidation.
type ResponseCache interface {
	Get(ctx context.Context, id string) (etag string, body []byte, ok bool)
	Put(ctx context.Context, id, etag string, body []byte) error
}

type Config struct {
	// BaseURL is the API root, e.g. https://api.globalping.io/v1.
	BaseURL    string
	Token      string
	UserAgent  string
	HTTPClient *http.Client
	// Cache is optional; without it every fetch downloads the full body.
	Cache  ResponseCache
	Logger zerolog.Logger
}

type APIClient struct {
	baseURL   string
	token     string
	userAgent string
	http      *http.Client
	cache     ResponseCache
	logger    zerolog.Logger
}

func NewAPIClient(cfg Config) *APIClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.HTTPTimeout}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = constants.DefaultAPIURL
	}

	return &APIClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     cfg.Token,
		userAgent: cfg.UserAgent,
		http:      httpClient,
		cache:     cfg.Cache,
		logger:    cfg.Logger,
	}
}

// Submit creates a measurement.
func (c *APIClient) Submit(ctx context.Context, request *domain.MeasurementRequest) (*domain.MeasurementHandle, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal measurement request: %w", err)
	}

	endpoint := c.baseURL + "/measurements"
	c.logger.Debug().Str("url", endpoint).RawJSON("body", body).Msg("POST measurement")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)

	resp, respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp, respBody)
	}

	var handle domain.MeasurementHandle
	if err := json.Unmarshal(respBody, &handle); err != nil || handle.ID == "" {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       respBody,
			Message:    "invalid measurement creation response",
			Err:        ErrInvalidResponse,
		}
	}

	c.logger.Debug().Str("id", handle.ID).Int("probes", handle.ProbesCount).Msg("measurement created")
	return &handle, nil
}

// Fetch returns the current snapshot of measurement id.
func (c *APIClient) Fetch(ctx context.Context, id string) (*domain.MeasurementResult, error) {
	endpoint := c.baseURL + "/measurements/" + url.PathEscape(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	var cachedBody []byte
	if c.cache != nil {
		if etag, body, ok := c.cache.Get(ctx, id); ok && etag != "" {
			req.Header.Set("If-None-Match", etag)
			cachedBody = body
		}
	}

	resp, body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusNotModified:
		if cachedBody == nil {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: ErrNotModifiedUncached.Error(), Err: ErrNotModifiedUncached}
		}
		c.logger.Debug().Str("id", id).Msg("measurement not modified, using cached body")
		body = cachedBody

	case resp.StatusCode != http.StatusOK:
		return nil, newFetchStatusError(resp, body)

	default:
		if etag := resp.Header.Get("ETag"); etag != "" && c.cache != nil {
			if err := c.cache.Put(ctx, id, etag, body); err != nil {
				c.logger.Warn().Err(err).Str("id", id).Msg("failed to cache measurement response")
			}
		}
	}

	var result domain.MeasurementResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       body,
			Message:    fmt.Sprintf("invalid measurement format returned: %v", err),
			Err:        ErrInvalidResponse,
		}
	}
	result.Raw = body

	c.logger.Debug().Str("id", id).Str("status", string(result.Status)).Int("results", len(result.Results)).Msg("measurement fetched")
	return &result, nil
}

func (c *APIClient) setHeaders(req *http.Request) {
	req.Header.Set("Accept-Encoding", "br")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// do performs req and returns the decoded body. The response body is always closed.
func (c *APIClient) do(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, newTransportError(err)
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "br" {
		reader = brotli.NewReader(reader)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to read response body: %v", err),
			Err:        err,
		}
	}

	return resp, body, nil
}
