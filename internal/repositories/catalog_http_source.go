package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"kasir/internal/models"
)

// catalogResponse is the envelope returned by the remote catalog.
type catalogResponse struct {
	Products []models.RawProduct `json:"products"`
}

// HTTPCatalogSource reads the catalog from a remote JSON endpoint.
type HTTPCatalogSource struct {
	url     string
	timeout time.Duration
}

// NewHTTPCatalogSource creates a new instance of HTTPCatalogSource.
func NewHTTPCatalogSource(url string, timeout time.Duration) *HTTPCatalogSource {
	return &HTTPCatalogSource{
		url:     url,
		timeout: timeout,
	}
}

type fetchResult struct {
	code int
	body []byte
	errs []error
}

// requestTimeout is the configured timeout, shortened to the context
// deadline when that comes first.
func (s *HTTPCatalogSource) requestTimeout(ctx context.Context) time.Duration {
	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	return timeout
}

// FetchProducts performs a GET against the catalog URL and decodes the
// product list. The client agent cannot be interrupted, so a canceled ctx
// abandons the request: FetchProducts returns at once and the request runs
// on until its timeout, which never outlasts the ctx deadline.
func (s *HTTPCatalogSource) FetchProducts(ctx context.Context) ([]models.RawProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	agent := fiber.Get(s.url)
	if timeout := s.requestTimeout(ctx); timeout > 0 {
		agent.Timeout(timeout)
	}
	if err := agent.Parse(); err != nil {
		return nil, fmt.Errorf("failed to parse catalog url %s: %w", s.url, err)
	}

	done := make(chan fetchResult, 1)
	go func() {
		code, body, errs := agent.Bytes()
		done <- fetchResult{code: code, body: body, errs: errs}
	}()

	var res fetchResult
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, ctx.Err())
	case res = <-done:
	}

	if len(res.errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, errors.Join(res.errs...))
	}
	if res.code < fiber.StatusOK || res.code >= fiber.StatusMultipleChoices {
		return nil, fmt.Errorf("%w (status %d)", ErrCatalogUnavailable, res.code)
	}

	var payload catalogResponse
	if err := json.Unmarshal(res.body, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %w", ErrCatalogUnavailable, err)
	}
	return payload.Products, nil
}
