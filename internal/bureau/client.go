// internal/bureau/client.go

// Package bureau fetches external credit reports. The HTTP client talks to
// the real provider; the stub produces deterministic reports for local and
// test runs; the cache wraps either with a Redis read-through layer.
package bureau

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	commonerrors "algolend-workers/internal/common/errors"
	commonhttp "algolend-workers/internal/common/http"
	"algolend-workers/internal/common/logger"
	"algolend-workers/internal/models"
)

// Client fetches a bureau report for an identity number. A single
// synchronous call with no client-side retry; callers own retry policy.
type Client interface {
	FetchReport(ctx context.Context, identityNumber string) (*models.BureauReport, error)
}

// HTTPClient calls the bureau provider's report endpoint.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *commonhttp.Client
	logger  logger.Logger
}

// NewHTTPClient builds a bureau client against a provider base URL.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  commonhttp.NewClient(timeout),
		logger:  log,
	}
}

// FetchReport retrieves the credit report for one identity number. Timeouts
// and transport failures map onto retryable upstream errors; a 404 is a
// non-retryable not-found.
func (c *HTTPClient) FetchReport(ctx context.Context, identityNumber string) (*models.BureauReport, error) {
	url := fmt.Sprintf("%s/v1/reports/%s", c.baseURL, identityNumber)
	resp, err := c.client.Get(ctx, url, map[string]string{
		"Accept":        "application/json",
		"Authorization": "Bearer " + c.apiKey,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, commonerrors.NewBureauTimeoutError(identityNumber)
		}
		return nil, commonerrors.NewBureauUnavailableError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, commonerrors.NewBureauReportNotFoundError(identityNumber)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, commonerrors.NewBureauUnavailableError(
			fmt.Errorf("bureau returned status %d: %s", resp.StatusCode, string(body)))
	}

	var report models.BureauReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, commonerrors.NewBureauUnavailableError(
			fmt.Errorf("decode bureau response: %w", err))
	}
	if report.IdentityNumber == "" {
		report.IdentityNumber = identityNumber
	}

	c.logger.Debug("Fetched bureau report", map[string]interface{}{
		"provider":    report.Provider,
		"creditScore": report.CreditScore,
	})
	return &report, nil
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
