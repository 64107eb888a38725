// internal/bureau/client_test.go
package bureau

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "algolend-workers/internal/common/errors"
	"algolend-workers/internal/common/logger"
	"algolend-workers/internal/models"
)

const testIdentity = "9001015009087"

func sampleReport() *models.BureauReport {
	return &models.BureauReport{
		IdentityNumber: testIdentity,
		CreditScore:    640,
		Exposure: models.AccountExposure{
			RevolvingBalance: 12000,
			RevolvingLimits:  40000,
		},
		AdverseCount: 0,
		Provider:     "test-bureau",
	}
}

func TestHTTPClient_FetchReport_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/reports/"+testIdentity, r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sampleReport())
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-key", 5*time.Second, logger.NewTestLogger(t))
	report, err := client.FetchReport(context.Background(), testIdentity)

	require.NoError(t, err)
	assert.Equal(t, 640.0, report.CreditScore)
	assert.Equal(t, "test-bureau", report.Provider)
}

func TestHTTPClient_FetchReport_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-key", 5*time.Second, logger.NewTestLogger(t))
	_, err := client.FetchReport(context.Background(), testIdentity)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeBureauReportNotFound, stdErr.Code)
	assert.False(t, stdErr.Retryable)
	// the raw identity number never appears in error details
	assert.NotContains(t, stdErr.Details, testIdentity)
}

func TestHTTPClient_FetchReport_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-key", 5*time.Second, logger.NewTestLogger(t))
	_, err := client.FetchReport(context.Background(), testIdentity)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeBureauUnavailable, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestHTTPClient_FetchReport_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-key", 50*time.Millisecond, logger.NewTestLogger(t))
	_, err := client.FetchReport(context.Background(), testIdentity)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeBureauTimeout, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestStubClient_Deterministic(t *testing.T) {
	stub := NewStubClient()

	first, err := stub.FetchReport(context.Background(), testIdentity)
	require.NoError(t, err)
	second, err := stub.FetchReport(context.Background(), testIdentity)
	require.NoError(t, err)

	assert.Equal(t, first.CreditScore, second.CreditScore)
	assert.Equal(t, first.Exposure, second.Exposure)
	assert.Equal(t, first.AdverseCount, second.AdverseCount)

	assert.GreaterOrEqual(t, first.CreditScore, 300.0)
	assert.LessOrEqual(t, first.CreditScore, 850.0)

	// a different identity produces a different report
	other, err := stub.FetchReport(context.Background(), "8207235800082")
	require.NoError(t, err)
	assert.NotEqual(t, first.CreditScore, other.CreditScore)
}
