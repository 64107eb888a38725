// internal/workers/decision/score-application/handler_test.go
package scoreapplication

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algolend-workers/internal/common/config"
	commonerrors "algolend-workers/internal/common/errors"
	"algolend-workers/internal/common/logger"
	"algolend-workers/internal/directory"
	"algolend-workers/internal/engine"
	"algolend-workers/internal/models"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	policy, err := engine.NewPolicy(config.DefaultEngineConfig())
	require.NoError(t, err)

	table, err := directory.ParseTable(strings.NewReader(
		"name;tel;email;website\nShoprite Holdings;;;\n"))
	require.NoError(t, err)

	eng := engine.New(policy, directory.NewMatcher(table), nil)
	return NewHandler(LoadConfig(), eng, logger.NewTestLogger(t))
}

func testInput() *Input {
	return &Input{
		CorrelationID: "corr-1",
		ApplicantRecord: &models.ApplicantRecord{
			IdentityNumber:   "9001015009087",
			AnnualIncome:     480000,
			AnnualExpenses:   120000,
			NetMonthlyIncome: 30000,
			MonthsInJob:      36,
			ContractType:     models.ContractPermanent,
			EmploymentSector: models.SectorGovernment,
			EmployerName:     "Department of Education",
			IP:               "196.25.1.10",
			UserAgent:        "Mozilla/5.0",
		},
		BureauReport: &models.BureauReport{
			CreditScore: 620,
			Exposure: models.AccountExposure{
				RevolvingLimits:         50000,
				TotalMonthlyInstallment: 6000,
			},
		},
	}
}

func TestHandler_Execute_Success(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.execute(context.Background(), testInput())

	require.NoError(t, err)
	assert.Equal(t, "corr-1", output.CorrelationID)
	assert.Equal(t, models.RecommendationApprove, output.Recommendation)
	assert.Empty(t, output.ReasonCodes)
	assert.Equal(t, output.ScoreResult.NormalizedScore, output.NormalizedScore)
}

func TestHandler_Execute_MissingReportStillScores(t *testing.T) {
	handler := newTestHandler(t)

	input := testInput()
	input.BureauReport = nil

	output, err := handler.execute(context.Background(), input)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, output.NormalizedScore, 0.0)
	assert.LessOrEqual(t, output.NormalizedScore, 100.0)
	assert.Contains(t, output.ReasonCodes, engine.ReasonLowCreditScore)
}

func TestHandler_Execute_MissingRecord(t *testing.T) {
	handler := newTestHandler(t)

	_, err := handler.execute(context.Background(), &Input{CorrelationID: "corr-1"})

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeScoringFailed, stdErr.Code)
}
