// internal/workers/decision/build-decision-response/handler_test.go
package builddecisionresponse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "algolend-workers/internal/common/errors"
	"algolend-workers/internal/common/logger"
	"algolend-workers/internal/models"
)

func fullBreakdown() models.Breakdown {
	var b models.Breakdown
	for _, key := range models.FactorOrder {
		b.Set(models.FactorContribution{
			Key:                 key,
			NormalizedPercent:   100,
			WeightPercent:       70.0 / float64(len(models.FactorOrder)),
			ContributionPercent: 70.0 / float64(len(models.FactorOrder)),
		})
	}
	return b
}

func testInput() *Input {
	return &Input{
		DecisionID:    "dec-1",
		ApplicationID: "app-42",
		CorrelationID: "corr-1",
		ScoreResult: &models.ScoreResult{
			Breakdown:       fullBreakdown(),
			NormalizedScore: 72.5,
			TotalWeight:     70,
			Recommendation:  models.RecommendationApprove,
			ReasonCodes:     []string{},
		},
	}
}

func TestHandler_Execute_Success(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	output, err := handler.execute(context.Background(), testInput())

	require.NoError(t, err)
	assert.Equal(t, 72.5, output.Response.NormalizedScore)
	assert.Equal(t, models.RecommendationApprove, output.Response.Recommendation)
	assert.Equal(t, "corr-1", output.Response.CorrelationID)
	assert.NotNil(t, output.Response.Breakdown)
	assert.NotEmpty(t, output.Response.Metadata.Timestamp)
	assert.Equal(t, "1.0.0", output.Response.Metadata.Version)
}

func TestHandler_Execute_NilReasonCodesBecomeEmptyList(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	input := testInput()
	input.ScoreResult.ReasonCodes = nil

	output, err := handler.execute(context.Background(), input)

	require.NoError(t, err)
	assert.NotNil(t, output.Response.ReasonCodes)
	assert.Empty(t, output.Response.ReasonCodes)
}

func TestHandler_Execute_InvalidRecommendationRejected(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	input := testInput()
	input.ScoreResult.Recommendation = "MAYBE"

	_, err := handler.execute(context.Background(), input)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeResponseValidationFailed, stdErr.Code)
}

func TestHandler_Execute_OutOfBoundsScoreRejected(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	input := testInput()
	input.ScoreResult.NormalizedScore = 140

	_, err := handler.execute(context.Background(), input)
	assert.Error(t, err)
}

func TestHandler_Execute_MissingScoreResult(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	_, err := handler.execute(context.Background(), &Input{CorrelationID: "corr-1"})
	assert.Error(t, err)
}
