// internal/workers/decision/persist-score-result/handler_test.go
package persistscoreresult

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "algolend-workers/internal/common/errors"
	"algolend-workers/internal/common/logger"
	"algolend-workers/internal/models"
)

func testInput() *Input {
	return &Input{
		ApplicationID: "app-42",
		CorrelationID: "corr-1",
		ApplicantRecord: &models.ApplicantRecord{
			IdentityNumber: "9001015009087",
		},
		ScoreResult: &models.ScoreResult{
			NormalizedScore: 72.5,
			Recommendation:  models.RecommendationApprove,
			ReasonCodes:     []string{},
		},
	}
}

func TestHandler_Execute_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("app-42").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO decisions`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	handler := NewHandler(LoadConfig(), db, logger.NewTestLogger(t))
	output, err := handler.execute(context.Background(), testInput())

	require.NoError(t, err)
	assert.NotEmpty(t, output.DecisionID)
	assert.Equal(t, "app-42", output.ApplicationID)
	assert.Equal(t, "corr-1", output.CorrelationID)
	assert.NotEmpty(t, output.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DuplicateDecision(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("app-42").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	handler := NewHandler(LoadConfig(), db, logger.NewTestLogger(t))
	_, err = handler.execute(context.Background(), testInput())

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeDuplicateDecision, stdErr.Code)
	assert.False(t, stdErr.Retryable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_InsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("app-42").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO decisions`).
		WillReturnError(assert.AnError)

	handler := NewHandler(LoadConfig(), db, logger.NewTestLogger(t))
	_, err = handler.execute(context.Background(), testInput())

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeDatabaseInsertFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestHandler_Execute_MissingResult(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewHandler(LoadConfig(), db, logger.NewTestLogger(t))
	_, err = handler.execute(context.Background(), &Input{ApplicationID: "app-42"})
	assert.Error(t, err)
}
