// internal/workers/decision/persist-score-result/handler.go
package persistscoreresult

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	commonerrors "algolend-workers/internal/common/errors"
	"algolend-workers/internal/common/logger"
	"algolend-workers/internal/common/metrics"
)

const (
	TaskType = "persist-score-result"
)

type Handler struct {
	config       *Config
	db           *sql.DB
	logger       logger.Logger
	errorHandler *commonerrors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
		logger:       scoped,
		errorHandler: commonerrors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	started := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, commonerrors.NewParseError(err))
		metrics.RecordJobFailure(TaskType, time.Since(started))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		metrics.RecordJobFailure(TaskType, time.Since(started))
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.RecordJobSuccess(TaskType, time.Since(started))
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ScoreResult == nil || input.ApplicantRecord == nil {
		return nil, commonerrors.NewDatabaseInsertFailedError(
			fmt.Errorf("scoreResult and applicantRecord are required"))
	}

	// one decision per application
	var exists bool
	err := h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM decisions
			WHERE application_id = $1
		)`, input.ApplicationID).Scan(&exists)
	if err != nil {
		return nil, commonerrors.NewDatabaseInsertFailedError(
			fmt.Errorf("duplicate check failed: %w", err))
	}
	if exists {
		return nil, commonerrors.NewDuplicateDecisionError(input.ApplicationID)
	}

	decisionID := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	resultJSON, err := json.Marshal(input.ScoreResult)
	if err != nil {
		return nil, commonerrors.NewDatabaseInsertFailedError(
			fmt.Errorf("marshal score result: %w", err))
	}
	reasonsJSON, err := json.Marshal(input.ScoreResult.ReasonCodes)
	if err != nil {
		return nil, commonerrors.NewDatabaseInsertFailedError(
			fmt.Errorf("marshal reason codes: %w", err))
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO decisions (
			id, correlation_id, application_id, identity_number,
			normalized_score, recommendation, reason_codes, result, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		decisionID,
		input.CorrelationID,
		input.ApplicationID,
		input.ApplicantRecord.IdentityNumber,
		input.ScoreResult.NormalizedScore,
		input.ScoreResult.Recommendation,
		reasonsJSON,
		resultJSON,
		createdAt,
	)
	if err != nil {
		return nil, commonerrors.NewDatabaseInsertFailedError(
			fmt.Errorf("insert decision: %w", err))
	}

	h.logger.Info("decision persisted", map[string]interface{}{
		"decisionId":     decisionID,
		"applicationId":  input.ApplicationID,
		"recommendation": input.ScoreResult.Recommendation,
	})

	return &Output{
		DecisionID:    decisionID,
		ApplicationID: input.ApplicationID,
		CorrelationID: input.CorrelationID,
		CreatedAt:     createdAt,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"error": err,
		})
	}
}
