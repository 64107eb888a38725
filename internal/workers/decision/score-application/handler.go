// internal/workers/decision/score-application/handler.go
package scoreapplication

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonerrors "algolend-workers/internal/common/errors"
	"algolend-workers/internal/common/logger"
	"algolend-workers/internal/common/metrics"
	"algolend-workers/internal/engine"
)

const (
	TaskType = "score-application"
)

type Handler struct {
	config       *Config
	engine       *engine.Engine
	logger       logger.Logger
	errorHandler *commonerrors.ErrorHandler
}

func NewHandler(config *Config, eng *engine.Engine, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		engine:       eng,
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.ApplicantRecord == nil {
		return nil, commonerrors.NewScoringFailedError(
			fmt.Errorf("applicantRecord is required"))
	}

	result := h.engine.Score(input.ApplicantRecord, input.BureauReport)

	metrics.DecisionsTotal.WithLabelValues(result.Recommendation).Inc()
	metrics.DecisionScore.Observe(result.NormalizedScore)

	h.logger.Info("application scored", map[string]interface{}{
		"correlationId":   input.CorrelationID,
		"normalizedScore": result.NormalizedScore,
		"recommendation":  result.Recommendation,
		"reasonCodes":     result.ReasonCodes,
	})

	return &Output{
		ScoreResult:     result,
		NormalizedScore: result.NormalizedScore,
		Recommendation:  result.Recommendation,
		ReasonCodes:     result.ReasonCodes,
		CorrelationID:   input.CorrelationID,
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
