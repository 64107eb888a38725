// internal/workers/decision/fetch-bureau-report/handler.go
package fetchbureaureport

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"algolend-workers/internal/bureau"
	commonerrors "algolend-workers/internal/common/errors"
	"algolend-workers/internal/common/logger"
	"algolend-workers/internal/common/metrics"
)

const (
	TaskType = "fetch-bureau-report"
)

type Handler struct {
	config       *Config
	bureau       bureau.Client
	logger       logger.Logger
	errorHandler *commonerrors.ErrorHandler
}

func NewHandler(config *Config, client bureau.Client, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		bureau:       client,
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
	if input.ApplicantRecord == nil || input.ApplicantRecord.IdentityNumber == "" {
		return nil, commonerrors.NewApplicantValidationError(
			[]string{"applicantRecord with identityNumber is required"})
	}

	report, err := h.bureau.FetchReport(ctx, input.ApplicantRecord.IdentityNumber)
	if err != nil {
		return nil, err
	}

	h.logger.Info("bureau report fetched", map[string]interface{}{
		"correlationId": input.CorrelationID,
		"provider":      report.Provider,
		"adverseCount":  report.AdverseCount,
	})

	return &Output{
		BureauReport:  report,
		CorrelationID: input.CorrelationID,
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
