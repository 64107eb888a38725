// internal/workers/decision/build-decision-response/handler.go
package builddecisionresponse

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"

	commonerrors "algolend-workers/internal/common/errors"
	"algolend-workers/internal/common/logger"
	"algolend-workers/internal/common/metrics"
)

const (
	TaskType = "build-decision-response"
)

// responseSchema guards the caller-facing contract. Every response must
// carry a bounded score, a known recommendation band, and all eleven
// breakdown factors before it leaves the process.
var responseSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"normalizedScore", "recommendation", "breakdown", "reasonCodes", "correlationId"},
	"properties": map[string]interface{}{
		"normalizedScore": map[string]interface{}{
			"type":    "number",
			"minimum": 0,
			"maximum": 100,
		},
		"recommendation": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"APPROVE", "REFER", "DECLINE"},
		},
		"breakdown": map[string]interface{}{
			"type": "object",
			"required": []interface{}{
				"creditScore", "creditUtilization", "adverseListings", "dti",
				"employmentTenure", "contractType", "employerCategory",
				"incomeStability", "repaymentHistory", "retrievalConfidence",
				"deviceSignals",
			},
		},
		"reasonCodes": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"correlationId": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
	},
}

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *commonerrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
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
	if input.ScoreResult == nil {
		return nil, commonerrors.NewResponseValidationFailedError("scoreResult is required")
	}

	response := &Response{
		NormalizedScore: input.ScoreResult.NormalizedScore,
		Recommendation:  input.ScoreResult.Recommendation,
		Breakdown:       &input.ScoreResult.Breakdown,
		ReasonCodes:     input.ScoreResult.ReasonCodes,
		CorrelationID:   input.CorrelationID,
		Metadata: ResponseMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   h.config.AppVersion,
		},
	}
	if response.ReasonCodes == nil {
		response.ReasonCodes = []string{}
	}

	if err := validateResponse(response); err != nil {
		return nil, commonerrors.NewResponseValidationFailedError(err.Error())
	}

	h.logger.Info("decision response built", map[string]interface{}{
		"correlationId":  input.CorrelationID,
		"recommendation": response.Recommendation,
	})

	return &Output{Response: response}, nil
}

// validateResponse checks the payload against the response schema. The
// schema check runs on the JSON view of the response so it verifies exactly
// what a caller would receive.
func validateResponse(response *Response) error {
	raw, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	var asMap map[string]interface{}
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return fmt.Errorf("reparse response: %w", err)
	}

	schemaLoader := gojsonschema.NewGoLoader(responseSchema)
	documentLoader := gojsonschema.NewGoLoader(asMap)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("response validation failed: %v", errs)
	}
	return nil
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
