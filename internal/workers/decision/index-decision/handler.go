// internal/workers/decision/index-decision/handler.go
package indexdecision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	commonerrors "algolend-workers/internal/common/errors"
	"algolend-workers/internal/common/logger"
	"algolend-workers/internal/common/metrics"
)

const (
	TaskType = "index-decision"
)

// Indexer stores one document under an id. Satisfied by ESIndexer in
// production and by fakes in tests.
type Indexer interface {
	Index(ctx context.Context, index, docID string, body []byte) error
}

// ESIndexer indexes documents into Elasticsearch.
type ESIndexer struct {
	client *elasticsearch.Client
}

func NewESIndexer(client *elasticsearch.Client) *ESIndexer {
	return &ESIndexer{client: client}
}

func (e *ESIndexer) Index(ctx context.Context, index, docID string, body []byte) error {
	req := esapi.IndexRequest{
		Index:      index,
		DocumentID: docID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index request returned %s", res.Status())
	}
	return nil
}

type Handler struct {
	config       *Config
	indexer      Indexer
	logger       logger.Logger
	errorHandler *commonerrors.ErrorHandler
}

func NewHandler(config *Config, indexer Indexer, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		indexer:      indexer,
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
	if input.DecisionID == "" || input.ScoreResult == nil {
		return nil, commonerrors.NewDecisionIndexFailedError(
			fmt.Errorf("decisionId and scoreResult are required"))
	}

	doc := document{
		DecisionID:      input.DecisionID,
		ApplicationID:   input.ApplicationID,
		CorrelationID:   input.CorrelationID,
		NormalizedScore: input.ScoreResult.NormalizedScore,
		Recommendation:  input.ScoreResult.Recommendation,
		ReasonCodes:     input.ScoreResult.ReasonCodes,
		Breakdown:       &input.ScoreResult.Breakdown,
		CreatedAt:       input.CreatedAt,
	}
	if input.ApplicantRecord != nil {
		doc.EmploymentSector = string(input.ApplicantRecord.EmploymentSector)
		doc.ContractType = string(input.ApplicantRecord.ContractType)
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, commonerrors.NewDecisionIndexFailedError(
			fmt.Errorf("marshal document: %w", err))
	}

	if err := h.indexer.Index(ctx, h.config.IndexName, input.DecisionID, body); err != nil {
		return nil, commonerrors.NewDecisionIndexFailedError(err)
	}

	h.logger.Info("decision indexed", map[string]interface{}{
		"decisionId": input.DecisionID,
		"indexName":  h.config.IndexName,
	})

	return &Output{
		Indexed:       true,
		IndexName:     h.config.IndexName,
		DecisionID:    input.DecisionID,
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
