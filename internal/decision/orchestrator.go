// internal/decision/orchestrator.go

// Package decision sequences one credit check end to end: validate the
// applicant, fetch the bureau report, score, and assemble the outcome.
package decision

import (
	"context"
	"time"

	"github.com/google/uuid"

	"algolend-workers/internal/applicant"
	"algolend-workers/internal/bureau"
	"algolend-workers/internal/common/logger"
	"algolend-workers/internal/common/metrics"
	"algolend-workers/internal/engine"
	"algolend-workers/internal/models"
)

// State is the orchestrator's position in one request.
type State string

const (
	StateValidating     State = "VALIDATING"
	StateFetchingBureau State = "FETCHING_BUREAU"
	StateScoring        State = "SCORING"
	StateDone           State = "DONE"
	StateFailed         State = "FAILED"
)

// Outcome is the result of one orchestrated run.
type Outcome struct {
	State         State                   `json:"state"`
	CorrelationID string                  `json:"correlationId"`
	Record        *models.ApplicantRecord `json:"record,omitempty"`
	Report        *models.BureauReport    `json:"report,omitempty"`
	Result        *models.ScoreResult     `json:"result,omitempty"`
}

// Orchestrator runs the full decision pipeline. Fetching the bureau report
// is the only blocking step; validation and scoring are synchronous compute.
type Orchestrator struct {
	engine *engine.Engine
	bureau bureau.Client
	logger logger.Logger
}

// NewOrchestrator wires the pipeline.
func NewOrchestrator(eng *engine.Engine, client bureau.Client, log logger.Logger) *Orchestrator {
	return &Orchestrator{engine: eng, bureau: client, logger: log}
}

// Decide runs one credit check. On bureau failure the run fails without
// scoring; partial or stale report data never reaches the engine. The
// returned outcome always carries the correlation id, including on failure,
// so callers can reference the run without leaking internals.
func (o *Orchestrator) Decide(ctx context.Context, input *models.ApplicantInput) (*Outcome, error) {
	outcome := &Outcome{
		State:         StateValidating,
		CorrelationID: uuid.New().String(),
	}
	log := o.logger.WithFields(map[string]interface{}{
		"correlationId": outcome.CorrelationID,
	})

	record, err := applicant.Build(input)
	if err != nil {
		outcome.State = StateFailed
		log.Warn("Applicant validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return outcome, err
	}
	outcome.Record = record

	outcome.State = StateFetchingBureau
	report, err := o.bureau.FetchReport(ctx, record.IdentityNumber)
	if err != nil {
		outcome.State = StateFailed
		log.Error("Bureau fetch failed", map[string]interface{}{
			"error": err.Error(),
		})
		return outcome, err
	}
	outcome.Report = report

	outcome.State = StateScoring
	started := time.Now()
	result := o.engine.Score(record, report)
	outcome.Result = result
	outcome.State = StateDone

	metrics.DecisionsTotal.WithLabelValues(result.Recommendation).Inc()
	metrics.DecisionScore.Observe(result.NormalizedScore)

	log.Info("Credit decision complete", map[string]interface{}{
		"normalizedScore": result.NormalizedScore,
		"recommendation":  result.Recommendation,
		"reasonCodes":     result.ReasonCodes,
		"durationMs":      time.Since(started).Milliseconds(),
	})
	return outcome, nil
}

// BuildDecision converts a completed outcome into the persistable decision.
func BuildDecision(outcome *Outcome, applicationID string) *models.Decision {
	return &models.Decision{
		ID:              uuid.New().String(),
		CorrelationID:   outcome.CorrelationID,
		IdentityNumber:  outcome.Record.IdentityNumber,
		ApplicationID:   applicationID,
		NormalizedScore: outcome.Result.NormalizedScore,
		Recommendation:  outcome.Result.Recommendation,
		ReasonCodes:     outcome.Result.ReasonCodes,
		Result:          outcome.Result,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
}
