// internal/workers/decision/build-decision-response/models.go
package builddecisionresponse

import "algolend-workers/internal/models"

type Input struct {
	DecisionID      string              `json:"decisionId"`
	ApplicationID   string              `json:"applicationId"`
	CorrelationID   string              `json:"correlationId"`
	ScoreResult     *models.ScoreResult `json:"scoreResult"`
	NormalizedScore float64             `json:"normalizedScore"`
	Recommendation  string              `json:"recommendation"`
	ReasonCodes     []string            `json:"reasonCodes"`
}

// Response is the caller-facing payload. Internal diagnostics never appear
// here; the correlation id is the only run reference exposed.
type Response struct {
	NormalizedScore float64           `json:"normalizedScore"`
	Recommendation  string            `json:"recommendation"`
	Breakdown       *models.Breakdown `json:"breakdown"`
	ReasonCodes     []string          `json:"reasonCodes"`
	CorrelationID   string            `json:"correlationId"`
	Metadata        ResponseMetadata  `json:"metadata"`
}

type ResponseMetadata struct {
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

type Output struct {
	Response *Response `json:"decisionResponse"`
}
