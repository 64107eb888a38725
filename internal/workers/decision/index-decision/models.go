// internal/workers/decision/index-decision/models.go
package indexdecision

import "algolend-workers/internal/models"

type Input struct {
	DecisionID      string                  `json:"decisionId"`
	ApplicationID   string                  `json:"applicationId"`
	CorrelationID   string                  `json:"correlationId"`
	ApplicantRecord *models.ApplicantRecord `json:"applicantRecord"`
	ScoreResult     *models.ScoreResult     `json:"scoreResult"`
	CreatedAt       string                  `json:"createdAt"`
}

type Output struct {
	Indexed       bool   `json:"indexed"`
	IndexName     string `json:"indexName"`
	DecisionID    string `json:"decisionId"`
	CorrelationID string `json:"correlationId"`
}

// document is the analytics view of a decision. The full breakdown goes in
// as-is so score distributions can be sliced per factor.
type document struct {
	DecisionID       string            `json:"decisionId"`
	ApplicationID    string            `json:"applicationId"`
	CorrelationID    string            `json:"correlationId"`
	EmploymentSector string            `json:"employmentSector,omitempty"`
	ContractType     string            `json:"contractType,omitempty"`
	NormalizedScore  float64           `json:"normalizedScore"`
	Recommendation   string            `json:"recommendation"`
	ReasonCodes      []string          `json:"reasonCodes"`
	Breakdown        *models.Breakdown `json:"breakdown,omitempty"`
	CreatedAt        string            `json:"createdAt"`
}
