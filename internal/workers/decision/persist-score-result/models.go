// internal/workers/decision/persist-score-result/models.go
package persistscoreresult

import "algolend-workers/internal/models"

type Input struct {
	ApplicantRecord *models.ApplicantRecord `json:"applicantRecord"`
	ScoreResult     *models.ScoreResult     `json:"scoreResult"`
	ApplicationID   string                  `json:"applicationId"`
	CorrelationID   string                  `json:"correlationId"`
}

type Output struct {
	DecisionID    string `json:"decisionId"`
	ApplicationID string `json:"applicationId"`
	CorrelationID string `json:"correlationId"`
	CreatedAt     string `json:"createdAt"`
}
