// internal/workers/decision/score-application/models.go
package scoreapplication

import "algolend-workers/internal/models"

type Input struct {
	ApplicantRecord *models.ApplicantRecord `json:"applicantRecord"`
	BureauReport    *models.BureauReport    `json:"bureauReport"`
	CorrelationID   string                  `json:"correlationId"`
}

type Output struct {
	ScoreResult     *models.ScoreResult `json:"scoreResult"`
	NormalizedScore float64             `json:"normalizedScore"`
	Recommendation  string              `json:"recommendation"`
	ReasonCodes     []string            `json:"reasonCodes"`
	CorrelationID   string              `json:"correlationId"`
}
