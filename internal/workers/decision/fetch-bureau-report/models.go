// internal/workers/decision/fetch-bureau-report/models.go
package fetchbureaureport

import "algolend-workers/internal/models"

type Input struct {
	ApplicantRecord *models.ApplicantRecord `json:"applicantRecord"`
	CorrelationID   string                  `json:"correlationId"`
}

type Output struct {
	BureauReport  *models.BureauReport `json:"bureauReport"`
	CorrelationID string               `json:"correlationId"`
}
