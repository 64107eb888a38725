// internal/workers/decision/validate-applicant-data/models.go
package validateapplicantdata

import "algolend-workers/internal/models"

type Input struct {
	Applicant     *models.ApplicantInput `json:"applicant"`
	ApplicationID string                 `json:"applicationId"`
}

type Output struct {
	IsValid         bool                    `json:"isValid"`
	ApplicantRecord *models.ApplicantRecord `json:"applicantRecord"`
	CorrelationID   string                  `json:"correlationId"`
	ApplicationID   string                  `json:"applicationId"`
}
