// internal/applicant/builder.go

// Package applicant validates raw credit check payloads and builds the
// canonical applicant record the scoring engine consumes.
package applicant

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	commonerrors "algolend-workers/internal/common/errors"
	"algolend-workers/internal/engine"
	"algolend-workers/internal/models"
)

// identityPattern is the 13-digit national identity number format. The
// first six digits encode the date of birth as YYMMDD.
var identityPattern = regexp.MustCompile(`^\d{13}$`)

// Build validates the raw input and produces an immutable applicant record.
// Validation collects every violation before returning so the caller can fix
// all issues in one round trip. The derived net monthly income must be
// positive; a non-positive result is its own error after field validation
// passes.
func Build(input *models.ApplicantInput) (*models.ApplicantRecord, error) {
	if input == nil {
		return nil, commonerrors.NewApplicantValidationError([]string{"payload is required"})
	}

	var violations []string

	identity := strings.TrimSpace(input.IdentityNumber)
	if !identityPattern.MatchString(identity) {
		violations = append(violations, "identityNumber must be exactly 13 digits")
	}
	if strings.TrimSpace(input.Forename) == "" {
		violations = append(violations, "forename is required")
	}
	if strings.TrimSpace(input.Surname) == "" {
		violations = append(violations, "surname is required")
	}
	if input.AnnualIncome <= 0 {
		violations = append(violations, "annualIncome must be positive")
	}
	if input.AnnualExpenses < 0 {
		violations = append(violations, "annualExpenses must not be negative")
	}
	if input.MonthsInJob < 0 {
		violations = append(violations, "monthsInCurrentJob must not be negative")
	}
	if strings.TrimSpace(input.ContractType) == "" {
		violations = append(violations, "contractType is required")
	}

	sector := models.EmploymentSector(strings.ToUpper(strings.TrimSpace(input.EmploymentSector)))
	switch sector {
	case models.SectorGovernment, models.SectorPrivate:
	case "":
		violations = append(violations, "employmentSector is required")
	default:
		violations = append(violations, fmt.Sprintf("employmentSector %q is not recognized", input.EmploymentSector))
	}

	employer := strings.TrimSpace(input.EmployerName)
	if employer == "" && (sector == models.SectorGovernment || sector == models.SectorPrivate) {
		violations = append(violations, "employerName is required for the selected sector")
	}

	if len(violations) > 0 {
		return nil, commonerrors.NewApplicantValidationError(violations)
	}

	netMonthly := (input.AnnualIncome - input.AnnualExpenses) / 12
	if netMonthly <= 0 {
		return nil, commonerrors.NewNonPositiveNetIncomeError(netMonthly)
	}

	return &models.ApplicantRecord{
		IdentityNumber:   identity,
		Forename:         strings.TrimSpace(input.Forename),
		Surname:          strings.TrimSpace(input.Surname),
		DateOfBirth:      deriveDateOfBirth(identity, time.Now().UTC()),
		AnnualIncome:     input.AnnualIncome,
		AnnualExpenses:   input.AnnualExpenses,
		NetMonthlyIncome: netMonthly,
		MonthsInJob:      input.MonthsInJob,
		ContractType:     engine.NormalizeContractType(input.ContractType),
		EmploymentSector: sector,
		EmployerName:     employer,
		IsNewBorrower:    input.IsNewBorrower,
		IP:               strings.TrimSpace(input.IP),
		UserAgent:        strings.TrimSpace(input.UserAgent),
	}, nil
}

// deriveDateOfBirth expands the YYMMDD prefix of the identity number into a
// YYYYMMDD date. Two-digit years at or before the current year resolve to
// the 2000s, the rest to the 1900s. The identity number must already be
// validated as 13 digits.
func deriveDateOfBirth(identity string, now time.Time) string {
	yy := identity[0:2]
	mmdd := identity[2:6]

	century := "19"
	currentYY := now.Year() % 100
	year := int(yy[0]-'0')*10 + int(yy[1]-'0')
	if year <= currentYY {
		century = "20"
	}
	return century + yy + mmdd
}
