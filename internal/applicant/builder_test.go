// internal/applicant/builder_test.go
package applicant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "algolend-workers/internal/common/errors"
	"algolend-workers/internal/models"
)

func validInput() *models.ApplicantInput {
	return &models.ApplicantInput{
		IdentityNumber:   "9001015009087",
		Forename:         "Thandi",
		Surname:          "Nkosi",
		AnnualIncome:     480000,
		AnnualExpenses:   120000,
		MonthsInJob:      36,
		ContractType:     "full time",
		EmploymentSector: "private",
		EmployerName:     "Shoprite Holdings",
		IsNewBorrower:    true,
		IP:               "196.25.1.10",
		UserAgent:        "Mozilla/5.0",
	}
}

func TestBuild_Success(t *testing.T) {
	record, err := Build(validInput())
	require.NoError(t, err)

	assert.Equal(t, "9001015009087", record.IdentityNumber)
	assert.Equal(t, "19900101", record.DateOfBirth)
	assert.InDelta(t, 30000.0, record.NetMonthlyIncome, 1e-9)
	assert.Equal(t, models.ContractPermanent, record.ContractType)
	assert.Equal(t, models.SectorPrivate, record.EmploymentSector)
	assert.Equal(t, "Shoprite Holdings", record.EmployerName)
	assert.True(t, record.IsNewBorrower)
}

func TestBuild_CollectsAllViolations(t *testing.T) {
	input := &models.ApplicantInput{
		IdentityNumber:   "12345",
		Forename:         "",
		Surname:          "",
		AnnualIncome:     0,
		AnnualExpenses:   -1,
		MonthsInJob:      -3,
		ContractType:     "",
		EmploymentSector: "",
		EmployerName:     "",
	}

	_, err := Build(input)
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeApplicantValidationFailed, stdErr.Code)
	assert.False(t, stdErr.Retryable)

	// every violation is reported in one pass
	assert.Contains(t, stdErr.Details, "identityNumber")
	assert.Contains(t, stdErr.Details, "forename")
	assert.Contains(t, stdErr.Details, "surname")
	assert.Contains(t, stdErr.Details, "annualIncome")
	assert.Contains(t, stdErr.Details, "annualExpenses")
	assert.Contains(t, stdErr.Details, "monthsInCurrentJob")
	assert.Contains(t, stdErr.Details, "contractType")
	assert.Contains(t, stdErr.Details, "employmentSector")
}

func TestBuild_EmptyEmployerForPrivateSector(t *testing.T) {
	input := validInput()
	input.EmployerName = "   "

	_, err := Build(input)
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeApplicantValidationFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "employerName")
}

func TestBuild_IdentityNumberFormat(t *testing.T) {
	tests := []struct {
		name     string
		identity string
		wantErr  bool
	}{
		{name: "valid 13 digits", identity: "9001015009087", wantErr: false},
		{name: "too short", identity: "900101500908", wantErr: true},
		{name: "too long", identity: "90010150090871", wantErr: true},
		{name: "non-numeric", identity: "90010150090AB", wantErr: true},
		{name: "surrounding whitespace trimmed", identity: " 9001015009087 ", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			input.IdentityNumber = tt.identity
			_, err := Build(input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuild_NonPositiveNetIncome(t *testing.T) {
	input := validInput()
	input.AnnualIncome = 100000
	input.AnnualExpenses = 100000

	_, err := Build(input)
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeNonPositiveNetIncome, stdErr.Code)
	assert.False(t, stdErr.Retryable)
}

func TestBuild_UnrecognizedSector(t *testing.T) {
	input := validInput()
	input.EmploymentSector = "PARASTATAL"

	_, err := Build(input)
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Contains(t, stdErr.Details, "employmentSector")
}

func TestBuild_NilInput(t *testing.T) {
	_, err := Build(nil)
	assert.Error(t, err)
}

func TestDeriveDateOfBirth(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "19900101", deriveDateOfBirth("9001015009087", now))
	assert.Equal(t, "20050315", deriveDateOfBirth("0503155009087", now))
	// two-digit year equal to the current year resolves to the 2000s
	assert.Equal(t, "20260101", deriveDateOfBirth("2601015009087", now))
	assert.Equal(t, "19270101", deriveDateOfBirth("2701015009087", now))
}
