// internal/engine/engine_test.go
package engine

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algolend-workers/internal/common/config"
	"algolend-workers/internal/directory"
	"algolend-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

const testDirectoryCSV = `name;tel;email;website
Acme Holdings Ltd;0105550100;info@acme.example;https://acme.example
Shoprite Holdings;0215550123;;https://shoprite.example
Sasol Limited;0115550456;ir@sasol.example;
`

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	policy, err := NewPolicy(config.DefaultEngineConfig())
	require.NoError(t, err)

	table, err := directory.ParseTable(strings.NewReader(testDirectoryCSV))
	require.NoError(t, err)

	return New(policy, directory.NewMatcher(table), nil)
}

func cleanRecord() *models.ApplicantRecord {
	return &models.ApplicantRecord{
		IdentityNumber:   "9001015009087",
		Forename:         "Thandi",
		Surname:          "Nkosi",
		AnnualIncome:     480000,
		AnnualExpenses:   120000,
		NetMonthlyIncome: 30000,
		MonthsInJob:      36,
		ContractType:     models.ContractPermanent,
		EmploymentSector: models.SectorGovernment,
		EmployerName:     "Department of Education",
		IsNewBorrower:    false,
		IP:               "196.25.1.10",
		UserAgent:        "Mozilla/5.0",
	}
}

func cleanReport() *models.BureauReport {
	return &models.BureauReport{
		IdentityNumber: "9001015009087",
		CreditScore:    620,
		Exposure: models.AccountExposure{
			RevolvingBalance:        0,
			RevolvingLimits:         50000,
			TotalMonthlyInstallment: 6000, // 20% of net monthly income
		},
		AdverseCount: 0,
	}
}

// ==========================
// Scenario Tests
// ==========================

func TestEngine_Score_CleanApplicant(t *testing.T) {
	engine := newTestEngine(t)

	result := engine.Score(cleanRecord(), cleanReport())

	assert.Empty(t, result.ReasonCodes)
	assert.Greater(t, result.NormalizedScore, 50.0)
	assert.Equal(t, models.RecommendationApprove, result.Recommendation)

	// all eleven factors present with the configured weights
	var weightSum float64
	for _, key := range models.FactorOrder {
		c := result.Breakdown.Get(key)
		assert.Equal(t, key, c.Key)
		weightSum += c.WeightPercent
	}
	assert.InDelta(t, result.TotalWeight, weightSum, 1e-9)
	assert.LessOrEqual(t, result.RawScoreSum, result.TotalWeight+1e-9)
}

func TestEngine_Score_StressedApplicant(t *testing.T) {
	engine := newTestEngine(t)

	record := cleanRecord()
	record.EmploymentSector = models.SectorPrivate
	record.EmployerName = "Corner Cash Loans"
	record.ContractType = models.ContractPartTime
	record.MonthsInJob = 2
	record.IP = ""
	record.UserAgent = ""

	report := &models.BureauReport{
		CreditScore: 500,
		Exposure: models.AccountExposure{
			RevolvingBalance:        9000,
			RevolvingLimits:         10000, // 90% utilization
			TotalMonthlyInstallment: 18000, // 60% of net monthly income
		},
		AdverseCount: 2,
	}

	result := engine.Score(record, report)

	assert.Equal(t, []string{
		ReasonLowCreditScore,
		ReasonHighUtilization,
		ReasonAdverseListings,
		ReasonHighDTI,
		ReasonShortTenure,
	}, result.ReasonCodes)
	assert.Less(t, result.NormalizedScore, engine.Policy().ReferAt)
	assert.Equal(t, models.RecommendationDecline, result.Recommendation)
}

func TestEngine_Score_Deterministic(t *testing.T) {
	engine := newTestEngine(t)

	first := engine.Score(cleanRecord(), cleanReport())
	second := engine.Score(cleanRecord(), cleanReport())

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestEngine_Score_EmptyReport(t *testing.T) {
	engine := newTestEngine(t)

	result := engine.Score(cleanRecord(), nil)

	assert.GreaterOrEqual(t, result.NormalizedScore, 0.0)
	assert.LessOrEqual(t, result.NormalizedScore, 100.0)
	// zero bureau score breaches the floor even though all other inputs are clean
	assert.Contains(t, result.ReasonCodes, ReasonLowCreditScore)
	// no revolving limit reported falls back to the neutral percent
	assert.Equal(t, engine.Policy().NeutralUtilization,
		result.Breakdown.CreditUtilization.NormalizedPercent)
}

func TestEngine_Score_NonFiniteInputs(t *testing.T) {
	engine := newTestEngine(t)

	record := cleanRecord()
	record.MonthsInJob = math.NaN()

	report := cleanReport()
	report.CreditScore = math.Inf(1)
	report.Exposure.RevolvingBalance = math.NaN()

	result := engine.Score(record, report)

	assert.False(t, math.IsNaN(result.NormalizedScore))
	assert.GreaterOrEqual(t, result.NormalizedScore, 0.0)
	assert.LessOrEqual(t, result.NormalizedScore, 100.0)
}

// ==========================
// Factor Unit Tests
// ==========================

func TestPolicy_CreditScoreFactor(t *testing.T) {
	policy, err := NewPolicy(config.DefaultEngineConfig())
	require.NoError(t, err)

	tests := []struct {
		name  string
		score float64
		want  float64
	}{
		{name: "at minimum", score: 300, want: 0},
		{name: "at maximum", score: 850, want: 100},
		{name: "below minimum clamps", score: 100, want: 0},
		{name: "above maximum clamps", score: 900, want: 100},
		{name: "midrange", score: 575, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := policy.creditScoreFactor(tt.score)
			assert.InDelta(t, tt.want, c.NormalizedPercent, 1e-9)
		})
	}
}

func TestPolicy_AdverseFactor(t *testing.T) {
	policy, err := NewPolicy(config.DefaultEngineConfig())
	require.NoError(t, err)

	assert.Equal(t, 100.0, policy.adverseFactor(0).NormalizedPercent)
	assert.Equal(t, 40.0, policy.adverseFactor(1).NormalizedPercent)
	assert.Equal(t, 20.0, policy.adverseFactor(2).NormalizedPercent)
	assert.Equal(t, 0.0, policy.adverseFactor(3).NormalizedPercent)
	assert.Equal(t, 0.0, policy.adverseFactor(9).NormalizedPercent)
	assert.Equal(t, 100.0, policy.adverseFactor(-1).NormalizedPercent)
}

func TestPolicy_DTIFactor(t *testing.T) {
	policy, err := NewPolicy(config.DefaultEngineConfig())
	require.NoError(t, err)

	c := policy.dtiFactor(6000, 30000)
	assert.InDelta(t, 80.0, c.NormalizedPercent, 1e-9)

	// income at or below zero gives no DTI credit
	assert.Equal(t, 0.0, policy.dtiFactor(6000, 0).NormalizedPercent)
	assert.Equal(t, 0.0, policy.dtiFactor(6000, -100).NormalizedPercent)

	// debt above income clamps rather than going negative
	assert.Equal(t, 0.0, policy.dtiFactor(50000, 30000).NormalizedPercent)
}

func TestPolicy_TenureFactor(t *testing.T) {
	policy, err := NewPolicy(config.DefaultEngineConfig())
	require.NoError(t, err)

	assert.Equal(t, 0.0, policy.tenureFactor(0).NormalizedPercent)
	assert.InDelta(t, 50.0, policy.tenureFactor(12).NormalizedPercent, 1e-9)
	assert.Equal(t, 100.0, policy.tenureFactor(24).NormalizedPercent)
	assert.Equal(t, 100.0, policy.tenureFactor(120).NormalizedPercent)
}

func TestPolicy_DeviceSignalsFactor(t *testing.T) {
	policy, err := NewPolicy(config.DefaultEngineConfig())
	require.NoError(t, err)

	assert.Equal(t, 0.0, policy.deviceSignalsFactor(0).NormalizedPercent)
	assert.Equal(t, 50.0, policy.deviceSignalsFactor(1).NormalizedPercent)
	assert.Equal(t, 100.0, policy.deviceSignalsFactor(2).NormalizedPercent)
	assert.Equal(t, 100.0, policy.deviceSignalsFactor(5).NormalizedPercent)
}

func TestPlaceholderHistory(t *testing.T) {
	var history PlaceholderHistory

	newBorrower := &models.ApplicantRecord{IsNewBorrower: true}
	pct, _ := history.RepaymentPercent(newBorrower)
	assert.Equal(t, 100.0, pct)

	returning := &models.ApplicantRecord{IsNewBorrower: false}
	pct, _ = history.RepaymentPercent(returning)
	assert.Equal(t, 50.0, pct)

	pct, _ = history.RetrievalConfidencePercent(returning)
	assert.Equal(t, 100.0, pct)
}

// ==========================
// Reason Code Tests
// ==========================

func TestGenerateReasons(t *testing.T) {
	tests := []struct {
		name string
		in   reasonInputs
		want []string
	}{
		{
			name: "no adverse signals",
			in:   reasonInputs{CreditScore: 700, UtilizationPercent: 20, DTIPercent: 30, TenureMonths: 24},
			want: []string{},
		},
		{
			name: "boundary values do not trigger",
			in:   reasonInputs{CreditScore: 580, UtilizationPercent: 75, DTIPercent: 50, TenureMonths: 6},
			want: []string{},
		},
		{
			name: "single breach",
			in:   reasonInputs{CreditScore: 579, UtilizationPercent: 20, DTIPercent: 30, TenureMonths: 24},
			want: []string{ReasonLowCreditScore},
		},
		{
			name: "all breaches in fixed order",
			in:   reasonInputs{CreditScore: 500, UtilizationPercent: 90, AdverseCount: 2, DTIPercent: 60, TenureMonths: 2},
			want: []string{ReasonLowCreditScore, ReasonHighUtilization, ReasonAdverseListings, ReasonHighDTI, ReasonShortTenure},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, generateReasons(tt.in))
		})
	}
}
