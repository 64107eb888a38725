// internal/engine/engine.go

// Package engine computes the credit risk score. Eleven independent factor
// calculators each produce a weighted contribution; the aggregator sums them
// in a fixed order and normalizes against the total policy weight. Scoring
// is pure compute with no I/O.
package engine

import (
	"algolend-workers/internal/directory"
	"algolend-workers/internal/models"
)

// HistoryProvider supplies the two factors that are placeholders pending
// real integrations. Keeping them behind an interface means the aggregator
// does not change when a real repayment feed lands.
type HistoryProvider interface {
	// RepaymentPercent returns the repayment-history percent and a detail
	// string for an applicant.
	RepaymentPercent(record *models.ApplicantRecord) (float64, string)
	// RetrievalConfidencePercent returns the external retrieval confidence
	// percent and a detail string.
	RetrievalConfidencePercent(record *models.ApplicantRecord) (float64, string)
}

// PlaceholderHistory is the default HistoryProvider. New borrowers get an
// optimistic full credit since no history exists yet; returning borrowers
// sit at a neutral midpoint until a real repayment feed is wired in.
// Retrieval confidence is pinned at full credit for the same reason.
type PlaceholderHistory struct{}

func (PlaceholderHistory) RepaymentPercent(record *models.ApplicantRecord) (float64, string) {
	if record.IsNewBorrower {
		return 100, "new borrower, no repayment history"
	}
	return 50, "returning borrower, neutral pending repayment feed"
}

func (PlaceholderHistory) RetrievalConfidencePercent(*models.ApplicantRecord) (float64, string) {
	return 100, "fixed pending external retrieval integration"
}

// Engine scores one applicant against one bureau report.
type Engine struct {
	policy  *Policy
	matcher *directory.Matcher
	history HistoryProvider
}

// New builds an Engine. The policy is validated up front so a weight table
// that cannot reconcile to the total is rejected at startup, not per
// request. A nil history provider defaults to the placeholder.
func New(policy *Policy, matcher *directory.Matcher, history HistoryProvider) *Engine {
	if history == nil {
		history = PlaceholderHistory{}
	}
	return &Engine{policy: policy, matcher: matcher, history: history}
}

// Policy returns the active scoring policy.
func (e *Engine) Policy() *Policy { return e.policy }

// Score evaluates all eleven factors for the record and report, aggregates
// them in the fixed factor order, and derives reason codes and a banded
// recommendation. It is deterministic: identical inputs always produce an
// identical result.
func (e *Engine) Score(record *models.ApplicantRecord, report *models.BureauReport) *models.ScoreResult {
	if report == nil {
		report = &models.BureauReport{}
	}

	match := e.matcher.Classify(record.EmploymentSector, record.EmployerName)
	stability, stabilityNote := e.policy.incomeStabilityFactor(record.AnnualIncome, record.AnnualExpenses)
	repaymentPct, repaymentDetail := e.history.RepaymentPercent(record)
	retrievalPct, retrievalDetail := e.history.RetrievalConfidencePercent(record)

	var breakdown models.Breakdown
	breakdown.Set(e.policy.creditScoreFactor(report.CreditScore))
	breakdown.Set(e.policy.utilizationFactor(report.Exposure.RevolvingBalance, report.Exposure.RevolvingLimits))
	breakdown.Set(e.policy.adverseFactor(report.AdverseCount))
	breakdown.Set(e.policy.dtiFactor(report.Exposure.TotalMonthlyInstallment, record.NetMonthlyIncome))
	breakdown.Set(e.policy.tenureFactor(record.MonthsInJob))
	breakdown.Set(e.policy.contractFactor(record.ContractType))
	breakdown.Set(e.policy.employerFactor(match))
	breakdown.Set(stability)
	breakdown.Set(e.policy.contribution(models.FactorRepaymentHistory, repaymentPct, repaymentPct, repaymentDetail))
	breakdown.Set(e.policy.contribution(models.FactorRetrievalConfidence, retrievalPct, retrievalPct, retrievalDetail))
	breakdown.Set(e.policy.deviceSignalsFactor(record.DeviceSignalsCaptured()))

	// Summation follows FactorOrder so results are bit-reproducible.
	var rawSum float64
	for _, key := range models.FactorOrder {
		rawSum += breakdown.Get(key).ContributionPercent
	}

	normalized := clamp(rawSum/e.policy.TotalWeight*100, 0, 100)

	reasons := generateReasons(reasonInputs{
		CreditScore:        sanitize(report.CreditScore),
		UtilizationPercent: utilizationPercent(report.Exposure),
		AdverseCount:       report.AdverseCount,
		DTIPercent:         dtiPercent(report.Exposure, record.NetMonthlyIncome),
		TenureMonths:       sanitize(record.MonthsInJob),
	})

	return &models.ScoreResult{
		Breakdown:       breakdown,
		RawScoreSum:     rawSum,
		TotalWeight:     e.policy.TotalWeight,
		NormalizedScore: normalized,
		ReasonCodes:     reasons,
		Recommendation:  e.recommend(normalized),
		StabilityNote:   stabilityNote,
	}
}

func (e *Engine) recommend(normalizedScore float64) string {
	switch {
	case normalizedScore >= e.policy.ApproveAt:
		return models.RecommendationApprove
	case normalizedScore >= e.policy.ReferAt:
		return models.RecommendationRefer
	default:
		return models.RecommendationDecline
	}
}

func utilizationPercent(exposure models.AccountExposure) float64 {
	limits := sanitize(exposure.RevolvingLimits)
	if limits <= 0 {
		return 0
	}
	return clamp(sanitize(exposure.RevolvingBalance)/limits*100, 0, 100)
}

func dtiPercent(exposure models.AccountExposure, netMonthlyIncome float64) float64 {
	income := sanitize(netMonthlyIncome)
	if income <= 0 {
		return 0
	}
	return clamp(sanitize(exposure.TotalMonthlyInstallment)/income*100, 0, 100)
}
