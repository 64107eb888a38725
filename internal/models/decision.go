// internal/models/decision.go
package models

// FactorKey identifies one of the eleven risk dimensions.
type FactorKey string

const (
	FactorCreditScore         FactorKey = "creditScore"
	FactorCreditUtilization   FactorKey = "creditUtilization"
	FactorAdverseListings     FactorKey = "adverseListings"
	FactorDTI                 FactorKey = "dti"
	FactorEmploymentTenure    FactorKey = "employmentTenure"
	FactorContractType        FactorKey = "contractType"
	FactorEmployerCategory    FactorKey = "employerCategory"
	FactorIncomeStability     FactorKey = "incomeStability"
	FactorRepaymentHistory    FactorKey = "repaymentHistory"
	FactorRetrievalConfidence FactorKey = "retrievalConfidence"
	FactorDeviceSignals       FactorKey = "deviceSignals"
)

// FactorOrder is the fixed evaluation and summation order. Keeping the order
// fixed keeps scores bit-reproducible for identical inputs.
var FactorOrder = []FactorKey{
	FactorCreditScore,
	FactorCreditUtilization,
	FactorAdverseListings,
	FactorDTI,
	FactorEmploymentTenure,
	FactorContractType,
	FactorEmployerCategory,
	FactorIncomeStability,
	FactorRepaymentHistory,
	FactorRetrievalConfidence,
	FactorDeviceSignals,
}

// FactorContribution is one factor's share of the score.
type FactorContribution struct {
	Key                 FactorKey `json:"key"`
	RawValue            float64   `json:"rawValue"`
	NormalizedPercent   float64   `json:"normalizedPercent"`
	WeightPercent       float64   `json:"weightPercent"`
	ContributionPercent float64   `json:"contributionPercent"`
	Detail              string    `json:"detail,omitempty"`
}

// Breakdown holds all eleven contributions with a fixed JSON field order.
type Breakdown struct {
	CreditScore         FactorContribution `json:"creditScore"`
	CreditUtilization   FactorContribution `json:"creditUtilization"`
	AdverseListings     FactorContribution `json:"adverseListings"`
	DTI                 FactorContribution `json:"dti"`
	EmploymentTenure    FactorContribution `json:"employmentTenure"`
	ContractType        FactorContribution `json:"contractType"`
	EmployerCategory    FactorContribution `json:"employerCategory"`
	IncomeStability     FactorContribution `json:"incomeStability"`
	RepaymentHistory    FactorContribution `json:"repaymentHistory"`
	RetrievalConfidence FactorContribution `json:"retrievalConfidence"`
	DeviceSignals       FactorContribution `json:"deviceSignals"`
}

// Get returns the contribution for a key.
func (b *Breakdown) Get(key FactorKey) FactorContribution {
	switch key {
	case FactorCreditScore:
		return b.CreditScore
	case FactorCreditUtilization:
		return b.CreditUtilization
	case FactorAdverseListings:
		return b.AdverseListings
	case FactorDTI:
		return b.DTI
	case FactorEmploymentTenure:
		return b.EmploymentTenure
	case FactorContractType:
		return b.ContractType
	case FactorEmployerCategory:
		return b.EmployerCategory
	case FactorIncomeStability:
		return b.IncomeStability
	case FactorRepaymentHistory:
		return b.RepaymentHistory
	case FactorRetrievalConfidence:
		return b.RetrievalConfidence
	case FactorDeviceSignals:
		return b.DeviceSignals
	}
	return FactorContribution{}
}

func (b *Breakdown) set(c FactorContribution) {
	switch c.Key {
	case FactorCreditScore:
		b.CreditScore = c
	case FactorCreditUtilization:
		b.CreditUtilization = c
	case FactorAdverseListings:
		b.AdverseListings = c
	case FactorDTI:
		b.DTI = c
	case FactorEmploymentTenure:
		b.EmploymentTenure = c
	case FactorContractType:
		b.ContractType = c
	case FactorEmployerCategory:
		b.EmployerCategory = c
	case FactorIncomeStability:
		b.IncomeStability = c
	case FactorRepaymentHistory:
		b.RepaymentHistory = c
	case FactorRetrievalConfidence:
		b.RetrievalConfidence = c
	case FactorDeviceSignals:
		b.DeviceSignals = c
	}
}

// Set stores a contribution under its key.
func (b *Breakdown) Set(c FactorContribution) { b.set(c) }

// Recommendation bands for the final decision.
const (
	RecommendationApprove = "APPROVE"
	RecommendationRefer   = "REFER"
	RecommendationDecline = "DECLINE"
)

// ScoreResult is the engine output for one applicant.
type ScoreResult struct {
	Breakdown       Breakdown `json:"breakdown"`
	RawScoreSum     float64   `json:"rawScoreSum"`
	TotalWeight     float64   `json:"totalWeight"`
	NormalizedScore float64   `json:"normalizedScore"`
	ReasonCodes     []string  `json:"reasonCodes"`
	Recommendation  string    `json:"recommendation"`
	StabilityNote   string    `json:"stabilityNote,omitempty"`
}

// Decision is the persisted outcome of a full orchestrated run.
type Decision struct {
	ID              string       `json:"id"`
	CorrelationID   string       `json:"correlationId"`
	IdentityNumber  string       `json:"identityNumber"`
	ApplicationID   string       `json:"applicationId"`
	NormalizedScore float64      `json:"normalizedScore"`
	Recommendation  string       `json:"recommendation"`
	ReasonCodes     []string     `json:"reasonCodes"`
	Result          *ScoreResult `json:"result,omitempty"`
	CreatedAt       string       `json:"createdAt"`
}
