// internal/models/bureau.go
package models

// AccountExposure aggregates open-account balances and limits from a bureau
// report. Absent fields unmarshal to zero, which the engine treats as
// neutral rather than an error.
type AccountExposure struct {
	TotalBalance            float64 `json:"totalBalance"`
	TotalLimits             float64 `json:"totalLimits"`
	RevolvingBalance        float64 `json:"revolvingBalance"`
	RevolvingLimits         float64 `json:"revolvingLimits"`
	TotalMonthlyInstallment float64 `json:"totalMonthlyInstallments"`
}

// EmploymentEntry is one employer occurrence in the bureau employment
// history.
type EmploymentEntry struct {
	EmployerName string `json:"employerName"`
	Occupation   string `json:"occupation,omitempty"`
	FirstSeen    string `json:"firstSeen,omitempty"`
	LastSeen     string `json:"lastSeen,omitempty"`
}

// BureauReport is the externally supplied credit report. Read-only input to
// the engine.
type BureauReport struct {
	IdentityNumber    string            `json:"identityNumber"`
	CreditScore       float64           `json:"creditScore"`
	Exposure          AccountExposure   `json:"exposure"`
	AdverseCount      int               `json:"adverseCount"`
	EmploymentHistory []EmploymentEntry `json:"employmentHistory,omitempty"`
	Provider          string            `json:"provider,omitempty"`
	ReportDate        string            `json:"reportDate,omitempty"`
}
