// internal/models/applicant.go
package models

// EmploymentSector is the declared employer sector of an applicant.
type EmploymentSector string

const (
	SectorGovernment EmploymentSector = "GOVERNMENT"
	SectorPrivate    EmploymentSector = "PRIVATE"
)

// ContractType is the canonical employment contract classification. Values
// outside the seven canonical members are carried through as opaque tokens
// and contribute nothing to the score.
type ContractType string

const (
	ContractPermanent            ContractType = "PERMANENT"
	ContractPermanentOnProbation ContractType = "PERMANENT_ON_PROBATION"
	ContractFixedTerm12Plus      ContractType = "FIXED_TERM_12_PLUS"
	ContractFixedTermLT12        ContractType = "FIXED_TERM_LT_12"
	ContractSelfEmployed12Plus   ContractType = "SELF_EMPLOYED_12_PLUS"
	ContractPartTime             ContractType = "PART_TIME"
	ContractUnemployedOrUnknown  ContractType = "UNEMPLOYED_OR_UNKNOWN"
)

// ApplicantInput is the raw request payload for a credit check, before
// validation and defaulting.
type ApplicantInput struct {
	IdentityNumber   string  `json:"identityNumber"`
	Forename         string  `json:"forename"`
	Surname          string  `json:"surname"`
	AnnualIncome     float64 `json:"annualIncome"`
	AnnualExpenses   float64 `json:"annualExpenses"`
	MonthsInJob      float64 `json:"monthsInCurrentJob"`
	ContractType     string  `json:"contractType"`
	EmploymentSector string  `json:"employmentSector"`
	EmployerName     string  `json:"employerName"`
	IsNewBorrower    bool    `json:"isNewBorrower"`
	IP               string  `json:"ip,omitempty"`
	UserAgent        string  `json:"userAgent,omitempty"`
}

// ApplicantRecord is the canonical, validated applicant. Built once per
// request and never mutated afterwards.
type ApplicantRecord struct {
	IdentityNumber   string           `json:"identityNumber"`
	Forename         string           `json:"forename"`
	Surname          string           `json:"surname"`
	DateOfBirth      string           `json:"dateOfBirth,omitempty"` // YYYYMMDD, derived from the ID number
	AnnualIncome     float64          `json:"annualIncome"`
	AnnualExpenses   float64          `json:"annualExpenses"`
	NetMonthlyIncome float64          `json:"netMonthlyIncome"`
	MonthsInJob      float64          `json:"monthsInCurrentJob"`
	ContractType     ContractType     `json:"contractType"`
	EmploymentSector EmploymentSector `json:"employmentSector"`
	EmployerName     string           `json:"employerName"`
	IsNewBorrower    bool             `json:"isNewBorrower"`
	IP               string           `json:"ip,omitempty"`
	UserAgent        string           `json:"userAgent,omitempty"`
}

// DeviceSignalsCaptured counts the fraud signals present on the record.
func (r *ApplicantRecord) DeviceSignalsCaptured() int {
	captured := 0
	if r.IP != "" {
		captured++
	}
	if r.UserAgent != "" {
		captured++
	}
	return captured
}
