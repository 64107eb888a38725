// internal/engine/reasons.go
package engine

// Reason codes re-check fixed business thresholds against the raw inputs,
// not against factor contributions, so the explanations stay interpretable
// in business terms. They never feed back into the score.

const (
	ReasonLowCreditScore  = "Low credit score"
	ReasonHighUtilization = "High credit utilization"
	ReasonAdverseListings = "Adverse listings present"
	ReasonHighDTI         = "High debt-to-income ratio"
	ReasonShortTenure     = "Short employment tenure"
)

const (
	reasonScoreFloor       = 580
	reasonUtilizationLimit = 75
	reasonDTILimit         = 50
	reasonTenureFloor      = 6
)

type reasonInputs struct {
	CreditScore        float64
	UtilizationPercent float64
	AdverseCount       int
	DTIPercent         float64
	TenureMonths       float64
}

// generateReasons evaluates the thresholds in a fixed order. An empty slice
// means no adverse signals; the slice is always non-nil for stable JSON.
func generateReasons(in reasonInputs) []string {
	reasons := []string{}
	if in.CreditScore < reasonScoreFloor {
		reasons = append(reasons, ReasonLowCreditScore)
	}
	if in.UtilizationPercent > reasonUtilizationLimit {
		reasons = append(reasons, ReasonHighUtilization)
	}
	if in.AdverseCount > 0 {
		reasons = append(reasons, ReasonAdverseListings)
	}
	if in.DTIPercent > reasonDTILimit {
		reasons = append(reasons, ReasonHighDTI)
	}
	if in.TenureMonths < reasonTenureFloor {
		reasons = append(reasons, ReasonShortTenure)
	}
	return reasons
}
