// internal/engine/factors.go
package engine

import (
	"fmt"
	"math"

	"algolend-workers/internal/directory"
	"algolend-workers/internal/models"
)

// Each factor calculator is a pure function of its inputs. Missing or
// non-finite numeric inputs are sanitized to zero and the calculation
// continues; a partial score is more useful than a hard failure for
// optional signals. Calculators never return errors.

const requiredDeviceSignals = 2

// sanitize replaces NaN and infinities with zero.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// contribution builds a FactorContribution, clamping the normalized percent
// onto [0,100] and deriving the contribution from the policy weight.
func (p *Policy) contribution(key models.FactorKey, raw, normalized float64, detail string) models.FactorContribution {
	normalized = clamp(sanitize(normalized), 0, 100)
	weight := p.Weight(key)
	return models.FactorContribution{
		Key:                 key,
		RawValue:            sanitize(raw),
		NormalizedPercent:   normalized,
		WeightPercent:       weight,
		ContributionPercent: normalized * weight / 100,
		Detail:              detail,
	}
}

// creditScoreFactor maps a bureau score linearly onto [0,100] between the
// configured score bounds.
func (p *Policy) creditScoreFactor(score float64) models.FactorContribution {
	score = sanitize(score)
	normalized := (score - p.ScoreMin) / (p.ScoreMax - p.ScoreMin) * 100
	return p.contribution(models.FactorCreditScore, score, normalized, "")
}

// utilizationFactor scores revolving utilization. Higher utilization lowers
// the contribution. With no revolving limit reported the factor falls back
// to the configured neutral percent rather than penalizing the applicant.
func (p *Policy) utilizationFactor(revolvingBalance, revolvingLimits float64) models.FactorContribution {
	balance := sanitize(revolvingBalance)
	limits := sanitize(revolvingLimits)
	if limits <= 0 {
		return p.contribution(models.FactorCreditUtilization, 0, p.NeutralUtilization,
			"no revolving limit reported, neutral utilization assumed")
	}
	ratio := clamp(balance/limits*100, 0, 100)
	return p.contribution(models.FactorCreditUtilization, ratio, 100-ratio, "")
}

// adverseFactor is a decreasing step function of the adverse listing count.
func (p *Policy) adverseFactor(count int) models.FactorContribution {
	if count < 0 {
		count = 0
	}
	var normalized float64
	switch {
	case count == 0:
		normalized = 100
	case count == 1:
		normalized = 40
	case count == 2:
		normalized = 20
	default:
		normalized = 0
	}
	return p.contribution(models.FactorAdverseListings, float64(count), normalized, "")
}

// dtiFactor scores monthly debt service against net monthly income.
func (p *Policy) dtiFactor(monthlyDebt, netMonthlyIncome float64) models.FactorContribution {
	debt := sanitize(monthlyDebt)
	income := sanitize(netMonthlyIncome)
	if income <= 0 {
		return p.contribution(models.FactorDTI, 0, 0, "non-positive income, zero DTI credit")
	}
	ratio := clamp(debt/income*100, 0, 100)
	return p.contribution(models.FactorDTI, ratio, 100-ratio, "")
}

// tenureFactor saturates at the configured full-credit tenure.
func (p *Policy) tenureFactor(months float64) models.FactorContribution {
	m := sanitize(months)
	if m < 0 {
		m = 0
	}
	full := p.TenureFullMonths
	if full <= 0 {
		full = 24
	}
	normalized := clamp(m/full*100, 0, 100)
	return p.contribution(models.FactorEmploymentTenure, m, normalized, "")
}

// contractFactor is a fixed lookup over the canonical contract enumeration.
// Unrecognized tokens score zero.
func (p *Policy) contractFactor(ct models.ContractType) models.FactorContribution {
	normalized := ContractPercent(ct)
	return p.contribution(models.FactorContractType, normalized, normalized, string(ct))
}

// employerFactor translates the directory classification into a trust percent.
func (p *Policy) employerFactor(match directory.Match) models.FactorContribution {
	normalized := match.Tier.TrustPercent()
	detail := string(match.Tier)
	if match.Entry != nil {
		detail = fmt.Sprintf("%s: %s", match.Tier, match.Entry.DisplayName)
	}
	return p.contribution(models.FactorEmployerCategory, normalized, normalized, detail)
}

// incomeStabilityFactor is a heuristic over the income and expense pattern.
// It also produces a stability note carried on the score result.
func (p *Policy) incomeStabilityFactor(annualIncome, annualExpenses float64) (models.FactorContribution, string) {
	income := sanitize(annualIncome)
	expenses := sanitize(annualExpenses)
	if income <= 0 {
		c := p.contribution(models.FactorIncomeStability, 0, 0, "no income reported")
		return c, "no income reported"
	}

	surplusRatio := (income - expenses) / income
	var normalized float64
	var note string
	switch {
	case surplusRatio >= 0.65:
		normalized, note = 100, "strong income surplus"
	case surplusRatio >= 0.45:
		normalized, note = 80, "healthy income surplus"
	case surplusRatio >= 0.25:
		normalized, note = 55, "moderate income surplus"
	default:
		normalized, note = 30, "thin income surplus"
	}
	c := p.contribution(models.FactorIncomeStability, surplusRatio*100, normalized, note)
	return c, note
}

// deviceSignalsFactor credits the share of required device signals captured.
func (p *Policy) deviceSignalsFactor(captured int) models.FactorContribution {
	if captured < 0 {
		captured = 0
	}
	if captured > requiredDeviceSignals {
		captured = requiredDeviceSignals
	}
	normalized := float64(captured) / requiredDeviceSignals * 100
	return p.contribution(models.FactorDeviceSignals, float64(captured), normalized, "")
}
