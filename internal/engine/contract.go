// internal/engine/contract.go
package engine

import (
	"strings"

	"algolend-workers/internal/models"
)

// contractAliases resolves free-text contract descriptions onto the seven
// canonical contract types. The alias set is deliberately a flat table so
// the full set of recognized inputs stays auditable.
var contractAliases = map[string]models.ContractType{
	"PERMANENT":                    models.ContractPermanent,
	"PERMANENT_EMPLOYEE":           models.ContractPermanent,
	"FULL_TIME":                    models.ContractPermanent,
	"PROBATION":                    models.ContractPermanentOnProbation,
	"PERMANENT_ON_PROBATION":       models.ContractPermanentOnProbation,
	"FIXED_TERM":                   models.ContractFixedTermLT12,
	"FIXED_TERM_12_PLUS":           models.ContractFixedTerm12Plus,
	"FIXED_TERM_12_MONTHS":         models.ContractFixedTerm12Plus,
	"FIXED_TERM_12_MONTHS_PLUS":    models.ContractFixedTerm12Plus,
	"FIXED_TERM_LT_12":             models.ContractFixedTermLT12,
	"FIXED_TERM_LT_12_MONTHS":      models.ContractFixedTermLT12,
	"FIXED_TERM_UNDER_12":          models.ContractFixedTermLT12,
	"FIXED_TERM_UNDER_12_MONTHS":   models.ContractFixedTermLT12,
	"SELF_EMPLOYED":                models.ContractSelfEmployed12Plus,
	"SELF_EMPLOYED_12_PLUS":        models.ContractSelfEmployed12Plus,
	"SELF_EMPLOYED_12_MONTHS_PLUS": models.ContractSelfEmployed12Plus,
	"CONTRACTOR":                   models.ContractFixedTermLT12,
	"PART_TIME":                    models.ContractPartTime,
	"PARTTIME":                     models.ContractPartTime,
	"PART_TIME_EMPLOYEE":           models.ContractPartTime,
	"UNEMPLOYED":                   models.ContractUnemployedOrUnknown,
	"UNKNOWN":                      models.ContractUnemployedOrUnknown,
	"UNEMPLOYED_OR_UNKNOWN":        models.ContractUnemployedOrUnknown,
}

// contractPercents is the fixed lookup from canonical contract type to
// factor percentage. Unrecognized tokens score zero, same as unemployed.
var contractPercents = map[models.ContractType]float64{
	models.ContractPermanent:            100,
	models.ContractPermanentOnProbation: 70,
	models.ContractFixedTerm12Plus:      80,
	models.ContractFixedTermLT12:        55,
	models.ContractSelfEmployed12Plus:   65,
	models.ContractPartTime:             35,
	models.ContractUnemployedOrUnknown:  0,
}

// NormalizeContractType maps any input string onto a contract type. The
// function is total: recognized aliases resolve to a canonical member,
// everything else passes through as an opaque token that downstream lookups
// treat as zero-contribution.
func NormalizeContractType(value string) models.ContractType {
	token := canonicalToken(value)
	if token == "" {
		return models.ContractUnemployedOrUnknown
	}
	if canonical, ok := contractAliases[token]; ok {
		return canonical
	}
	return models.ContractType(token)
}

// ContractPercent returns the score percentage for a contract type.
func ContractPercent(ct models.ContractType) float64 {
	return contractPercents[ct]
}

// canonicalToken uppercases and collapses runs of non-alphanumerics to a
// single underscore, trimming leading and trailing underscores.
func canonicalToken(value string) string {
	upper := strings.ToUpper(strings.TrimSpace(value))

	var b strings.Builder
	b.Grow(len(upper))
	lastUnderscore := false
	for _, r := range upper {
		alnum := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if alnum {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}

	return strings.Trim(b.String(), "_")
}
