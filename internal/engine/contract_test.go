// internal/engine/contract_test.go
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"algolend-workers/internal/models"
)

func TestNormalizeContractType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  models.ContractType
	}{
		{name: "canonical passes through", input: "PERMANENT", want: models.ContractPermanent},
		{name: "full time alias", input: "FULL_TIME", want: models.ContractPermanent},
		{name: "lowercase with spaces", input: "full time", want: models.ContractPermanent},
		{name: "contractor alias", input: "CONTRACTOR", want: models.ContractFixedTermLT12},
		{name: "parttime one word", input: "parttime", want: models.ContractPartTime},
		{name: "hyphenated part-time", input: "part-time", want: models.ContractPartTime},
		{name: "probation", input: "Probation", want: models.ContractPermanentOnProbation},
		{name: "fixed term defaults short", input: "fixed term", want: models.ContractFixedTermLT12},
		{name: "fixed term 12 months plus", input: "Fixed Term (12 months+)", want: models.ContractFixedTerm12Plus},
		{name: "self employed", input: "self-employed", want: models.ContractSelfEmployed12Plus},
		{name: "unemployed", input: "unemployed", want: models.ContractUnemployedOrUnknown},
		{name: "empty maps to unknown", input: "", want: models.ContractUnemployedOrUnknown},
		{name: "whitespace only maps to unknown", input: "   ", want: models.ContractUnemployedOrUnknown},
		{name: "unknown token passes through", input: "GIG_WORKER", want: models.ContractType("GIG_WORKER")},
		{name: "punctuation collapses to underscore", input: "gig  worker!!", want: models.ContractType("GIG_WORKER")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeContractType(tt.input))
		})
	}
}

func TestContractPercent(t *testing.T) {
	assert.Equal(t, 100.0, ContractPercent(models.ContractPermanent))
	assert.Equal(t, 70.0, ContractPercent(models.ContractPermanentOnProbation))
	assert.Equal(t, 80.0, ContractPercent(models.ContractFixedTerm12Plus))
	assert.Equal(t, 55.0, ContractPercent(models.ContractFixedTermLT12))
	assert.Equal(t, 65.0, ContractPercent(models.ContractSelfEmployed12Plus))
	assert.Equal(t, 35.0, ContractPercent(models.ContractPartTime))
	assert.Equal(t, 0.0, ContractPercent(models.ContractUnemployedOrUnknown))

	// tokens outside the enumeration score zero
	assert.Equal(t, 0.0, ContractPercent(models.ContractType("GIG_WORKER")))
}
