// internal/engine/policy.go
package engine

import (
	"fmt"
	"math"

	"algolend-workers/internal/common/config"
	commonerrors "algolend-workers/internal/common/errors"
	"algolend-workers/internal/models"
)

// Policy is the fully resolved scoring configuration. It is immutable once
// built; a new Policy is constructed from config at startup and shared by
// every scoring call.
type Policy struct {
	TotalWeight        float64
	Weights            map[models.FactorKey]float64
	ScoreMin           float64
	ScoreMax           float64
	TenureFullMonths   float64
	NeutralUtilization float64
	ApproveAt          float64
	ReferAt            float64
}

// NewPolicy validates engine configuration and resolves it into a Policy.
// The weight table must cover every factor and sum exactly to the declared
// total. A mismatch is a startup error; scoring never begins on a policy
// that cannot reconcile to 100%.
func NewPolicy(cfg config.EngineConfig) (*Policy, error) {
	if cfg.TotalWeight <= 0 {
		return nil, commonerrors.NewWeightConfigError(
			fmt.Sprintf("total weight must be positive, got %v", cfg.TotalWeight))
	}
	if cfg.ScoreMax <= cfg.ScoreMin {
		return nil, commonerrors.NewWeightConfigError(
			fmt.Sprintf("score bounds invalid: min %v, max %v", cfg.ScoreMin, cfg.ScoreMax))
	}

	weights := make(map[models.FactorKey]float64, len(models.FactorOrder))
	var sum float64
	for _, key := range models.FactorOrder {
		w, ok := cfg.Weights[string(key)]
		if !ok {
			return nil, commonerrors.NewWeightConfigError(
				fmt.Sprintf("missing weight for factor %q", key))
		}
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, commonerrors.NewWeightConfigError(
				fmt.Sprintf("weight for factor %q must be a non-negative finite number, got %v", key, w))
		}
		weights[key] = w
		sum += w
	}
	for name := range cfg.Weights {
		if _, ok := weights[models.FactorKey(name)]; !ok {
			return nil, commonerrors.NewWeightConfigError(
				fmt.Sprintf("unknown factor %q in weight table", name))
		}
	}
	if math.Abs(sum-cfg.TotalWeight) > 1e-9 {
		return nil, commonerrors.NewWeightConfigError(
			fmt.Sprintf("factor weights sum to %v, expected %v", sum, cfg.TotalWeight))
	}

	return &Policy{
		TotalWeight:        cfg.TotalWeight,
		Weights:            weights,
		ScoreMin:           cfg.ScoreMin,
		ScoreMax:           cfg.ScoreMax,
		TenureFullMonths:   cfg.TenureFullMonths,
		NeutralUtilization: cfg.NeutralUtilization,
		ApproveAt:          cfg.ApproveAt,
		ReferAt:            cfg.ReferAt,
	}, nil
}

// Weight returns the configured weight for a factor key.
func (p *Policy) Weight(key models.FactorKey) float64 {
	return p.Weights[key]
}
