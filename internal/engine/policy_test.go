// internal/engine/policy_test.go
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algolend-workers/internal/common/config"
	commonerrors "algolend-workers/internal/common/errors"
	"algolend-workers/internal/models"
)

func TestNewPolicy_Defaults(t *testing.T) {
	policy, err := NewPolicy(config.DefaultEngineConfig())
	require.NoError(t, err)

	assert.Equal(t, 70.0, policy.TotalWeight)
	assert.Len(t, policy.Weights, len(models.FactorOrder))

	var sum float64
	for _, key := range models.FactorOrder {
		sum += policy.Weight(key)
	}
	assert.InDelta(t, policy.TotalWeight, sum, 1e-9)
}

func TestNewPolicy_WeightSumMismatch(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	cfg.Weights["creditScore"] = 20 // sum is now 75, total stays 70

	_, err := NewPolicy(cfg)
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeWeightConfigInvalid, stdErr.Code)
	assert.False(t, stdErr.Retryable)
}

func TestNewPolicy_MissingFactor(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	delete(cfg.Weights, "deviceSignals")

	_, err := NewPolicy(cfg)
	assert.Error(t, err)
}

func TestNewPolicy_UnknownFactor(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	cfg.Weights["astrologicalSign"] = 0

	_, err := NewPolicy(cfg)
	assert.Error(t, err)
}

func TestNewPolicy_NegativeWeight(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	cfg.Weights["creditScore"] = -5

	_, err := NewPolicy(cfg)
	assert.Error(t, err)
}

func TestNewPolicy_InvalidBounds(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	cfg.ScoreMin = 850
	cfg.ScoreMax = 300

	_, err := NewPolicy(cfg)
	assert.Error(t, err)
}
