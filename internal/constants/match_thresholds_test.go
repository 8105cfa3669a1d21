package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultMatchThresholds(t *testing.T) {
	t.Run("Constants have expected values", func(t *testing.T) {
		assert.Equal(t, 0.75, DefaultAliasThreshold)
		assert.Equal(t, 3, DefaultMaxSequenceDelta)
		assert.Equal(t, 2, DefaultMinParameterBound)
		assert.Equal(t, 5, DefaultParameterSlackNumerator)
		assert.Equal(t, 3, DefaultParameterSlackDenominator)
	})

	t.Run("Alias threshold is within the combined score range", func(t *testing.T) {
		assert.Greater(t, DefaultAliasThreshold, 0.0)
		assert.Less(t, DefaultAliasThreshold, DefaultMaxCombinedScore)
	})

	t.Run("Slack never shrinks the reference budget", func(t *testing.T) {
		assert.GreaterOrEqual(t, DefaultParameterSlackNumerator, DefaultParameterSlackDenominator)
	})
}

func TestKeywordSets(t *testing.T) {
	assert.Len(t, ControlKeywords, 11)
	for _, kw := range BranchKeywords {
		assert.Contains(t, ControlKeywords, kw, "branch keyword %q must be a control keyword", kw)
	}
}
