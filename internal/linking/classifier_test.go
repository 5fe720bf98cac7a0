package linking

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWeights(t *testing.T, json string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.json")
	require.NoError(t, os.WriteFile(path, []byte(json), 0o644))
	return path
}

func TestLoadLogisticClassifierMissingCoefficientErrors(t *testing.T) {
	path := writeWeights(t, `{"features": ["a", "b"], "coefficients": {"a": 1.0}, "intercept": 0}`)
	_, err := LoadLogisticClassifier(path)
	assert.Error(t, err)
}

func TestLoadLogisticClassifierNoFeaturesErrors(t *testing.T) {
	path := writeWeights(t, `{"features": [], "coefficients": {}, "intercept": 0}`)
	_, err := LoadLogisticClassifier(path)
	assert.Error(t, err)
}

// Scenario: a predicted probability of 0.42 falls below the 0.5 acceptance
// threshold, so the classifier's own output must stay under MIN_PROB.
func TestLogisticClassifierPredictBelowThreshold(t *testing.T) {
	path := writeWeights(t, `{"features": ["match_str_pref_exact"], "coefficients": {"match_str_pref_exact": 0.0}, "intercept": -0.32}`)
	lc, err := LoadLogisticClassifier(path)
	require.NoError(t, err)

	p, err := lc.Predict(map[string]float64{"match_str_pref_exact": 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.42, p, 0.01)
	assert.Less(t, p, 0.5)
}

func TestLogisticClassifierPredictUsesOnlyDeclaredFeatures(t *testing.T) {
	path := writeWeights(t, `{"features": ["a"], "coefficients": {"a": 10.0}, "intercept": 0}`)
	lc, err := LoadLogisticClassifier(path)
	require.NoError(t, err)

	p, err := lc.Predict(map[string]float64{"a": 1, "b": 1000})
	require.NoError(t, err)
	assert.Greater(t, p, 0.99)
}

func TestDeclaredFeatureSet(t *testing.T) {
	path := writeWeights(t, `{"features": ["a", "b"], "coefficients": {"a": 1, "b": 1}, "intercept": 0}`)
	lc, err := LoadLogisticClassifier(path)
	require.NoError(t, err)

	set := declaredFeatureSet(lc)
	assert.Contains(t, set, "a")
	assert.Contains(t, set, "b")
	assert.NotContains(t, set, "c")
}
