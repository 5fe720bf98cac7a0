package linking

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Classifier is the uniform predict() contract of spec §4.7. Every
// implementation shares a fixed, ordered feature-name list, which feature
// extraction treats as the authoritative schema: a feature is computed
// only if its name appears here.
type Classifier interface {
	Predict(features map[string]float64) (float64, error)
	FeatureNames() []string
}

// logisticWeights is the on-disk shape of a trained logistic-regression
// model: one coefficient per declared feature name, plus an intercept.
type logisticWeights struct {
	Features    []string           `json:"features"`
	Coefficient map[string]float64 `json:"coefficients"`
	Intercept   float64            `json:"intercept"`
}

// LogisticClassifier is a logistic regression over the declared feature
// schema: predict(x) = sigmoid(intercept + Σ coefficient_i · x_i).
type LogisticClassifier struct {
	weights logisticWeights
}

// LoadLogisticClassifier reads trained coefficients from a JSON file at
// path, in the shape {"features": [...], "coefficients": {...}, "intercept": 0}.
func LoadLogisticClassifier(path string) (*LogisticClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading classifier weights: %w", err)
	}
	var w logisticWeights
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parsing classifier weights: %w", err)
	}
	if len(w.Features) == 0 {
		return nil, fmt.Errorf("classifier weights declare no features")
	}
	for _, name := range w.Features {
		if _, ok := w.Coefficient[name]; !ok {
			return nil, fmt.Errorf("classifier weights missing coefficient for declared feature %q", name)
		}
	}
	return &LogisticClassifier{weights: w}, nil
}

func (lc *LogisticClassifier) FeatureNames() []string {
	return lc.weights.Features
}

func (lc *LogisticClassifier) Predict(features map[string]float64) (float64, error) {
	z := lc.weights.Intercept
	for _, name := range lc.weights.Features {
		z += lc.weights.Coefficient[name] * features[name]
	}
	return 1 / (1 + math.Exp(-z)), nil
}

// declaredFeatureSet turns a Classifier's FeatureNames list into a lookup
// set for feature-extraction gating.
func declaredFeatureSet(c Classifier) map[string]struct{} {
	names := c.FeatureNames()
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}
