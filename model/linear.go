package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Scaler holds standardization parameters saved by the training pipeline.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// linearArtifact is the on-disk JSON form of a logistic-regression model.
// feature_names is the exact column order the model was trained on and is
// checked against the serving-side feature schema at load time.
type linearArtifact struct {
	SchemaVersion int       `json:"schema_version"`
	ModelType     string    `json:"model_type"`
	FeatureNames  []string  `json:"feature_names"`
	Coefficients  []float64 `json:"coefficients"`
	Intercept     float64   `json:"intercept"`
	Scaler        *Scaler   `json:"scaler,omitempty"`
}

// LinearClassifier evaluates a logistic-regression artifact natively.
//
// WARNING: the training pipeline saves a feature scaler next to the model,
// and this loader accepts it, but the serving path does NOT apply it before
// inference; inputs go into the raw weights exactly as encoded. That
// matches the original serving behavior this service replaces, and is very
// likely a training/serving mismatch. Do not "fix" it here without first
// confirming whether the stored weights were fit on scaled or raw features;
// applying the scaler to a model fit on raw features would break it the
// other way. Tracked at startup with a warning log.
type LinearClassifier struct {
	featureNames []string
	coefficients []float64
	intercept    float64
	scaler       *Scaler
}

// LoadLinearClassifier reads and validates a logistic-regression artifact.
// expectedFeatures is the serving-side feature order; the artifact must
// list exactly the same names in the same positions.
func LoadLinearClassifier(path string, expectedFeatures []string) (*LinearClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var art linearArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}

	if art.ModelType != "" && art.ModelType != "logistic_regression" {
		return nil, fmt.Errorf("unsupported model type %q", art.ModelType)
	}
	if len(art.Coefficients) != len(art.FeatureNames) {
		return nil, fmt.Errorf("artifact has %d coefficients for %d features",
			len(art.Coefficients), len(art.FeatureNames))
	}
	if err := validateFeatureNames(art.FeatureNames, expectedFeatures); err != nil {
		return nil, err
	}
	if art.Scaler != nil {
		if len(art.Scaler.Mean) != len(art.FeatureNames) || len(art.Scaler.Scale) != len(art.FeatureNames) {
			return nil, fmt.Errorf("scaler dimensions do not match %d features", len(art.FeatureNames))
		}
	}

	return &LinearClassifier{
		featureNames: art.FeatureNames,
		coefficients: art.Coefficients,
		intercept:    art.Intercept,
		scaler:       art.Scaler,
	}, nil
}

// HasScaler reports whether a scaler was present in the artifact. It is
// retained for inspection but not applied; see the type comment.
func (c *LinearClassifier) HasScaler() bool {
	return c.scaler != nil
}

// SetScaler attaches a scaler loaded from a sidecar file. Dimensions must
// match the model's feature count.
func (c *LinearClassifier) SetScaler(s *Scaler) error {
	if s == nil {
		return nil
	}
	if len(s.Mean) != len(c.coefficients) || len(s.Scale) != len(c.coefficients) {
		return fmt.Errorf("scaler dimensions do not match %d features", len(c.coefficients))
	}
	c.scaler = s
	return nil
}

// PredictProba computes [1-p, p] with p = sigmoid(intercept + w.x).
func (c *LinearClassifier) PredictProba(features []float64) ([]float64, error) {
	if len(features) != len(c.coefficients) {
		return nil, fmt.Errorf("feature vector has %d values, model expects %d",
			len(features), len(c.coefficients))
	}

	// The scaler is intentionally not applied; see the type comment.
	z := c.intercept
	for i, w := range c.coefficients {
		z += w * features[i]
	}
	p := 1 / (1 + math.Exp(-z))
	return []float64{1 - p, p}, nil
}

// Predict thresholds the positive-class probability at 0.5.
func (c *LinearClassifier) Predict(features []float64) (int, error) {
	probs, err := c.PredictProba(features)
	if err != nil {
		return 0, err
	}
	if probs[1] >= 0.5 {
		return 1, nil
	}
	return 0, nil
}

// Close is a no-op; the linear backend holds no external resources.
func (c *LinearClassifier) Close() error {
	return nil
}

// validateFeatureNames checks the artifact's column order against the
// serving schema, name by name, so a drifted artifact fails loudly at
// startup instead of silently mis-mapping columns.
func validateFeatureNames(artifact, expected []string) error {
	if len(artifact) != len(expected) {
		return fmt.Errorf("artifact trained on %d features, serving schema has %d",
			len(artifact), len(expected))
	}
	for i, name := range expected {
		if artifact[i] != name {
			return fmt.Errorf("feature %d: artifact has %q, serving schema has %q",
				i, artifact[i], name)
		}
	}
	return nil
}
