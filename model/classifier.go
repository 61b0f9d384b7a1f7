// Package model loads pre-trained binary classifier artifacts and exposes
// them behind a small inference interface. Artifacts are produced by an
// external training pipeline, loaded once at startup, and never mutated;
// training itself is out of scope here.
package model

// Classifier is the inference surface over a loaded artifact.
type Classifier interface {
	// PredictProba returns per-class probabilities for a single feature
	// vector, negative class first: [P(class=0), P(class=1)].
	PredictProba(features []float64) ([]float64, error)

	// Predict returns the hard class label, 0 or 1.
	Predict(features []float64) (int, error)

	// Close releases any resources held by the backend.
	Close() error
}
