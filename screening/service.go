package screening

import (
	"errors"
	"fmt"
	"math"
)

// ErrModelUnavailable is returned when a prediction is attempted without a
// loaded classifier. The message text is part of the HTTP contract and is
// surfaced to clients verbatim.
var ErrModelUnavailable = errors.New("Model not loaded")

// Classifier is the inference surface the service needs from a loaded
// model artifact.
type Classifier interface {
	// PredictProba returns per-class probabilities for one feature vector,
	// negative class first.
	PredictProba(features []float64) ([]float64, error)

	// Predict returns the hard class label, 0 or 1, for one feature vector.
	Predict(features []float64) (int, error)
}

// Advisor selects the advisory messages to show alongside a prediction.
type Advisor interface {
	Advise(answers AnswerSet) []Recommendation
}

// Service runs the screening flow: encode, infer, band, recommend. The
// classifier and advisor are injected at construction and treated as
// read-only for the life of the process; the service itself keeps no state
// across requests.
type Service struct {
	classifier Classifier
	advisor    Advisor
}

// NewService creates a screening service. A nil classifier is allowed and
// degrades every prediction to ErrModelUnavailable, matching a startup where
// the model artifact could not be loaded.
func NewService(classifier Classifier, advisor Advisor) *Service {
	return &Service{
		classifier: classifier,
		advisor:    advisor,
	}
}

// ModelAvailable reports whether predictions can currently succeed.
func (s *Service) ModelAvailable() bool {
	return s.classifier != nil
}

// Predict runs one screening prediction over the submitted answers.
func (s *Service) Predict(answers AnswerSet) (*PredictionResult, error) {
	if s.classifier == nil {
		return nil, ErrModelUnavailable
	}

	features := Encode(answers)

	probs, err := s.classifier.PredictProba(features)
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	if len(probs) != 2 {
		return nil, fmt.Errorf("classifier returned %d class probabilities, want 2", len(probs))
	}
	probability := probs[1]

	prediction, err := s.classifier.Predict(features)
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	// Banding uses the unrounded percentage; rounding is display-only.
	percentage := probability * 100
	band := BandFor(percentage)

	var recommendations []Recommendation
	if s.advisor != nil {
		recommendations = s.advisor.Advise(answers)
	}
	if recommendations == nil {
		recommendations = []Recommendation{}
	}

	return &PredictionResult{
		Probability:     probability,
		RiskPercentage:  math.Round(percentage*10) / 10,
		Category:        band.Category,
		Color:           band.Color,
		Prediction:      prediction,
		Recommendations: recommendations,
	}, nil
}
