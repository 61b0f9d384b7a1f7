package screening

// AnswerSet is the decoded questionnaire submission: one raw token per
// question key. It lives for a single request and is never persisted.
type AnswerSet map[string]string

// Answer tokens accepted by the questionnaire.
const (
	TokenYes    = "yes"
	TokenNo     = "no"
	TokenNA     = "na"
	TokenUnsure = "unsure"
)

// Recommendation is a single advisory message shown with a prediction.
// Content is static copy selected by trigger conditions, not derived
// from the model output.
type Recommendation struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// RiskBand is the categorical label derived from the positive-class
// probability, with the display color the client renders it in.
type RiskBand struct {
	Category string
	Color    string
}

// Risk bands and their thresholds (percentage points of positive-class
// probability). A percentage below LowRiskMax is low, below MediumRiskMax
// medium, anything else at-risk.
const (
	LowRiskMax    = 30.0
	MediumRiskMax = 70.0
)

var (
	bandLow    = RiskBand{Category: "Low Risk", Color: "#00d97e"}
	bandMedium = RiskBand{Category: "Medium Risk", Color: "#ffc107"}
	bandAtRisk = RiskBand{Category: "At Risk", Color: "#dc3545"}
)

// BandFor classifies a risk percentage (probability x 100, unrounded)
// into its band.
func BandFor(percentage float64) RiskBand {
	switch {
	case percentage < LowRiskMax:
		return bandLow
	case percentage < MediumRiskMax:
		return bandMedium
	default:
		return bandAtRisk
	}
}

// PredictionResult is the full outcome of one screening prediction.
type PredictionResult struct {
	Probability     float64
	RiskPercentage  float64 // probability x 100, rounded to one decimal
	Category        string
	Color           string
	Prediction      int
	Recommendations []Recommendation
}
