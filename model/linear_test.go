package model

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeArtifact(t *testing.T, art linearArtifact) string {
	t.Helper()
	data, err := json.Marshal(art)
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func TestLoadLinearClassifier(t *testing.T) {
	features := []string{"alpha", "beta"}
	path := writeArtifact(t, linearArtifact{
		SchemaVersion: 1,
		ModelType:     "logistic_regression",
		FeatureNames:  features,
		Coefficients:  []float64{0.5, -0.25},
		Intercept:     0.1,
	})

	clf, err := LoadLinearClassifier(path, features)
	if err != nil {
		t.Fatalf("LoadLinearClassifier() failed: %v", err)
	}
	if clf.HasScaler() {
		t.Error("HasScaler() = true for an artifact without one")
	}
}

func TestLoadLinearClassifierRejections(t *testing.T) {
	features := []string{"alpha", "beta"}

	testCases := []struct {
		name     string
		artifact linearArtifact
		wantErr  string
	}{
		{
			name: "unsupported model type",
			artifact: linearArtifact{
				ModelType:    "random_forest",
				FeatureNames: features,
				Coefficients: []float64{1, 2},
			},
			wantErr: "unsupported model type",
		},
		{
			name: "coefficient count mismatch",
			artifact: linearArtifact{
				ModelType:    "logistic_regression",
				FeatureNames: features,
				Coefficients: []float64{1},
			},
			wantErr: "coefficients",
		},
		{
			name: "feature count mismatch",
			artifact: linearArtifact{
				ModelType:    "logistic_regression",
				FeatureNames: []string{"alpha"},
				Coefficients: []float64{1},
			},
			wantErr: "serving schema",
		},
		{
			name: "feature order drift",
			artifact: linearArtifact{
				ModelType:    "logistic_regression",
				FeatureNames: []string{"beta", "alpha"},
				Coefficients: []float64{1, 2},
			},
			wantErr: "serving schema",
		},
		{
			name: "scaler dimension mismatch",
			artifact: linearArtifact{
				ModelType:    "logistic_regression",
				FeatureNames: features,
				Coefficients: []float64{1, 2},
				Scaler:       &Scaler{Mean: []float64{0}, Scale: []float64{1}},
			},
			wantErr: "scaler dimensions",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeArtifact(t, tc.artifact)
			_, err := LoadLinearClassifier(path, features)
			if err == nil {
				t.Fatal("LoadLinearClassifier() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadLinearClassifierMissingFile(t *testing.T) {
	_, err := LoadLinearClassifier(filepath.Join(t.TempDir(), "absent.json"), nil)
	if err == nil {
		t.Fatal("LoadLinearClassifier() succeeded on a missing file, want error")
	}
}

func TestLinearPredictProba(t *testing.T) {
	clf := &LinearClassifier{
		featureNames: []string{"alpha", "beta"},
		coefficients: []float64{1.0, -2.0},
		intercept:    0.5,
	}

	// z = 0.5 + 1.0*1 - 2.0*0.5 = 0.5
	probs, err := clf.PredictProba([]float64{1, 0.5})
	if err != nil {
		t.Fatalf("PredictProba() failed: %v", err)
	}
	if len(probs) != 2 {
		t.Fatalf("PredictProba() returned %d probabilities, want 2", len(probs))
	}
	wantP := 1 / (1 + math.Exp(-0.5))
	if math.Abs(probs[1]-wantP) > 1e-12 {
		t.Errorf("positive probability = %v, want %v", probs[1], wantP)
	}
	if math.Abs(probs[0]+probs[1]-1) > 1e-12 {
		t.Errorf("probabilities sum to %v, want 1", probs[0]+probs[1])
	}

	if _, err := clf.PredictProba([]float64{1}); err == nil {
		t.Error("PredictProba() accepted a short feature vector, want error")
	}
}

func TestLinearPredictThreshold(t *testing.T) {
	clf := &LinearClassifier{
		featureNames: []string{"alpha"},
		coefficients: []float64{1.0},
	}

	testCases := []struct {
		feature float64
		want    int
	}{
		{-1, 0}, // sigmoid(-1) < 0.5
		{0, 1},  // sigmoid(0) = 0.5, threshold is inclusive
		{1, 1},
	}

	for _, tc := range testCases {
		got, err := clf.Predict([]float64{tc.feature})
		if err != nil {
			t.Fatalf("Predict(%v) failed: %v", tc.feature, err)
		}
		if got != tc.want {
			t.Errorf("Predict(%v) = %d, want %d", tc.feature, got, tc.want)
		}
	}
}

// TestScalerIsNotApplied pins the serving behavior: predictions over raw
// features are identical with and without an attached scaler.
func TestScalerIsNotApplied(t *testing.T) {
	clf := &LinearClassifier{
		featureNames: []string{"alpha", "beta"},
		coefficients: []float64{0.7, -0.3},
		intercept:    0.2,
	}
	features := []float64{1, 0.5}

	before, err := clf.PredictProba(features)
	if err != nil {
		t.Fatalf("PredictProba() failed: %v", err)
	}

	if err := clf.SetScaler(&Scaler{Mean: []float64{10, 20}, Scale: []float64{3, 4}}); err != nil {
		t.Fatalf("SetScaler() failed: %v", err)
	}
	if !clf.HasScaler() {
		t.Fatal("HasScaler() = false after SetScaler")
	}

	after, err := clf.PredictProba(features)
	if err != nil {
		t.Fatalf("PredictProba() failed: %v", err)
	}
	if before[1] != after[1] {
		t.Errorf("attaching a scaler changed the prediction: %v vs %v", before[1], after[1])
	}
}

func TestSetScalerRejectsWrongDimensions(t *testing.T) {
	clf := &LinearClassifier{
		featureNames: []string{"alpha", "beta"},
		coefficients: []float64{1, 2},
	}
	if err := clf.SetScaler(&Scaler{Mean: []float64{0}, Scale: []float64{1}}); err == nil {
		t.Fatal("SetScaler() accepted mismatched dimensions, want error")
	}
}
