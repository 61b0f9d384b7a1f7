package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cogniscreen/cogniscreen/internal/logger"
)

// Artifact filenames searched under the configured model directory.
const (
	onnxArtifactName   = "model.onnx"
	linearArtifactName = "model.json"
	scalerArtifactName = "scaler.json"
)

// Config controls artifact discovery at startup.
type Config struct {
	// Dir is the directory holding the model artifacts.
	Dir string

	// OnnxLibrary optionally points at the onnxruntime shared library.
	OnnxLibrary string
}

// Load locates and loads the classifier artifact: model.onnx takes
// precedence, then model.json. featureNames is the serving-side column
// order the artifact is validated against. A missing or invalid artifact
// returns an error; callers treat that as a degraded start, not a fatal
// one. The service keeps running and answers predictions with a 500.
func Load(cfg Config, featureNames []string) (Classifier, error) {
	onnxPath := filepath.Join(cfg.Dir, onnxArtifactName)
	if _, err := os.Stat(onnxPath); err == nil {
		clf, err := LoadOnnxClassifier(onnxPath, cfg.OnnxLibrary, len(featureNames))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", onnxArtifactName, err)
		}
		logger.Info("classifier loaded", "backend", "onnx", "path", onnxPath)
		return clf, nil
	}

	linearPath := filepath.Join(cfg.Dir, linearArtifactName)
	clf, err := LoadLinearClassifier(linearPath, featureNames)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", linearArtifactName, err)
	}

	// An absent scaler is tolerated silently; a present one is loaded for
	// inspection but deliberately left unapplied. See LinearClassifier.
	if !clf.HasScaler() {
		if scaler, err := loadScaler(filepath.Join(cfg.Dir, scalerArtifactName)); err == nil {
			if err := clf.SetScaler(scaler); err != nil {
				return nil, fmt.Errorf("load %s: %w", scalerArtifactName, err)
			}
		}
	}
	if clf.HasScaler() {
		logger.Warn("scaler artifact loaded but NOT applied at inference time; " +
			"verify against the training pipeline before enabling scaling")
	}

	logger.Info("classifier loaded", "backend", "linear", "path", linearPath)
	return clf, nil
}

// loadScaler reads a sidecar scaler artifact.
func loadScaler(path string) (*Scaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scaler
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scaler artifact: %w", err)
	}
	return &s, nil
}
