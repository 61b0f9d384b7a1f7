package model

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNX graph output names produced by the training pipeline's exporter.
// The graph must be exported with zipmap disabled so probabilities come
// back as a plain float tensor, not a sequence of maps.
const (
	onnxOutputLabel = "label"
	onnxOutputProba = "probabilities"
)

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// initRuntime initializes the onnxruntime environment once per process.
func initRuntime(libraryPath string) error {
	ortInitOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// OnnxClassifier runs inference through an onnxruntime session over an
// exported classifier graph taking a single [1,n] float32 input.
type OnnxClassifier struct {
	session *ort.DynamicAdvancedSession
	width   int
	mu      sync.Mutex
}

// LoadOnnxClassifier opens an ONNX artifact and validates its input width
// against the serving-side feature count. libraryPath optionally points at
// the onnxruntime shared library; leave it empty to use the default lookup.
func LoadOnnxClassifier(path, libraryPath string, featureCount int) (*OnnxClassifier, error) {
	if err := initRuntime(libraryPath); err != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %w", err)
	}

	inputs, _, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("inspect model artifact: %w", err)
	}
	if len(inputs) != 1 {
		return nil, fmt.Errorf("model has %d inputs, want 1", len(inputs))
	}

	dims := inputs[0].Dimensions
	if len(dims) == 0 {
		return nil, fmt.Errorf("model input %q has no dimensions", inputs[0].Name)
	}
	// The batch dimension is usually dynamic (-1); only the feature width
	// is part of the serving contract.
	width := int(dims[len(dims)-1])
	if width > 0 && width != featureCount {
		return nil, fmt.Errorf("model expects %d features, serving schema has %d", width, featureCount)
	}

	session, err := ort.NewDynamicAdvancedSession(path,
		[]string{inputs[0].Name},
		[]string{onnxOutputLabel, onnxOutputProba},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &OnnxClassifier{
		session: session,
		width:   featureCount,
	}, nil
}

// run executes one single-row inference, returning the per-class
// probabilities and the hard label.
func (c *OnnxClassifier) run(features []float64) ([]float64, int, error) {
	if len(features) != c.width {
		return nil, 0, fmt.Errorf("feature vector has %d values, model expects %d",
			len(features), c.width)
	}

	row := make([]float32, len(features))
	for i, v := range features {
		row[i] = float32(v)
	}

	input, err := ort.NewTensor(ort.NewShape(1, int64(len(row))), row)
	if err != nil {
		return nil, 0, fmt.Errorf("create input tensor: %w", err)
	}
	defer input.Destroy()

	// nil entries let the runtime allocate the output tensors.
	outputs := []ort.Value{nil, nil}

	c.mu.Lock()
	err = c.session.Run([]ort.Value{input}, outputs)
	c.mu.Unlock()
	if err != nil {
		return nil, 0, fmt.Errorf("run inference: %w", err)
	}
	defer func() {
		for _, out := range outputs {
			if out != nil {
				out.Destroy()
			}
		}
	}()

	labels, ok := outputs[0].(*ort.Tensor[int64])
	if !ok {
		return nil, 0, fmt.Errorf("unexpected type for %q output", onnxOutputLabel)
	}
	probTensor, ok := outputs[1].(*ort.Tensor[float32])
	if !ok {
		return nil, 0, fmt.Errorf("unexpected type for %q output", onnxOutputProba)
	}

	raw := probTensor.GetData()
	if len(raw) < 2 {
		return nil, 0, fmt.Errorf("model returned %d class probabilities, want 2", len(raw))
	}
	probs := make([]float64, 2)
	probs[0] = float64(raw[0])
	probs[1] = float64(raw[1])

	labelData := labels.GetData()
	if len(labelData) == 0 {
		return nil, 0, fmt.Errorf("model returned no label")
	}

	return probs, int(labelData[0]), nil
}

// PredictProba implements Classifier.
func (c *OnnxClassifier) PredictProba(features []float64) ([]float64, error) {
	probs, _, err := c.run(features)
	return probs, err
}

// Predict implements Classifier.
func (c *OnnxClassifier) Predict(features []float64) (int, error) {
	_, label, err := c.run(features)
	return label, err
}

// Close destroys the underlying session.
func (c *OnnxClassifier) Close() error {
	if c.session == nil {
		return nil
	}
	err := c.session.Destroy()
	c.session = nil
	return err
}
