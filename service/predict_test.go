package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/DeepanshuK43/cropml/input"
	"github.com/DeepanshuK43/cropml/metrics"
	"github.com/DeepanshuK43/cropml/modelselection"
	"github.com/DeepanshuK43/cropml/pkg/errors"
	"github.com/DeepanshuK43/cropml/preprocessing"
	"github.com/DeepanshuK43/cropml/tree"
)

// fakeStore is an in-memory remote.Store for exercising the service without
// a network.
type fakeStore struct {
	docs   map[string]string
	puts   map[string]map[string]string
	getErr error
	putErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs: map[string]string{},
		puts: map[string]map[string]string{},
	}
}

func (f *fakeStore) Get(ctx context.Context, path string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.docs[path]
	return v, ok, nil
}

func (f *fakeStore) Put(ctx context.Context, path, key, value string) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.puts[path] == nil {
		f.puts[path] = map[string]string{}
	}
	f.puts[path][key] = value
	return nil
}

// trainPipeline fits the full stack on a small dataset where humidity alone
// separates maize from rice, and asserts the held-out metrics are perfect.
func trainPipeline(t *testing.T, store *fakeStore) *PredictionService {
	t.Helper()

	// Columns: humidity, temperature, ph, rainfall. Only humidity varies.
	X := mat.NewDense(8, 4, []float64{
		20, 25, 6.5, 100,
		21, 25, 6.5, 100,
		22, 25, 6.5, 100,
		23, 25, 6.5, 100,
		80, 25, 6.5, 100,
		81, 25, 6.5, 100,
		82, 25, 6.5, 100,
		83, 25, 6.5, 100,
	})
	labels := []string{
		"maize", "maize", "maize", "maize",
		"rice", "rice", "rice", "rice",
	}

	encoder := preprocessing.NewLabelEncoder()
	y, err := encoder.FitTransform(labels)
	if err != nil {
		t.Fatalf("failed to encode labels: %v", err)
	}

	split, err := modelselection.TrainTestSplit(X, y,
		modelselection.WithTestSize(0.5),
		modelselection.WithSeed(1),
		modelselection.WithStratify(true),
	)
	if err != nil {
		t.Fatalf("failed to split: %v", err)
	}

	scaler := preprocessing.NewStandardScaler()
	XTrain, err := scaler.FitTransform(split.XTrain)
	if err != nil {
		t.Fatalf("failed to scale training data: %v", err)
	}
	XTest, err := scaler.Transform(split.XTest)
	if err != nil {
		t.Fatalf("failed to scale test data: %v", err)
	}

	yTrain := mat.NewDense(len(split.YTrain), 1, nil)
	for i, c := range split.YTrain {
		yTrain.Set(i, 0, float64(c))
	}

	dt := tree.NewDecisionTreeClassifier()
	if err := dt.Fit(XTrain, yTrain); err != nil {
		t.Fatalf("failed to fit tree: %v", err)
	}

	report, err := metrics.Evaluate(dt, XTest, split.YTest, encoder.Classes)
	if err != nil {
		t.Fatalf("failed to evaluate: %v", err)
	}
	if report.Accuracy != 1.0 {
		t.Errorf("held-out accuracy: expected 1.0, got %g", report.Accuracy)
	}
	if report.Macro.F1 != 1.0 {
		t.Errorf("held-out macro F1: expected 1.0, got %g", report.Macro.F1)
	}

	return New(dt, scaler, encoder, store, "registry/station", "predictions")
}

func TestPipeline_FourRowsFiftyFifty(t *testing.T) {
	// Two classes, perfectly separable on humidity, one train and one test
	// row per class after a stratified 50/50 split.
	X := mat.NewDense(4, 4, []float64{
		20, 25, 6.5, 100,
		22, 25, 6.5, 100,
		80, 25, 6.5, 100,
		82, 25, 6.5, 100,
	})
	labels := []string{"maize", "maize", "rice", "rice"}

	encoder := preprocessing.NewLabelEncoder()
	y, err := encoder.FitTransform(labels)
	if err != nil {
		t.Fatalf("failed to encode labels: %v", err)
	}

	split, err := modelselection.TrainTestSplit(X, y,
		modelselection.WithTestSize(0.5),
		modelselection.WithSeed(7),
		modelselection.WithStratify(true),
	)
	if err != nil {
		t.Fatalf("failed to split: %v", err)
	}

	scaler := preprocessing.NewStandardScaler()
	XTrain, err := scaler.FitTransform(split.XTrain)
	if err != nil {
		t.Fatalf("failed to scale training data: %v", err)
	}
	XTest, err := scaler.Transform(split.XTest)
	if err != nil {
		t.Fatalf("failed to scale test data: %v", err)
	}

	yTrain := mat.NewDense(len(split.YTrain), 1, nil)
	for i, c := range split.YTrain {
		yTrain.Set(i, 0, float64(c))
	}

	dt := tree.NewDecisionTreeClassifier()
	if err := dt.Fit(XTrain, yTrain); err != nil {
		t.Fatalf("failed to fit tree: %v", err)
	}

	report, err := metrics.Evaluate(dt, XTest, split.YTest, encoder.Classes)
	if err != nil {
		t.Fatalf("failed to evaluate: %v", err)
	}
	if report.Accuracy != 1.0 {
		t.Errorf("accuracy: expected 1.0, got %g", report.Accuracy)
	}
	if report.Macro.F1 != 1.0 {
		t.Errorf("macro F1: expected 1.0, got %g", report.Macro.F1)
	}
}

func TestPredictionService_Run(t *testing.T) {
	store := newFakeStore()
	store.docs["registry/station"] = "active"
	svc := trainPipeline(t, store)

	// Humidity, temperature, ph, rainfall for a maize-side sample.
	collector := input.NewCollector(strings.NewReader("21\n25\n6.5\n100\n"), &bytes.Buffer{})

	label, err := svc.Run(context.Background(), collector)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if label != "maize" {
		t.Errorf("expected maize, got %q", label)
	}

	published := store.puts["predictions"]
	if len(published) != 1 {
		t.Fatalf("expected 1 published prediction, got %d", len(published))
	}
	for _, v := range published {
		if v != "maize" {
			t.Errorf("published value: expected maize, got %q", v)
		}
	}
}

func TestPredictionService_PredictOne(t *testing.T) {
	store := newFakeStore()
	svc := trainPipeline(t, store)

	label, err := svc.PredictOne([]float64{82, 25, 6.5, 100})
	if err != nil {
		t.Fatalf("PredictOne failed: %v", err)
	}
	if label != "rice" {
		t.Errorf("expected rice, got %q", label)
	}

	var dimErr *errors.DimensionError
	if _, err := svc.PredictOne([]float64{82, 25}); !errors.As(err, &dimErr) {
		t.Errorf("expected DimensionError for short vector, got %v", err)
	}
}

func TestPredictionService_GateAbsent(t *testing.T) {
	store := newFakeStore() // gate path never written
	svc := trainPipeline(t, store)

	collector := input.NewCollector(strings.NewReader("21\n25\n6.5\n100\n"), &bytes.Buffer{})
	_, err := svc.Run(context.Background(), collector)
	if !errors.Is(err, ErrGateAbsent) {
		t.Fatalf("expected ErrGateAbsent, got %v", err)
	}
	if len(store.puts) != 0 {
		t.Error("nothing should be published when the gate is absent")
	}
}

func TestPredictionService_GateError(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.NewRemoteError("get", "registry/station", errors.ErrStoreUnavailable)
	svc := trainPipeline(t, store)

	collector := input.NewCollector(strings.NewReader("21\n25\n6.5\n100\n"), &bytes.Buffer{})
	_, err := svc.Run(context.Background(), collector)

	var remoteErr *errors.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
}

func TestPredictionService_PublishFailureKeepsPrediction(t *testing.T) {
	store := newFakeStore()
	store.docs["registry/station"] = "active"
	store.putErr = errors.NewRemoteError("put", "predictions", errors.ErrStoreUnavailable)
	svc := trainPipeline(t, store)

	collector := input.NewCollector(strings.NewReader("21\n25\n6.5\n100\n"), &bytes.Buffer{})
	label, err := svc.Run(context.Background(), collector)
	if err != nil {
		t.Fatalf("Run must not fail on a publish error, got: %v", err)
	}
	if label != "maize" {
		t.Errorf("expected maize, got %q", label)
	}
}

func TestFields(t *testing.T) {
	fields := Fields()
	if len(fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(fields))
	}
	wantNames := []string{"humidity", "temperature", "ph", "rainfall"}
	for i, want := range wantNames {
		if fields[i].Name != want {
			t.Errorf("field %d: expected %q, got %q", i, want, fields[i].Name)
		}
		if fields[i].Min >= fields[i].Max {
			t.Errorf("field %q: bad range [%g, %g]", fields[i].Name, fields[i].Min, fields[i].Max)
		}
	}
}
