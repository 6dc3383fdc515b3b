// Package service orchestrates the inference side of the pipeline: gate
// check against the remote store, interactive measurement collection,
// scaling with the fitted statistics, tree prediction, label decoding, and
// publishing of the result.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/DeepanshuK43/cropml/core/model"
	"github.com/DeepanshuK43/cropml/dataset"
	"github.com/DeepanshuK43/cropml/input"
	"github.com/DeepanshuK43/cropml/pkg/errors"
	pkglog "github.com/DeepanshuK43/cropml/pkg/log"
	"github.com/DeepanshuK43/cropml/preprocessing"
	"github.com/DeepanshuK43/cropml/remote"
)

// ErrGateAbsent is returned by Run when the gate path holds no value and the
// prediction is skipped.
var ErrGateAbsent = errors.New("remote gate value absent; prediction skipped")

// PredictionService computes a single crop recommendation from raw
// measurements. All held components are fitted and read-only.
type PredictionService struct {
	model   model.Predictor
	scaler  *preprocessing.StandardScaler
	encoder *preprocessing.LabelEncoder
	store   remote.Store

	// GatePath is checked before collecting input; an absent value skips
	// prediction. ResultPath receives the published recommendation.
	GatePath   string
	ResultPath string
}

// New assembles a service from fitted components.
func New(m model.Predictor, scaler *preprocessing.StandardScaler, encoder *preprocessing.LabelEncoder, store remote.Store, gatePath, resultPath string) *PredictionService {
	return &PredictionService{
		model:      m,
		scaler:     scaler,
		encoder:    encoder,
		store:      store,
		GatePath:   gatePath,
		ResultPath: resultPath,
	}
}

// Gate performs the remote pre-check. ok is false when the watched path
// holds no value.
func (s *PredictionService) Gate(ctx context.Context) (bool, error) {
	value, ok, err := s.store.Get(ctx, s.GatePath)
	if err != nil {
		return false, err
	}
	return ok && value != "", nil
}

// PredictOne scales raw measurements with the already-fitted statistics,
// never refitting, runs the classifier, and decodes the class code back to a
// crop name.
func (s *PredictionService) PredictOne(raw []float64) (string, error) {
	scaled, err := s.scaler.TransformVec(raw)
	if err != nil {
		return "", err
	}

	code, err := s.model.PredictRow(scaled)
	if err != nil {
		return "", err
	}

	return s.encoder.Decode(code)
}

// Fields returns the interactive field specs for the four measurements.
func Fields() []input.Field {
	fields := make([]input.Field, len(dataset.Features))
	for i, f := range dataset.Features {
		fields[i] = input.Field{Name: f.Name, Unit: f.Unit, Min: f.Min, Max: f.Max}
	}
	return fields
}

// Run executes the full inference flow: gate, collect, predict, publish.
// A publish failure is reported but does not invalidate the prediction; the
// returned label stays valid.
func (s *PredictionService) Run(ctx context.Context, collector *input.Collector) (string, error) {
	ok, err := s.Gate(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		slog.Info("gate value absent, skipping prediction",
			pkglog.ComponentKey, "service", "gate_path", s.GatePath)
		return "", ErrGateAbsent
	}

	raw, err := collector.CollectVector(Fields())
	if err != nil {
		return "", err
	}

	label, err := s.PredictOne(raw)
	if err != nil {
		return "", err
	}
	slog.Info("prediction computed",
		pkglog.ComponentKey, "service",
		pkglog.OperationKey, "predict",
		"crop", label)

	key := time.Now().UTC().Format(time.RFC3339)
	if err := s.store.Put(ctx, s.ResultPath, key, label); err != nil {
		// The local prediction remains valid; the failure is surfaced to
		// the operator only.
		slog.Warn("failed to publish prediction", pkglog.ErrAttr(err),
			pkglog.ComponentKey, "service", "result_path", s.ResultPath)
	}

	return label, nil
}
