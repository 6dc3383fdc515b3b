package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/DeepanshuK43/cropml/core/model"
	"github.com/DeepanshuK43/cropml/pkg/errors"
)

// StandardScaler standardizes features to zero mean and unit variance.
// Statistics are computed from the training partition only; the test
// partition and later interactive vectors are transformed with the same
// frozen statistics, never refitted.
type StandardScaler struct {
	model.BaseEstimator

	// Mean is the per-column mean seen during Fit.
	Mean []float64

	// Scale is the per-column population standard deviation. A zero-variance
	// column gets scale 1 so the transformed value is the centered value,
	// not a division by zero.
	Scale []float64

	// NFeatures is the column count the scaler was fitted with.
	NFeatures int
}

// NewStandardScaler creates an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit computes column means and population standard deviations over X.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewDegenerateDataError(r, 0, "empty training matrix")
	}

	mean := make([]float64, c)
	scale := make([]float64, c)

	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < r; i++ {
			sum += X.At(i, j)
		}
		mean[j] = sum / float64(r)
	}

	for j := 0; j < c; j++ {
		sumSquares := 0.0
		for i := 0; i < r; i++ {
			diff := X.At(i, j) - mean[j]
			sumSquares += diff * diff
		}
		scale[j] = math.Sqrt(sumSquares / float64(r))
		if scale[j] < 1e-8 {
			// Constant column: treat as already centered.
			scale[j] = 1.0
		}
	}

	s.Mean = mean
	s.Scale = scale
	s.NFeatures = c
	s.SetFitted()
	return nil
}

// Transform standardizes every row of X with the fitted statistics.
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}
	return result, nil
}

// TransformVec standardizes a single feature vector, e.g. the interactively
// collected measurements at prediction time.
func (s *StandardScaler) TransformVec(x []float64) ([]float64, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "TransformVec")
	}
	if len(x) != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.TransformVec", s.NFeatures, len(x), 1)
	}

	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out, nil
}

// FitTransform fits on X and returns the standardized X.
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// String returns a short description of the scaler.
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return "StandardScaler()"
	}
	return fmt.Sprintf("StandardScaler(n_features=%d)", s.NFeatures)
}
