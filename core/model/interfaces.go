package model

import "gonum.org/v1/gonum/mat"

// Predictor is the read side of a trained classifier. The evaluation and
// prediction services depend on this interface rather than a concrete tree.
type Predictor interface {
	// Predict returns one class code per input row as an n×1 matrix.
	Predict(X mat.Matrix) (mat.Matrix, error)
	// PredictRow classifies a single feature vector.
	PredictRow(x []float64) (int, error)
}

// Transformer maps feature matrices through learned statistics.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
}
