// Package model holds the shared estimator machinery: every fittable
// component (encoder, scaler, classifier) embeds BaseEstimator so that
// fit-before-use is enforced by a runtime check instead of call-order
// convention.
package model

// EstimatorState represents the training state of an estimator.
type EstimatorState int

const (
	// NotFitted means Fit has not completed yet.
	NotFitted EstimatorState = iota
	// Fitted means Fit completed and the learned state is frozen.
	Fitted
)

// BaseEstimator is embedded by all fittable components.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether Fit has completed.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the estimator as fitted. Estimators call this as the last
// step of a successful Fit; learned state must not change afterwards.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the estimator to the unfitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
