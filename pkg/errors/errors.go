// Package errors provides the structured error and warning system used across
// cropml. It is inspired by scikit-learn's warning/exception hierarchy and
// carries stack traces via cockroachdb/errors so that failures in the training
// pipeline can be traced back to the offending call site.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// Default handler logs to standard error.
		log.Printf("cropml-warning: %v\n", w)
	}
	// zerolog warn hook, set lazily to avoid an import cycle with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler installs a custom handler for library-wide warnings such
// as UndefinedMetricWarning.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc routes warnings through zerolog once logging is set up.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning through the zerolog hook if installed, otherwise
// through the plain handler.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// UndefinedMetricWarning is raised when an evaluation metric is ill-defined,
// e.g. precision for a class that was never predicted. The metric is set to
// Result instead of dividing by zero.
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %g due to %s", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning creates a new UndefinedMetricWarning.
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotFittedError is returned when Predict, Transform or Decode is called on an
// estimator that has not been fitted yet.
type NotFittedError struct {
	EstimatorName string
	Method        string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("cropml: %s: this estimator is not fitted yet. Call Fit() before using %s()", e.EstimatorName, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("estimator", e.EstimatorName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(estimator, method string) error {
	err := &NotFittedError{EstimatorName: estimator, Method: method}
	return errors.WithStack(err)
}

// DimensionError is returned when input data does not match the expected
// shape, e.g. a prediction vector whose feature count differs from the
// statistics the scaler was fitted with.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("cropml: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// UnknownLabelError is returned when encoding a crop label that was not
// present when the encoder was fitted. Encoder misuse, treated as fatal by
// the pipeline.
type UnknownLabelError struct {
	Label string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("cropml: unknown label %q: not seen during Fit", e.Label)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *UnknownLabelError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("label", e.Label).Str("type", "UnknownLabelError")
}

// NewUnknownLabelError creates an UnknownLabelError with a stack trace.
func NewUnknownLabelError(label string) error {
	return errors.WithStack(&UnknownLabelError{Label: label})
}

// InvalidCodeError is returned when decoding a class code outside the range
// assigned at fit time.
type InvalidCodeError struct {
	Code     int
	NClasses int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("cropml: invalid class code %d: encoder knows %d classes", e.Code, e.NClasses)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *InvalidCodeError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("code", e.Code).
		Int("n_classes", e.NClasses).
		Str("type", "InvalidCodeError")
}

// NewInvalidCodeError creates an InvalidCodeError with a stack trace.
func NewInvalidCodeError(code, nClasses int) error {
	return errors.WithStack(&InvalidCodeError{Code: code, NClasses: nClasses})
}

// DegenerateDataError is returned before training when the dataset cannot
// support classification: empty, or fewer than two distinct labels.
type DegenerateDataError struct {
	Samples int
	Classes int
	Reason  string
}

func (e *DegenerateDataError) Error() string {
	return fmt.Sprintf("cropml: degenerate dataset (%d samples, %d classes): %s", e.Samples, e.Classes, e.Reason)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DegenerateDataError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("samples", e.Samples).
		Int("classes", e.Classes).
		Str("reason", e.Reason).
		Str("type", "DegenerateDataError")
}

// NewDegenerateDataError creates a DegenerateDataError with a stack trace.
func NewDegenerateDataError(samples, classes int, reason string) error {
	return errors.WithStack(&DegenerateDataError{Samples: samples, Classes: classes, Reason: reason})
}

// FormatError is returned when the source table is malformed: missing
// columns, non-numeric features, short rows. The pipeline aborts on it.
type FormatError struct {
	Source string
	Row    int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("cropml: %s: row %d: %s", e.Source, e.Row, e.Reason)
	}
	return fmt.Sprintf("cropml: %s: %s", e.Source, e.Reason)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *FormatError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("source", e.Source).
		Int("row", e.Row).
		Str("reason", e.Reason).
		Str("type", "FormatError")
}

// NewFormatError creates a FormatError with a stack trace. Pass row -1 when
// the error is not tied to a particular row.
func NewFormatError(source string, row int, reason string) error {
	return errors.WithStack(&FormatError{Source: source, Row: row, Reason: reason})
}

// InvalidInputError is returned by the interactive collector once its retry
// budget is exhausted without receiving an in-range numeric value.
type InvalidInputError struct {
	Field    string
	Attempts int
	Last     string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("cropml: no valid value for %q after %d attempts (last input: %q)", e.Field, e.Attempts, e.Last)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *InvalidInputError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("field", e.Field).
		Int("attempts", e.Attempts).
		Str("last_input", e.Last).
		Str("type", "InvalidInputError")
}

// NewInvalidInputError creates an InvalidInputError with a stack trace.
func NewInvalidInputError(field string, attempts int, last string) error {
	return errors.WithStack(&InvalidInputError{Field: field, Attempts: attempts, Last: last})
}

// RemoteError is returned when a RemoteStore call fails. It is reported but
// never invalidates a prediction that was already computed locally.
type RemoteError struct {
	Op   string // "get" or "put"
	Path string
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("cropml: remote store %s %q failed: %v", e.Op, e.Path, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *RemoteError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("op", e.Op).
		Str("path", e.Path).
		AnErr("cause", e.Err).
		Str("type", "RemoteError")
}

// NewRemoteError creates a RemoteError with a stack trace.
func NewRemoteError(op, path string, err error) error {
	return errors.WithStack(&RemoteError{Op: op, Path: path, Err: err})
}

// ValueError is returned when an argument value is invalid for an operation,
// e.g. a split ratio outside (0, 1).
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("cropml: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ValidationError reports a failed parameter validation with the offending
// value.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cropml: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common sentinel errors
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an operation receives no data.
	ErrEmptyData = New("empty data")

	// ErrStoreUnavailable marks remote store calls that never reached the
	// backend.
	ErrStoreUnavailable = New("remote store unavailable")
)
