// Package preprocessing contains the stateful transformations applied before
// training: label encoding and feature standardization. Both are fit once on
// the training partition and read-only afterwards.
package preprocessing

import (
	"sort"

	"github.com/DeepanshuK43/cropml/core/model"
	"github.com/DeepanshuK43/cropml/pkg/errors"
)

// LabelEncoder maps crop-name strings to dense integer codes and back.
// Codes are assigned by ascending lexical order of the distinct labels, so
// two runs over the same label set always agree.
type LabelEncoder struct {
	model.BaseEstimator

	// Classes holds the distinct labels in code order: Classes[code] == label.
	Classes []string

	codes map[string]int
}

// NewLabelEncoder creates an unfitted encoder.
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{}
}

// Fit assigns a code to every distinct label in the input. The encoding is
// frozen afterwards; refitting replaces it entirely.
func (e *LabelEncoder) Fit(labels []string) error {
	if len(labels) == 0 {
		return errors.NewDegenerateDataError(0, 0, "no labels to encode")
	}

	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		seen[l] = struct{}{}
	}

	classes := make([]string, 0, len(seen))
	for l := range seen {
		classes = append(classes, l)
	}
	sort.Strings(classes)

	codes := make(map[string]int, len(classes))
	for code, l := range classes {
		codes[l] = code
	}

	e.Classes = classes
	e.codes = codes
	e.SetFitted()
	return nil
}

// Encode returns the code for a single label, or UnknownLabelError when the
// label was absent at fit time.
func (e *LabelEncoder) Encode(label string) (int, error) {
	if !e.IsFitted() {
		return 0, errors.NewNotFittedError("LabelEncoder", "Encode")
	}
	code, ok := e.codes[label]
	if !ok {
		return 0, errors.NewUnknownLabelError(label)
	}
	return code, nil
}

// Decode is the exact inverse of Encode.
func (e *LabelEncoder) Decode(code int) (string, error) {
	if !e.IsFitted() {
		return "", errors.NewNotFittedError("LabelEncoder", "Decode")
	}
	if code < 0 || code >= len(e.Classes) {
		return "", errors.NewInvalidCodeError(code, len(e.Classes))
	}
	return e.Classes[code], nil
}

// Transform encodes a label slice in order.
func (e *LabelEncoder) Transform(labels []string) ([]int, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("LabelEncoder", "Transform")
	}
	out := make([]int, len(labels))
	for i, l := range labels {
		code, err := e.Encode(l)
		if err != nil {
			return nil, err
		}
		out[i] = code
	}
	return out, nil
}

// FitTransform fits on labels and returns their codes.
func (e *LabelEncoder) FitTransform(labels []string) ([]int, error) {
	if err := e.Fit(labels); err != nil {
		return nil, err
	}
	return e.Transform(labels)
}

// InverseTransform decodes a code slice in order.
func (e *LabelEncoder) InverseTransform(codes []int) ([]string, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("LabelEncoder", "InverseTransform")
	}
	out := make([]string, len(codes))
	for i, c := range codes {
		label, err := e.Decode(c)
		if err != nil {
			return nil, err
		}
		out[i] = label
	}
	return out, nil
}

// NClasses returns the number of distinct labels seen at fit time.
func (e *LabelEncoder) NClasses() int {
	return len(e.Classes)
}
