// Package dataset defines the sample model for crop recommendation and the
// TableSource boundary that feeds the training pipeline.
package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/DeepanshuK43/cropml/pkg/errors"
)

// NumFeatures is the fixed width of every feature vector: air humidity,
// air temperature, soil pH and rainfall, in that column order.
const NumFeatures = 4

// Feature declares one measured quantity together with the closed range the
// interactive collector accepts for it.
type Feature struct {
	Name string
	Unit string
	Min  float64
	Max  float64
}

// Features lists the four measurements in column order. The ranges bound
// interactive input only; historical rows are taken as recorded.
var Features = [NumFeatures]Feature{
	{Name: "humidity", Unit: "%", Min: 10, Max: 100},
	{Name: "temperature", Unit: "°C", Min: 5, Max: 45},
	{Name: "ph", Unit: "pH", Min: 3, Max: 10},
	{Name: "rainfall", Unit: "mm", Min: 20, Max: 300},
}

// Sample is one historical observation: a fixed-width feature vector and the
// crop that was grown. Samples are immutable once loaded.
type Sample struct {
	Values [NumFeatures]float64
	Label  string
}

// Dataset holds samples in load order as a feature matrix with a parallel
// label slice. len(Labels) always equals the matrix row count.
type Dataset struct {
	X      *mat.Dense
	Labels []string
}

// TableSource yields the rows of a tabular sample store. The wire format
// behind a source (file, database, API) is outside the pipeline's scope.
type TableSource interface {
	Load() (*Dataset, error)
}

// New assembles a Dataset from samples, preserving order.
func New(samples []Sample) (*Dataset, error) {
	if len(samples) == 0 {
		return nil, errors.NewDegenerateDataError(0, 0, "no samples")
	}

	data := make([]float64, 0, len(samples)*NumFeatures)
	labels := make([]string, len(samples))
	for i, s := range samples {
		data = append(data, s.Values[:]...)
		labels[i] = s.Label
	}
	return &Dataset{
		X:      mat.NewDense(len(samples), NumFeatures, data),
		Labels: labels,
	}, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Labels)
}

// DistinctLabels returns the set size of the label column.
func (d *Dataset) DistinctLabels() int {
	seen := make(map[string]struct{}, len(d.Labels))
	for _, l := range d.Labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}

// Validate rejects datasets that cannot support classification before any
// training starts: empty data, or fewer than two distinct crops.
func (d *Dataset) Validate() error {
	n := d.Len()
	if n == 0 {
		return errors.NewDegenerateDataError(0, 0, "no samples")
	}
	if classes := d.DistinctLabels(); classes < 2 {
		return errors.NewDegenerateDataError(n, classes, "need at least 2 distinct crop labels")
	}
	return nil
}
