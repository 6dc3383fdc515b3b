// Package metrics computes classification quality measures for the crop
// recommender: confusion matrix, per-class precision/recall/F1/support,
// accuracy, and macro / support-weighted averages.
package metrics

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/DeepanshuK43/cropml/core/model"
	"github.com/DeepanshuK43/cropml/pkg/errors"
)

// ConfusionMatrix counts (true class, predicted class) pairs. Rows are true
// classes, columns predictions.
type ConfusionMatrix struct {
	NClasses int
	Cells    [][]int
}

// NewConfusionMatrix tallies yTrue against yPred. Codes must lie in
// [0, nClasses).
func NewConfusionMatrix(yTrue, yPred []int, nClasses int) (*ConfusionMatrix, error) {
	if len(yTrue) == 0 {
		return nil, errors.NewValueError("NewConfusionMatrix", "empty label slice")
	}
	if len(yTrue) != len(yPred) {
		return nil, errors.NewDimensionError("NewConfusionMatrix", len(yTrue), len(yPred), 0)
	}

	cells := make([][]int, nClasses)
	for i := range cells {
		cells[i] = make([]int, nClasses)
	}
	for i, truth := range yTrue {
		pred := yPred[i]
		if truth < 0 || truth >= nClasses {
			return nil, errors.NewInvalidCodeError(truth, nClasses)
		}
		if pred < 0 || pred >= nClasses {
			return nil, errors.NewInvalidCodeError(pred, nClasses)
		}
		cells[truth][pred]++
	}
	return &ConfusionMatrix{NClasses: nClasses, Cells: cells}, nil
}

// TP returns the true positives for class c.
func (m *ConfusionMatrix) TP(c int) int { return m.Cells[c][c] }

// FP returns the false positives for class c: other classes predicted as c.
func (m *ConfusionMatrix) FP(c int) int {
	fp := 0
	for truth := 0; truth < m.NClasses; truth++ {
		if truth != c {
			fp += m.Cells[truth][c]
		}
	}
	return fp
}

// FN returns the false negatives for class c: class c predicted as others.
func (m *ConfusionMatrix) FN(c int) int {
	fn := 0
	for pred := 0; pred < m.NClasses; pred++ {
		if pred != c {
			fn += m.Cells[c][pred]
		}
	}
	return fn
}

// Support returns the count of true instances of class c.
func (m *ConfusionMatrix) Support(c int) int {
	support := 0
	for pred := 0; pred < m.NClasses; pred++ {
		support += m.Cells[c][pred]
	}
	return support
}

// Total returns the number of scored samples.
func (m *ConfusionMatrix) Total() int {
	total := 0
	for _, row := range m.Cells {
		for _, cell := range row {
			total += cell
		}
	}
	return total
}

// Correct returns the diagonal sum.
func (m *ConfusionMatrix) Correct() int {
	correct := 0
	for c := 0; c < m.NClasses; c++ {
		correct += m.Cells[c][c]
	}
	return correct
}

// ClassMetrics holds the per-class evaluation row, labelled by decoded crop
// name rather than raw code.
type ClassMetrics struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Averages aggregates per-class metrics. Macro is the unweighted mean;
// Weighted weighs each class by its support.
type Averages struct {
	Precision float64
	Recall    float64
	F1        float64
}

// ClassificationReport is the full evaluation result. Built once per
// Evaluate call, read-only afterwards.
type ClassificationReport struct {
	Classes   []ClassMetrics
	Accuracy  float64
	Macro     Averages
	Weighted  Averages
	Confusion *ConfusionMatrix
}

// Accuracy is the fraction of exact matches between yTrue and yPred.
func Accuracy(yTrue, yPred []int) (float64, error) {
	if len(yTrue) == 0 {
		return 0, errors.NewValueError("Accuracy", "empty label slice")
	}
	if len(yTrue) != len(yPred) {
		return 0, errors.NewDimensionError("Accuracy", len(yTrue), len(yPred), 0)
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// Report derives the classification report from true and predicted codes.
// classNames indexes decoded names by class code and fixes the class count.
// Zero-denominator metrics are reported as 0 and raise an
// UndefinedMetricWarning instead of failing.
func Report(yTrue, yPred []int, classNames []string) (*ClassificationReport, error) {
	cm, err := NewConfusionMatrix(yTrue, yPred, len(classNames))
	if err != nil {
		return nil, err
	}

	report := &ClassificationReport{
		Classes:   make([]ClassMetrics, cm.NClasses),
		Confusion: cm,
	}

	totalSupport := 0
	for c := 0; c < cm.NClasses; c++ {
		tp := cm.TP(c)
		fp := cm.FP(c)
		fn := cm.FN(c)
		support := cm.Support(c)

		precision := 0.0
		if tp+fp > 0 {
			precision = float64(tp) / float64(tp+fp)
		} else {
			errors.Warn(errors.NewUndefinedMetricWarning("precision",
				"no predicted samples for class "+classNames[c], 0))
		}

		recall := 0.0
		if tp+fn > 0 {
			recall = float64(tp) / float64(tp+fn)
		} else {
			errors.Warn(errors.NewUndefinedMetricWarning("recall",
				"no true samples for class "+classNames[c], 0))
		}

		f1 := 0.0
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		report.Classes[c] = ClassMetrics{
			Label:     classNames[c],
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support,
		}

		report.Macro.Precision += precision
		report.Macro.Recall += recall
		report.Macro.F1 += f1
		report.Weighted.Precision += precision * float64(support)
		report.Weighted.Recall += recall * float64(support)
		report.Weighted.F1 += f1 * float64(support)
		totalSupport += support
	}

	n := float64(cm.NClasses)
	report.Macro.Precision /= n
	report.Macro.Recall /= n
	report.Macro.F1 /= n

	report.Weighted.Precision /= float64(totalSupport)
	report.Weighted.Recall /= float64(totalSupport)
	report.Weighted.F1 /= float64(totalSupport)

	report.Accuracy = float64(cm.Correct()) / float64(cm.Total())
	return report, nil
}

// Evaluate runs the model over the test features and derives the report.
func Evaluate(p model.Predictor, XTest mat.Matrix, yTest []int, classNames []string) (*ClassificationReport, error) {
	pred, err := p.Predict(XTest)
	if err != nil {
		return nil, err
	}

	n, _ := pred.Dims()
	yPred := make([]int, n)
	for i := 0; i < n; i++ {
		yPred[i] = int(pred.At(i, 0))
	}
	return Report(yTest, yPred, classNames)
}

// String renders the report as a fixed-width table in the style of
// scikit-learn's classification_report.
func (r *ClassificationReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s %9s %9s %9s %9s\n", "", "precision", "recall", "f1-score", "support")
	for _, c := range r.Classes {
		fmt.Fprintf(&b, "%-16s %9.3f %9.3f %9.3f %9d\n", c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	fmt.Fprintf(&b, "\n%-16s %29s %9.3f\n", "accuracy", "", r.Accuracy)
	fmt.Fprintf(&b, "%-16s %9.3f %9.3f %9.3f\n", "macro avg", r.Macro.Precision, r.Macro.Recall, r.Macro.F1)
	fmt.Fprintf(&b, "%-16s %9.3f %9.3f %9.3f\n", "weighted avg", r.Weighted.Precision, r.Weighted.Recall, r.Weighted.F1)
	return b.String()
}
