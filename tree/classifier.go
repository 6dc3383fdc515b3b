// Package tree implements a CART-style decision tree classifier. Induction
// grows the tree top-down by exhaustive threshold search per feature,
// maximizing impurity decrease; prediction walks internal nodes with the
// "left if value <= threshold" rule and answers with the leaf's majority
// class.
//
// The tree is stored as a flat arena of nodes addressed by integer index
// instead of pointer-linked children. The root is node 0; children are
// created by appending during induction, so the structure is trivially
// immutable and cheap to traverse after Fit.
package tree

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/DeepanshuK43/cropml/core/model"
	"github.com/DeepanshuK43/cropml/core/parallel"
	"github.com/DeepanshuK43/cropml/pkg/errors"
)

// node is one arena slot. Internal nodes carry a split; leaves carry the
// class-count distribution of the samples that reached them.
type node struct {
	feature   int
	threshold float64
	left      int // arena index, -1 on leaves
	right     int
	counts    []int // nil on internal nodes
	samples   int
	leaf      bool
}

// DecisionTreeClassifier is a binary classification tree over numeric
// features. The model is immutable after Fit.
type DecisionTreeClassifier struct {
	model.BaseEstimator

	criterion       string
	maxDepth        int
	minSamplesSplit int

	nodes     []node
	nClasses  int
	nFeatures int
}

// Option configures a DecisionTreeClassifier before fitting.
type Option func(*DecisionTreeClassifier)

// WithCriterion selects the impurity criterion: "gini" (default) or
// "entropy".
func WithCriterion(criterion string) Option {
	return func(t *DecisionTreeClassifier) { t.criterion = criterion }
}

// WithMaxDepth bounds tree depth. -1 (default) grows an unbounded tree.
func WithMaxDepth(depth int) Option {
	return func(t *DecisionTreeClassifier) { t.maxDepth = depth }
}

// WithMinSamplesSplit sets the minimum node size eligible for splitting
// (default 2).
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeClassifier) { t.minSamplesSplit = n }
}

// NewDecisionTreeClassifier creates an unfitted classifier.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	t := &DecisionTreeClassifier{
		criterion:       "gini",
		maxDepth:        -1,
		minSamplesSplit: 2,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// splitParallelThreshold is the node sample count above which the per-feature
// split search fans out across cores. Below it the goroutine overhead
// outweighs the scan.
const splitParallelThreshold = 2048

// Fit grows the tree from X (n×d features) and y (n×1 class codes).
func (t *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	n, d := X.Dims()
	yr, yc := y.Dims()
	if n == 0 || d == 0 {
		return errors.NewDegenerateDataError(n, 0, "empty training matrix")
	}
	if yr != n {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", n, yr, 0)
	}
	if yc != 1 {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", 1, yc, 1)
	}
	if t.criterion != "gini" && t.criterion != "entropy" {
		return errors.NewValidationError("criterion", "must be \"gini\" or \"entropy\"", t.criterion)
	}
	if t.minSamplesSplit < 2 {
		return errors.NewValidationError("min_samples_split", "must be >= 2", t.minSamplesSplit)
	}

	codes := make([]int, n)
	maxCode := 0
	for i := 0; i < n; i++ {
		v := y.At(i, 0)
		code := int(v)
		if float64(code) != v || code < 0 {
			return errors.NewValueError("DecisionTreeClassifier.Fit",
				"labels must be non-negative integer class codes")
		}
		codes[i] = code
		if code > maxCode {
			maxCode = code
		}
	}

	t.nFeatures = d
	t.nClasses = maxCode + 1
	t.nodes = t.nodes[:0]

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	t.buildNode(X, codes, indices, 0)

	t.SetFitted()
	return nil
}

// buildNode appends the node for the given sample subset to the arena and
// recurses into its children. It returns the node's arena index.
func (t *DecisionTreeClassifier) buildNode(X mat.Matrix, codes, indices []int, depth int) int {
	nodeIdx := len(t.nodes)
	counts := t.classCounts(codes, indices)

	if t.isPure(counts) ||
		len(indices) < t.minSamplesSplit ||
		(t.maxDepth >= 0 && depth >= t.maxDepth) {
		t.nodes = append(t.nodes, leafNode(counts, len(indices)))
		return nodeIdx
	}

	// A node with candidates is always split, even at zero impurity
	// decrease; recursion terminates because both children are strictly
	// smaller. No candidates means every feature is constant here.
	best := t.findBestSplit(X, codes, indices, counts)
	if !best.valid {
		t.nodes = append(t.nodes, leafNode(counts, len(indices)))
		return nodeIdx
	}

	t.nodes = append(t.nodes, node{
		feature:   best.feature,
		threshold: best.threshold,
		left:      -1,
		right:     -1,
		samples:   len(indices),
	})

	var leftIdx, rightIdx []int
	for _, i := range indices {
		if X.At(i, best.feature) <= best.threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}

	left := t.buildNode(X, codes, leftIdx, depth+1)
	right := t.buildNode(X, codes, rightIdx, depth+1)
	t.nodes[nodeIdx].left = left
	t.nodes[nodeIdx].right = right
	return nodeIdx
}

// splitCandidate is the winning (feature, threshold) pair of one feature's
// scan, scored by samples-weighted impurity decrease.
type splitCandidate struct {
	feature   int
	threshold float64
	decrease  float64
	valid     bool
}

// findBestSplit searches all features for the split with the largest
// impurity decrease. Feature scans are independent and share only read
// access, so they fan out across cores for large nodes; the merge is
// sequential in ascending feature order, which realizes the tie-break of
// lowest feature index.
func (t *DecisionTreeClassifier) findBestSplit(X mat.Matrix, codes, indices, parentCounts []int) splitCandidate {
	parentImpurity := t.impurity(parentCounts, len(indices))

	results := make([]splitCandidate, t.nFeatures)
	scan := func(start, end int) {
		for f := start; f < end; f++ {
			results[f] = t.bestSplitForFeature(X, codes, indices, f, parentImpurity)
		}
	}
	if len(indices) >= splitParallelThreshold {
		parallel.Parallelize(t.nFeatures, scan)
	} else {
		scan(0, t.nFeatures)
	}

	best := splitCandidate{}
	for _, cand := range results {
		if cand.valid && (!best.valid || cand.decrease > best.decrease) {
			best = cand
		}
	}
	return best
}

// bestSplitForFeature scans candidate thresholds for one feature: midpoints
// between consecutive distinct sorted values. The scan keeps running class
// counts for the left side, so each candidate costs O(classes), not a
// rescan of the node's samples. Ties on decrease keep the lowest threshold
// because candidates are visited in ascending value order and only a strict
// improvement replaces the incumbent.
func (t *DecisionTreeClassifier) bestSplitForFeature(X mat.Matrix, codes, indices []int, feature int, parentImpurity float64) splitCandidate {
	n := len(indices)

	type valueCode struct {
		value float64
		code  int
	}
	values := make([]valueCode, n)
	for i, idx := range indices {
		values[i] = valueCode{value: X.At(idx, feature), code: codes[idx]}
	}
	sort.Slice(values, func(i, j int) bool { return values[i].value < values[j].value })

	totalCounts := make([]int, t.nClasses)
	for _, vc := range values {
		totalCounts[vc.code]++
	}

	best := splitCandidate{feature: feature}
	leftCounts := make([]int, t.nClasses)
	rightCounts := make([]int, t.nClasses)

	for i := 0; i < n-1; i++ {
		leftCounts[values[i].code]++

		if values[i].value == values[i+1].value {
			continue
		}

		nLeft := i + 1
		nRight := n - nLeft
		for c := range rightCounts {
			rightCounts[c] = totalCounts[c] - leftCounts[c]
		}

		weighted := (float64(nLeft)*t.impurity(leftCounts, nLeft) +
			float64(nRight)*t.impurity(rightCounts, nRight)) / float64(n)
		decrease := parentImpurity - weighted

		if !best.valid || decrease > best.decrease {
			best.valid = true
			best.decrease = decrease
			best.threshold = (values[i].value + values[i+1].value) / 2
		}
	}

	return best
}

// Predict classifies every row of X, returning an n×1 matrix of class codes.
func (t *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "Predict")
	}
	n, d := X.Dims()
	if d != t.nFeatures {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.Predict", t.nFeatures, d, 1)
	}

	out := mat.NewDense(n, 1, nil)
	row := make([]float64, d)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			row[j] = X.At(i, j)
		}
		code, err := t.PredictRow(row)
		if err != nil {
			return nil, err
		}
		out.Set(i, 0, float64(code))
	}
	return out, nil
}

// PredictRow classifies a single feature vector.
func (t *DecisionTreeClassifier) PredictRow(x []float64) (int, error) {
	if !t.IsFitted() {
		return 0, errors.NewNotFittedError("DecisionTreeClassifier", "PredictRow")
	}
	if len(x) != t.nFeatures {
		return 0, errors.NewDimensionError("DecisionTreeClassifier.PredictRow", t.nFeatures, len(x), 1)
	}

	idx := 0
	for !t.nodes[idx].leaf {
		nd := &t.nodes[idx]
		if x[nd.feature] <= nd.threshold {
			idx = nd.left
		} else {
			idx = nd.right
		}
	}
	return majorityClass(t.nodes[idx].counts), nil
}

// PredictProba returns the leaf class-count distribution of each row,
// normalized to probabilities, as an n×nClasses matrix.
func (t *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "PredictProba")
	}
	n, d := X.Dims()
	if d != t.nFeatures {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.PredictProba", t.nFeatures, d, 1)
	}

	out := mat.NewDense(n, t.nClasses, nil)
	for i := 0; i < n; i++ {
		idx := 0
		for !t.nodes[idx].leaf {
			nd := &t.nodes[idx]
			if X.At(i, nd.feature) <= nd.threshold {
				idx = nd.left
			} else {
				idx = nd.right
			}
		}
		counts := t.nodes[idx].counts
		total := float64(t.nodes[idx].samples)
		for c, cnt := range counts {
			out.Set(i, c, float64(cnt)/total)
		}
	}
	return out, nil
}

// NClasses returns the number of classes seen at fit time.
func (t *DecisionTreeClassifier) NClasses() int {
	return t.nClasses
}

// NNodes returns the size of the fitted tree's arena.
func (t *DecisionTreeClassifier) NNodes() int {
	return len(t.nodes)
}

func (t *DecisionTreeClassifier) classCounts(codes, indices []int) []int {
	counts := make([]int, t.nClasses)
	for _, i := range indices {
		counts[codes[i]]++
	}
	return counts
}

func (t *DecisionTreeClassifier) isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func (t *DecisionTreeClassifier) impurity(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	if t.criterion == "entropy" {
		return entropyImpurity(counts, total)
	}
	return giniImpurity(counts, total)
}

func leafNode(counts []int, samples int) node {
	return node{
		left:    -1,
		right:   -1,
		counts:  counts,
		samples: samples,
		leaf:    true,
	}
}

// majorityClass returns the most frequent class code; ties go to the lowest
// code because only a strictly larger count replaces the incumbent.
func majorityClass(counts []int) int {
	best := 0
	bestCount := counts[0]
	for c := 1; c < len(counts); c++ {
		if counts[c] > bestCount {
			best = c
			bestCount = counts[c]
		}
	}
	return best
}
