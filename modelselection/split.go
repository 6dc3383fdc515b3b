// Package modelselection partitions encoded datasets into train and test
// sets. The split is driven by a seeded pseudorandom permutation, so a given
// (dataset, ratio, seed) triple always yields the same partition.
package modelselection

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/DeepanshuK43/cropml/pkg/errors"
)

// Split is a disjoint train/test partition. Row-index sets are complementary:
// their union is exactly the original index set.
type Split struct {
	XTrain, XTest *mat.Dense
	YTrain, YTest []int

	// TrainIndex and TestIndex map partition rows back to original rows.
	TrainIndex, TestIndex []int
}

type config struct {
	testSize float64
	seed     int64
	stratify bool
}

// Option configures TrainTestSplit.
type Option func(*config)

// WithTestSize sets the fraction of rows assigned to the test set
// (default 0.3). Must lie strictly between 0 and 1.
func WithTestSize(ratio float64) Option {
	return func(c *config) { c.testSize = ratio }
}

// WithSeed sets the permutation seed (default 42).
func WithSeed(seed int64) Option {
	return func(c *config) { c.seed = seed }
}

// WithStratify enables per-class splitting so each crop keeps roughly the
// same train/test proportion. Off by default: the plain split can leave rare
// crops absent from the test set, which shows up as uneven per-class metrics.
func WithStratify(on bool) Option {
	return func(c *config) { c.stratify = on }
}

// TrainTestSplit partitions X and y. The first round(testSize*N) permuted
// indices form the test set; the remainder is the train set.
func TrainTestSplit(X mat.Matrix, y []int, opts ...Option) (*Split, error) {
	cfg := config{testSize: 0.3, seed: 42}
	for _, opt := range opts {
		opt(&cfg)
	}

	n, _ := X.Dims()
	if n == 0 {
		return nil, errors.NewDegenerateDataError(0, 0, "nothing to split")
	}
	if len(y) != n {
		return nil, errors.NewDimensionError("TrainTestSplit", n, len(y), 0)
	}
	if cfg.testSize <= 0 || cfg.testSize >= 1 {
		return nil, errors.NewValidationError("test_size", "must be in (0, 1)", cfg.testSize)
	}

	rng := rand.New(rand.NewSource(cfg.seed))

	var testIdx, trainIdx []int
	if cfg.stratify {
		testIdx, trainIdx = stratifiedIndices(y, cfg.testSize, rng)
	} else {
		testIdx, trainIdx = permutedIndices(n, cfg.testSize, rng)
	}

	if len(testIdx) == 0 || len(trainIdx) == 0 {
		return nil, errors.NewValidationError("test_size", "leaves an empty partition", cfg.testSize)
	}

	return &Split{
		XTrain:     takeRows(X, trainIdx),
		XTest:      takeRows(X, testIdx),
		YTrain:     takeLabels(y, trainIdx),
		YTest:      takeLabels(y, testIdx),
		TrainIndex: trainIdx,
		TestIndex:  testIdx,
	}, nil
}

func permutedIndices(n int, testSize float64, rng *rand.Rand) (test, train []int) {
	perm := rng.Perm(n)
	nTest := int(math.Round(testSize * float64(n)))
	return perm[:nTest], perm[nTest:]
}

// stratifiedIndices splits each class separately. Classes are visited in
// ascending code order so the draw sequence is deterministic for a seed.
func stratifiedIndices(y []int, testSize float64, rng *rand.Rand) (test, train []int) {
	byClass := make(map[int][]int)
	for i, c := range y {
		byClass[c] = append(byClass[c], i)
	}

	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	for _, c := range classes {
		idx := byClass[c]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		nTest := int(math.Round(testSize * float64(len(idx))))
		test = append(test, idx[:nTest]...)
		train = append(train, idx[nTest:]...)
	}
	return test, train
}

func takeRows(X mat.Matrix, idx []int) *mat.Dense {
	_, c := X.Dims()
	out := mat.NewDense(len(idx), c, nil)
	for i, row := range idx {
		for j := 0; j < c; j++ {
			out.Set(i, j, X.At(row, j))
		}
	}
	return out
}

func takeLabels(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, row := range idx {
		out[i] = y[row]
	}
	return out
}
