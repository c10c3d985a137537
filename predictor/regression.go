package predictor

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// EncodeSubjects maps each subject to its index in the sorted set of distinct subjects.
// The returned categories slice is indexed by code.
func EncodeSubjects(subjects []string) (codes []float64, categories []string) {
	seen := make(map[string]bool, len(subjects))
	for _, s := range subjects {
		if !seen[s] {
			seen[s] = true
			categories = append(categories, s)
		}
	}
	sort.Strings(categories)

	index := make(map[string]int, len(categories))
	for i, c := range categories {
		index[c] = i
	}
	codes = make([]float64, len(subjects))
	for i, s := range subjects {
		codes[i] = float64(index[s])
	}
	return codes, categories
}

// Split shuffles 0..n-1 with a seeded PCG source; the first ceil(testRatio*n)
// indices are the test subset and the remainder the training subset.
func Split(n int, testRatio float64, seed uint64) (train, test []int, err error) {
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, fmt.Errorf("test ratio %v must be in (0, 1)", testRatio)
	}
	nTest := int(math.Ceil(testRatio * float64(n)))
	nTrain := n - nTest
	if nTrain <= 0 {
		return nil, nil, fmt.Errorf("%d observations leave no training data: %w", n, ErrInsufficientData)
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// Model is a fitted line score = Intercept + Slope*code.
type Model struct {
	Intercept float64
	Slope     float64
}

// Fit runs ordinary least squares of y on x. When x has no spread the
// minimum-norm solution is used: slope 0 and the mean of y as intercept.
func Fit(x, y []float64) Model {
	if floats.Min(x) == floats.Max(x) {
		return Model{Intercept: stat.Mean(y, nil)}
	}
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	return Model{Intercept: alpha, Slope: beta}
}

func (m Model) Predict(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = m.Intercept + m.Slope*v
	}
	return out
}

// MeanSquaredError averages the squared residuals. Both slices must be the same non-zero length.
func MeanSquaredError(actual, predicted []float64) float64 {
	residuals := make([]float64, len(actual))
	floats.SubTo(residuals, actual, predicted)
	return floats.Dot(residuals, residuals) / float64(len(actual))
}

func gather(values []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}
