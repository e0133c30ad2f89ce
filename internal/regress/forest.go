package regress

import (
	"errors"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// ForestRegressor is a bagged ensemble of regression trees.
// Trees are trained in parallel across available cores; per-tree seeds are
// derived from RandomState so a fixed seed gives a fully reproducible fit.
type ForestRegressor struct {
	// Hyperparameters / options
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // 0 => all features at every split
	Bootstrap       bool
	RandomState     int64

	Trees []*RegressionTree
}

// ForestOption is a functional config for ForestRegressor.
type ForestOption func(*ForestRegressor)

func WithNEstimators(n int) ForestOption { return func(f *ForestRegressor) { f.NEstimators = n } }
func WithBootstrap(b bool) ForestOption  { return func(f *ForestRegressor) { f.Bootstrap = b } }
func WithForestMaxDepth(d int) ForestOption {
	return func(f *ForestRegressor) { f.MaxDepth = d }
}
func WithForestMinSamplesLeaf(n int) ForestOption {
	return func(f *ForestRegressor) { f.MinSamplesLeaf = n }
}
func WithForestMaxFeatures(k int) ForestOption {
	return func(f *ForestRegressor) { f.MaxFeatures = k }
}
func WithSeed(seed int64) ForestOption {
	return func(f *ForestRegressor) { f.RandomState = seed }
}

// NewForestRegressor initializes the forest with sensible defaults.
func NewForestRegressor(opts ...ForestOption) *ForestRegressor {
	f := &ForestRegressor{
		NEstimators:     100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		Bootstrap:       true,
		RandomState:     time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fit trains the forest. Bootstrap samples are drawn as index slices so the
// feature matrix is shared, not copied, across trees.
func (f *ForestRegressor) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("regress: empty X")
	}
	if len(y) != len(X) {
		return errors.New("regress: X and y length mismatch")
	}
	n := len(X)

	f.Trees = make([]*RegressionTree, f.NEstimators)

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < f.NEstimators; i++ {
		i := i
		g.Go(func() error {
			// Each tree gets its own rand source to avoid contention.
			treeRand := rand.New(rand.NewSource(f.RandomState + int64(i)))

			sampleIdx := make([]int, n)
			for j := 0; j < n; j++ {
				if f.Bootstrap {
					sampleIdx[j] = treeRand.Intn(n)
				} else {
					sampleIdx[j] = j
				}
			}

			tree := NewRegressionTree(
				WithMaxDepth(f.MaxDepth),
				WithMinSamplesSplit(f.MinSamplesSplit),
				WithMinSamplesLeaf(f.MinSamplesLeaf),
				WithMaxFeatures(f.MaxFeatures),
				WithRandomState(f.RandomState+int64(i)),
			)
			if err := tree.Fit(X, y, sampleIdx); err != nil {
				return err
			}
			f.Trees[i] = tree
			return nil
		})
	}
	return g.Wait()
}

// PredictOne averages the trees for a single feature vector.
func (f *ForestRegressor) PredictOne(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	sum := 0.0
	for _, tree := range f.Trees {
		sum += tree.PredictOne(x)
	}
	return sum / float64(len(f.Trees))
}

// Predict averages the trees for every row of X.
func (f *ForestRegressor) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		out[i] = f.PredictOne(X[i])
	}
	return out
}
