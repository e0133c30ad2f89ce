package regress

import (
	"errors"
	"math/rand"
	"sort"
	"time"
)

// RegressionTree is a CART-style regressor using variance-reduction splits.
// Inputs are expected to be fully imputed; missing values are handled by the
// preprocessing stages, not inside the tree.
type RegressionTree struct {
	// Hyperparameters / options
	MaxDepth        int   // maximum depth (root depth = 0). 0 => no limit
	MinSamplesSplit int   // minimum samples to attempt a split
	MinSamplesLeaf  int   // minimum samples required in each leaf
	MaxFeatures     int   // 0 => use all features, >0 => number sampled per split
	RandomState     int64 // seed for feature subsampling

	Root *Node
}

// Node holds one tree node. Fields are exported for gob serialization.
type Node struct {
	Leaf      bool
	Feature   int
	Threshold float64 // x <= threshold => left
	Value     float64 // leaf prediction (mean of targets)
	N         int
	Left      *Node
	Right     *Node
}

// TreeOption is a functional config for RegressionTree.
type TreeOption func(*RegressionTree)

func WithMaxDepth(d int) TreeOption { return func(t *RegressionTree) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) TreeOption {
	return func(t *RegressionTree) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) TreeOption {
	return func(t *RegressionTree) { t.MinSamplesLeaf = n }
}
func WithMaxFeatures(k int) TreeOption { return func(t *RegressionTree) { t.MaxFeatures = k } }
func WithRandomState(seed int64) TreeOption {
	return func(t *RegressionTree) { t.RandomState = seed }
}

// NewRegressionTree returns a tree with sensible defaults.
func NewRegressionTree(opts ...TreeOption) *RegressionTree {
	t := &RegressionTree{
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		RandomState:     time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit trains the tree on the rows of X named by sampleIdx (nil => all rows).
// Index-based sampling keeps bootstrap training memory-cheap.
func (t *RegressionTree) Fit(X [][]float64, y []float64, sampleIdx []int) error {
	if len(X) == 0 {
		return errors.New("regress: empty X")
	}
	if len(y) != len(X) {
		return errors.New("regress: X and y length mismatch")
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return errors.New("regress: inconsistent number of features in X rows")
		}
	}

	idx := sampleIdx
	if idx == nil {
		idx = make([]int, len(X))
		for i := range idx {
			idx[i] = i
		}
	}
	if len(idx) == 0 {
		return errors.New("regress: empty sample index set")
	}

	rnd := rand.New(rand.NewSource(t.RandomState))
	t.Root = t.buildNode(X, y, idx, 0, p, rnd)
	return nil
}

// PredictOne returns the prediction for a single feature vector.
func (t *RegressionTree) PredictOne(x []float64) float64 {
	node := t.Root
	for node != nil && !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	if node == nil {
		return 0
	}
	return node.Value
}

// Predict returns predictions for every row of X.
func (t *RegressionTree) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		out[i] = t.PredictOne(X[i])
	}
	return out
}

// pair is a feature value with its original row index.
type pair struct {
	v float64
	i int
}

// splitResult holds the outcome of a best-split search.
type splitResult struct {
	gain      float64
	feature   int
	threshold float64
	leftIdx   []int
	rightIdx  []int
}

func (t *RegressionTree) buildNode(X [][]float64, y []float64, idx []int, depth, p int, rnd *rand.Rand) *Node {
	node := &Node{N: len(idx)}

	sum, sumSq := 0.0, 0.0
	for _, ii := range idx {
		sum += y[ii]
		sumSq += y[ii] * y[ii]
	}
	mean := sum / float64(len(idx))
	parentSSE := sumSq - sum*sum/float64(len(idx))

	makeLeaf := func() *Node {
		node.Leaf = true
		node.Value = mean
		return node
	}

	if parentSSE <= 0 || (t.MinSamplesSplit > 0 && len(idx) < t.MinSamplesSplit) {
		return makeLeaf()
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return makeLeaf()
	}

	// determine features to try
	featIndices := make([]int, p)
	for j := 0; j < p; j++ {
		featIndices[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		featIndices = rnd.Perm(p)[:t.MaxFeatures]
	}

	best := splitResult{feature: -1}
	for _, f := range featIndices {
		res := t.findBestSplitForFeature(X, y, idx, f, parentSSE)
		if res.feature >= 0 && res.gain > best.gain {
			best = res
		}
	}

	if best.feature < 0 || best.gain <= 0 {
		return makeLeaf()
	}

	node.Feature = best.feature
	node.Threshold = best.threshold
	node.Left = t.buildNode(X, y, best.leftIdx, depth+1, p, rnd)
	node.Right = t.buildNode(X, y, best.rightIdx, depth+1, p, rnd)
	return node
}

// findBestSplitForFeature scans thresholds between distinct sorted values,
// tracking SSE on both sides with running sums.
func (t *RegressionTree) findBestSplitForFeature(X [][]float64, y []float64, idx []int, f int, parentSSE float64) splitResult {
	result := splitResult{feature: -1}

	vals := make([]pair, 0, len(idx))
	for _, ii := range idx {
		vals = append(vals, pair{X[ii][f], ii})
	}
	sort.Slice(vals, func(a, b int) bool { return vals[a].v < vals[b].v })

	totalSum, totalSq := 0.0, 0.0
	for _, pv := range vals {
		totalSum += y[pv.i]
		totalSq += y[pv.i] * y[pv.i]
	}

	leftSum, leftSq := 0.0, 0.0
	n := len(vals)
	for s := 1; s < n; s++ {
		yv := y[vals[s-1].i]
		leftSum += yv
		leftSq += yv * yv

		if vals[s].v == vals[s-1].v {
			continue
		}
		if s < t.MinSamplesLeaf || n-s < t.MinSamplesLeaf {
			continue
		}

		rightSum := totalSum - leftSum
		rightSq := totalSq - leftSq
		sseLeft := leftSq - leftSum*leftSum/float64(s)
		sseRight := rightSq - rightSum*rightSum/float64(n-s)
		gain := parentSSE - (sseLeft + sseRight)
		if gain > result.gain {
			result = splitResult{
				gain:      gain,
				feature:   f,
				threshold: (vals[s-1].v + vals[s].v) / 2.0,
			}
			result.leftIdx = indicesFromPairs(vals[:s])
			result.rightIdx = indicesFromPairs(vals[s:])
		}
	}
	return result
}

func indicesFromPairs(pairs []pair) []int {
	out := make([]int, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.i)
	}
	return out
}
