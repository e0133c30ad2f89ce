package regress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegressionTree_FitsExactPartition(t *testing.T) {
	// A full-depth tree must reproduce a step function exactly.
	X := [][]float64{{0}, {1}, {2}, {3}, {4}, {5}, {6}, {7}}
	y := []float64{10, 10, 10, 10, 50, 50, 50, 50}

	tree := NewRegressionTree(WithRandomState(1))
	require.NoError(t, tree.Fit(X, y, nil))

	preds := tree.Predict(X)
	assert.Equal(t, y, preds)

	// The learned threshold separates the two plateaus.
	assert.InDelta(t, 10, tree.PredictOne([]float64{2.5}), 1e-12)
	assert.InDelta(t, 50, tree.PredictOne([]float64{6.5}), 1e-12)
}

func TestRegressionTree_RespectsMaxDepth(t *testing.T) {
	X := [][]float64{{0}, {1}, {2}, {3}}
	y := []float64{0, 1, 2, 3}

	tree := NewRegressionTree(WithMaxDepth(1), WithRandomState(1))
	require.NoError(t, tree.Fit(X, y, nil))

	depth := treeDepth(tree.Root)
	assert.LessOrEqual(t, depth, 1)
}

func TestRegressionTree_DeterministicForSeed(t *testing.T) {
	X := [][]float64{
		{1, 4}, {2, 3}, {3, 9}, {4, 1}, {5, 7}, {6, 2}, {7, 8}, {8, 5},
	}
	y := []float64{3, 5, 11, 6, 13, 8, 16, 12}

	a := NewRegressionTree(WithMaxFeatures(1), WithRandomState(99))
	b := NewRegressionTree(WithMaxFeatures(1), WithRandomState(99))
	require.NoError(t, a.Fit(X, y, nil))
	require.NoError(t, b.Fit(X, y, nil))

	assert.Equal(t, a.Predict(X), b.Predict(X))
}

func TestRegressionTree_ErrorsOnBadInput(t *testing.T) {
	tree := NewRegressionTree()
	assert.Error(t, tree.Fit(nil, nil, nil))
	assert.Error(t, tree.Fit([][]float64{{1}}, []float64{1, 2}, nil))
	assert.Error(t, tree.Fit([][]float64{{1}, {1, 2}}, []float64{1, 2}, nil))
}

func treeDepth(n *Node) int {
	if n == nil || n.Leaf {
		return 0
	}
	l := treeDepth(n.Left)
	r := treeDepth(n.Right)
	if l > r {
		return l + 1
	}
	return r + 1
}
