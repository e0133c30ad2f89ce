package regress

import (
	"math"
	"math/rand"
)

// TrainTestSplit partitions row indices [0, n) into non-overlapping train and
// test sets via a seeded shuffle. The same (n, testFraction, seed) always
// yields the same partition.
func TrainTestSplit(n int, testFraction float64, seed int64) (trainIdx, testIdx []int) {
	rnd := rand.New(rand.NewSource(seed))
	perm := rnd.Perm(n)

	nTest := int(math.Ceil(float64(n) * testFraction))
	if nTest < 0 {
		nTest = 0
	}
	if nTest > n {
		nTest = n
	}

	testIdx = append(testIdx, perm[:nTest]...)
	trainIdx = append(trainIdx, perm[nTest:]...)
	return trainIdx, testIdx
}
