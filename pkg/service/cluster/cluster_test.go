package cluster_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/safesight-lab/safesight/pkg/service/cluster"
)

// twoBlobs returns points around (0,0) and (10,10)
func twoBlobs() [][]float64 {
	return [][]float64{
		{0.0, 0.1},
		{0.2, 0.0},
		{0.1, 0.2},
		{0.0, 0.0},
		{10.0, 10.1},
		{10.2, 10.0},
		{10.1, 10.2},
		{10.0, 10.0},
	}
}

func TestPartitionSeparatesBlobs(t *testing.T) {
	labels, err := cluster.Partition(twoBlobs(), 2, cluster.DefaultSeed)
	gt.NoError(t, err).Required()
	gt.Array(t, labels).Length(8)

	// All points of a blob share one label, and the blobs differ
	for i := 1; i < 4; i++ {
		gt.Value(t, labels[i]).Equal(labels[0])
	}
	for i := 5; i < 8; i++ {
		gt.Value(t, labels[i]).Equal(labels[4])
	}
	gt.B(t, labels[0] != labels[4]).True()
}

func TestPartitionDeterministic(t *testing.T) {
	first, err := cluster.Partition(twoBlobs(), 3, cluster.DefaultSeed)
	gt.NoError(t, err).Required()

	for i := 0; i < 5; i++ {
		again, err := cluster.Partition(twoBlobs(), 3, cluster.DefaultSeed)
		gt.NoError(t, err).Required()
		gt.Value(t, again).Equal(first)
	}
}

func TestPartitionValidation(t *testing.T) {
	_, err := cluster.Partition(twoBlobs(), 0, cluster.DefaultSeed)
	gt.Error(t, err)

	_, err = cluster.Partition(twoBlobs(), 9, cluster.DefaultSeed)
	gt.Error(t, err)

	_, err = cluster.Partition([][]float64{{1, 2}, {1, 2, 3}}, 1, cluster.DefaultSeed)
	gt.Error(t, err)
}

func TestSilhouette(t *testing.T) {
	vectors := twoBlobs()
	good := []int{0, 0, 0, 0, 1, 1, 1, 1}
	bad := []int{0, 1, 0, 1, 0, 1, 0, 1}

	goodScore, err := cluster.Silhouette(vectors, good)
	gt.NoError(t, err).Required()
	badScore, err := cluster.Silhouette(vectors, bad)
	gt.NoError(t, err).Required()

	gt.B(t, goodScore > badScore).True()
	gt.B(t, goodScore > 0.9).True()

	_, err = cluster.Silhouette(vectors, []int{0, 0, 0, 0, 0, 0, 0, 0})
	gt.Error(t, err)
}

func TestChooseK(t *testing.T) {
	t.Run("preferred wins within eps", func(t *testing.T) {
		scores := map[int]float64{3: 0.70, 4: 0.80, 5: 0.805, 6: 0.60}
		gt.Value(t, cluster.ChooseK(scores, 4, 0.01)).Equal(4)
	})

	t.Run("clear winner beats preferred", func(t *testing.T) {
		scores := map[int]float64{3: 0.70, 4: 0.80, 5: 0.85, 6: 0.60}
		gt.Value(t, cluster.ChooseK(scores, 4, 0.01)).Equal(5)
	})

	t.Run("argmax when preferred absent", func(t *testing.T) {
		scores := map[int]float64{3: 0.70, 5: 0.75, 6: 0.60}
		gt.Value(t, cluster.ChooseK(scores, 4, 0.01)).Equal(5)
	})

	t.Run("score tie resolves to smaller k", func(t *testing.T) {
		scores := map[int]float64{3: 0.75, 5: 0.75, 6: 0.75}
		gt.Value(t, cluster.ChooseK(scores, 4, 0.01)).Equal(3)
	})
}

func TestSelectK(t *testing.T) {
	k, scores, err := cluster.SelectK(twoBlobs(), []int{2, 3}, cluster.DefaultSeed, cluster.TieEps)
	gt.NoError(t, err).Required()
	gt.Number(t, len(scores)).Greater(0)
	// Two clean blobs: k=2 must score best and be chosen
	gt.Value(t, k).Equal(2)
}
