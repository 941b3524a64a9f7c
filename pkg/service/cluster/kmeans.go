// Package cluster implements the unsupervised partitioning used by the
// incident theming pipeline: seeded k-means with k-means++ initialization,
// silhouette scoring and the cluster-count selection policy.
//
// The seed is explicit on every entry point: clustering the same vectors
// with the same k and seed yields the same label assignment.
package cluster

import (
	"math"
	"math/rand"

	"github.com/m-mizutani/goerr/v2"
	"gonum.org/v1/gonum/floats"
)

// DefaultSeed is the fixed seed of the production pipeline
const DefaultSeed int64 = 42

const maxIterations = 100

// Partition clusters vectors into k groups and returns one label in
// [0, k) per vector, preserving input order.
func Partition(vectors [][]float64, k int, seed int64) ([]int, error) {
	if k < 1 {
		return nil, goerr.New("cluster count must be positive", goerr.V("k", k))
	}
	if len(vectors) < k {
		return nil, goerr.New("more clusters than vectors",
			goerr.V("k", k), goerr.V("vectors", len(vectors)))
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, goerr.New("inconsistent vector dimensions",
				goerr.V("index", i), goerr.V("want", dim), goerr.V("got", len(v)))
		}
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := seedCentroids(vectors, k, rng)
	labels := make([]int, len(vectors))

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, v := range vectors {
			best := nearestCentroid(v, centroids)
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}
		recomputeCentroids(vectors, labels, centroids)
	}

	return labels, nil
}

// seedCentroids picks initial centroids with k-means++: the first uniformly,
// the rest weighted by squared distance to the nearest chosen centroid.
func seedCentroids(vectors [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := vectors[rng.Intn(len(vectors))]
	centroids = append(centroids, append([]float64{}, first...))

	dists := make([]float64, len(vectors))
	for len(centroids) < k {
		var total float64
		for i, v := range vectors {
			d := floats.Distance(v, centroids[len(centroids)-1], 2)
			d *= d
			if len(centroids) == 1 || d < dists[i] {
				dists[i] = d
			}
			total += dists[i]
		}

		next := 0
		if total > 0 {
			target := rng.Float64() * total
			var cum float64
			for i, d := range dists {
				cum += d
				if cum >= target {
					next = i
					break
				}
			}
		} else {
			next = rng.Intn(len(vectors))
		}
		centroids = append(centroids, append([]float64{}, vectors[next]...))
	}

	return centroids
}

func nearestCentroid(v []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(v, centroid, 2); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func recomputeCentroids(vectors [][]float64, labels []int, centroids [][]float64) {
	k := len(centroids)
	dim := len(centroids[0])
	counts := make([]int, k)

	for c := range centroids {
		for j := 0; j < dim; j++ {
			centroids[c][j] = 0
		}
	}
	for i, v := range vectors {
		floats.Add(centroids[labels[i]], v)
		counts[labels[i]]++
	}
	for c := range centroids {
		if counts[c] == 0 {
			// Re-seed an empty cluster with the point farthest from its
			// own centroid, keeping the run deterministic
			copy(centroids[c], farthestPoint(vectors, labels, centroids))
			continue
		}
		floats.Scale(1/float64(counts[c]), centroids[c])
	}
}

func farthestPoint(vectors [][]float64, labels []int, centroids [][]float64) []float64 {
	best := 0
	bestDist := -1.0
	for i, v := range vectors {
		if d := floats.Distance(v, centroids[labels[i]], 2); d > bestDist {
			bestDist = d
			best = i
		}
	}
	return vectors[best]
}
