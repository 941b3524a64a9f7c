package cluster

import (
	"github.com/m-mizutani/goerr/v2"
	"gonum.org/v1/gonum/floats"
)

// Silhouette computes the mean silhouette coefficient over all samples:
// for each sample, (b-a)/max(a,b) where a is the mean distance to its own
// cluster and b the smallest mean distance to any other cluster. Samples in
// single-member clusters score 0. Higher means better-separated clusters.
func Silhouette(vectors [][]float64, labels []int) (float64, error) {
	if len(vectors) != len(labels) {
		return 0, goerr.New("vectors and labels length mismatch",
			goerr.V("vectors", len(vectors)), goerr.V("labels", len(labels)))
	}

	clusters := make(map[int][]int)
	for i, label := range labels {
		clusters[label] = append(clusters[label], i)
	}
	if len(clusters) < 2 {
		return 0, goerr.New("silhouette requires at least 2 clusters",
			goerr.V("clusters", len(clusters)))
	}

	var total float64
	for i, v := range vectors {
		own := clusters[labels[i]]
		if len(own) == 1 {
			continue // s(i) = 0
		}

		// a: mean distance to the rest of the own cluster
		var a float64
		for _, j := range own {
			if j != i {
				a += floats.Distance(v, vectors[j], 2)
			}
		}
		a /= float64(len(own) - 1)

		// b: smallest mean distance to another cluster
		b := -1.0
		for label, members := range clusters {
			if label == labels[i] {
				continue
			}
			var d float64
			for _, j := range members {
				d += floats.Distance(v, vectors[j], 2)
			}
			d /= float64(len(members))
			if b < 0 || d < b {
				b = d
			}
		}

		denom := a
		if b > denom {
			denom = b
		}
		if denom > 0 {
			total += (b - a) / denom
		}
	}

	return total / float64(len(vectors)), nil
}
