package cluster

import "github.com/m-mizutani/goerr/v2"

// DefaultCandidates are the cluster counts evaluated when selection is on.
var DefaultCandidates = []int{3, 4, 5, 6}

const (
	// PreferredK is used whenever its silhouette is within TieEps of the best
	PreferredK = 4

	// TieEps is the silhouette margin treated as a tie
	TieEps = 0.01
)

// ChooseK picks the cluster count from per-k silhouette scores. The best
// score wins, but preferred is kept when its score is within eps of the
// best. Score ties between other candidates resolve to the smaller k.
func ChooseK(scores map[int]float64, preferred int, eps float64) int {
	best := 0
	bestScore := 0.0
	for k, score := range scores {
		if best == 0 || score > bestScore || (score == bestScore && k < best) {
			best = k
			bestScore = score
		}
	}

	if preferredScore, ok := scores[preferred]; ok && bestScore-preferredScore <= eps {
		return preferred
	}
	return best
}

// SelectK runs Partition for every candidate k, scores each partition and
// returns the chosen k along with the per-k silhouette scores.
func SelectK(vectors [][]float64, candidates []int, seed int64, eps float64) (int, map[int]float64, error) {
	scores := make(map[int]float64, len(candidates))
	for _, k := range candidates {
		if len(vectors) < k {
			continue
		}
		labels, err := Partition(vectors, k, seed)
		if err != nil {
			return 0, nil, err
		}
		score, err := Silhouette(vectors, labels)
		if err != nil {
			return 0, nil, err
		}
		scores[k] = score
	}
	if len(scores) == 0 {
		return 0, nil, goerr.New("too few vectors for any candidate cluster count",
			goerr.V("vectors", len(vectors)), goerr.V("candidates", candidates))
	}
	return ChooseK(scores, PreferredK, eps), scores, nil
}
