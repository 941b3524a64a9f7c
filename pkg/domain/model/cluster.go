package model

import (
	"time"

	"github.com/safesight-lab/safesight/pkg/domain/types"
)

// ClusterTheme is the generated human-readable label for one cluster:
// a short title and exactly three summary bullet points (key risk, common
// cause, recommended focus area).
type ClusterTheme struct {
	Title   string   `json:"title"`
	Summary []string `json:"summary"`
	Failed  bool     `json:"failed,omitempty"` // true when this theme is a degraded fallback
}

// RiskMatrixRow is one row of the cross-cluster risk-priority table
type RiskMatrixRow struct {
	ClusterID       int     `json:"cluster_id"`
	NCases          int     `json:"n_cases"`
	HighRiskPct     float64 `json:"high_risk_pct"`
	HighSeverityPct float64 `json:"high_severity_pct"`
	ReactivityScore float64 `json:"reactivity_score"`
}

// OwnerCount is an action count for one normalized owner name within a cluster
type OwnerCount struct {
	Owner   string `json:"owner"`
	Actions int    `json:"actions"`
}

// ClusteringResult is the derived output of one clustering run. It is
// ephemeral: recomputed from scratch each run and cached per session only.
type ClusteringResult struct {
	K               int                   `json:"k"`
	Assignments     map[types.CaseID]int  `json:"assignments"`
	Themes          map[int]*ClusterTheme `json:"themes"`
	Matrix          []RiskMatrixRow       `json:"matrix"`
	TopOwners       map[int][]OwnerCount  `json:"top_owners"`
	OrphanedActions int                   `json:"orphaned_actions"`
	SilhouetteByK   map[int]float64       `json:"silhouette_by_k,omitempty"`
	RunAt           time.Time             `json:"run_at"`
}

// ClusterSize returns the number of incidents assigned to the given cluster
func (r *ClusteringResult) ClusterSize(clusterID int) int {
	n := 0
	for _, label := range r.Assignments {
		if label == clusterID {
			n++
		}
	}
	return n
}
