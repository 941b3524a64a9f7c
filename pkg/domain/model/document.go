package model

import "github.com/safesight-lab/safesight/pkg/domain/types"

// Document is an (incident text, embedding) pair held by the vector index
type Document struct {
	CaseID    types.CaseID
	Text      string
	Embedding []float32
}

// ToFloat32 narrows an embedding vector for storage in the vector index
func ToFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
