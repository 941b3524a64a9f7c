package model

import (
	"time"

	"github.com/safesight-lab/safesight/pkg/domain/types"
)

// CorrectiveAction is one remediation item attached to an incident.
// An incident may carry zero or more actions; rows are append-only.
type CorrectiveAction struct {
	CaseID       types.CaseID
	Action       string
	Owner        string
	Timing       string // free text, bucketed at read time via types.NormalizeTiming
	Verification string

	CreatedAt time.Time
}

// NormalizedOwner returns the owner name with whitespace collapsed and
// trimmed, defaulting to "Unspecified" when empty.
func (a *CorrectiveAction) NormalizedOwner() string {
	owner := CleanText(a.Owner)
	if owner == "" {
		return "Unspecified"
	}
	return owner
}

// TimingBucket returns the normalized timing classification
func (a *CorrectiveAction) TimingBucket() types.TimingBucket {
	return types.NormalizeTiming(a.Timing)
}

// ActionColumns is the canonical column order of the corrective action table
var ActionColumns = []string{
	"case_id",
	"action",
	"owner",
	"timing",
	"verification",
}

// RequiredActionColumns are the columns the clustering engine depends on
var RequiredActionColumns = []string{
	"case_id",
	"action",
	"owner",
	"timing",
	"verification",
}
