package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
)

func TestNormalizedOwner(t *testing.T) {
	gt.Value(t, (&model.CorrectiveAction{Owner: "  Jane   Doe "}).NormalizedOwner()).Equal("Jane Doe")
	gt.Value(t, (&model.CorrectiveAction{Owner: ""}).NormalizedOwner()).Equal("Unspecified")
	gt.Value(t, (&model.CorrectiveAction{Owner: "   "}).NormalizedOwner()).Equal("Unspecified")
}

func TestActionTimingBucket(t *testing.T) {
	gt.Value(t, (&model.CorrectiveAction{Timing: "immediately"}).TimingBucket()).Equal(types.TimingImmediate)
	gt.Value(t, (&model.CorrectiveAction{Timing: "30-60 days"}).TimingBucket()).Equal(types.TimingShortTerm)
	gt.Value(t, (&model.CorrectiveAction{}).TimingBucket()).Equal(types.TimingUnspecified)
}
