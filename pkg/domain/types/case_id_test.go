package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/safesight-lab/safesight/pkg/domain/types"
)

func TestNewCaseID(t *testing.T) {
	gt.Value(t, types.NewCaseID(1).String()).Equal("CASE-001")
	gt.Value(t, types.NewCaseID(42).String()).Equal("CASE-042")
	gt.Value(t, types.NewCaseID(1234).String()).Equal("CASE-1234")
}

func TestCaseIDValidate(t *testing.T) {
	gt.NoError(t, types.CaseID("CASE-001").Validate())
	gt.NoError(t, types.CaseID("CASE-9999").Validate())
	gt.Error(t, types.CaseID("").Validate())
	gt.Error(t, types.CaseID("CASE-01").Validate())
	gt.Error(t, types.CaseID("case-001").Validate())
	gt.Error(t, types.CaseID("INC-001").Validate())
}
