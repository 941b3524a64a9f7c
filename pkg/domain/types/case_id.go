package types

import (
	"fmt"
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// CaseID is the stable identifier of an incident record, e.g. "CASE-042".
// IDs are assigned monotonically by the record store at creation time.
type CaseID string

var caseIDPattern = regexp.MustCompile(`^CASE-\d{3,}$`)

// NewCaseID formats a sequence number into a CaseID
func NewCaseID(seq int64) CaseID {
	return CaseID(fmt.Sprintf("CASE-%03d", seq))
}

// Validate checks if the CaseID matches the CASE-### format
func (c CaseID) Validate() error {
	if c == "" {
		return goerr.New("case ID cannot be empty")
	}
	if !caseIDPattern.MatchString(string(c)) {
		return goerr.New("case ID must match CASE-### format", goerr.V("id", c))
	}
	return nil
}

// String returns the string representation of CaseID
func (c CaseID) String() string {
	return string(c)
}
