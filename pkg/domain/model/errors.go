package model

import "github.com/m-mizutani/goerr/v2"

// Error taxonomy shared across engines and repositories.
// Nothing in the system retries automatically: every external-call failure is
// reported once and the user must re-trigger the action.
var (
	// ErrSchema indicates a required column is missing from a source table.
	// Fatal, raised by the pre-flight check before any paid service call.
	ErrSchema = goerr.New("required column missing")

	// ErrServiceUnavailable indicates an external service call failed.
	// Surfaced to the user as-is; the operation is aborted without retry.
	ErrServiceUnavailable = goerr.New("external service unavailable")

	// ErrPartialGeneration indicates theme generation failed for a single
	// cluster. Isolated: the affected cluster degrades to a fallback theme
	// and the run continues.
	ErrPartialGeneration = goerr.New("cluster theme generation failed")

	// ErrInvalidRequest indicates a malformed or incomplete request
	ErrInvalidRequest = goerr.New("invalid request")

	// ErrInvalidReport indicates an incident submission failed validation
	ErrInvalidReport = goerr.New("invalid incident report")

	// ErrIncidentNotFound indicates a case ID has no matching incident
	ErrIncidentNotFound = goerr.New("incident not found")
)
