package service

import (
	"errors"

	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/client"
)

// GenericConnectFailure is the user-facing reason for any failure that
// did not come with a server-reported detail
const GenericConnectFailure = "Failed to connect to the analytics service. Please try again."

// CancelledMessage is the reason attached to runs that were cancelled
// before the service answered
const CancelledMessage = "Backtest was cancelled before it completed."

// FailureKind classifies a terminal failure so callers can map it to a
// response status without parsing the reason text
type FailureKind string

const (
	FailureValidation FailureKind = "validation"
	FailureServer     FailureKind = "server"
	FailureTransport  FailureKind = "transport"
	FailureCancelled  FailureKind = "cancelled"
)

// Failure is the single terminal error handed to the presentation
// layer: one human-readable reason, with the typed cause kept
// underneath for callers that need it. Status carries the upstream
// code for server-reported failures.
type Failure struct {
	Kind   FailureKind
	Reason string
	Status int
	Cause  error
}

func (f *Failure) Error() string { return f.Reason }

func (f *Failure) Unwrap() error { return f.Cause }

// newValidationFailure wraps a locally detected input problem; these
// are reported before any network call is made
func newValidationFailure(cause error) *Failure {
	return &Failure{Kind: FailureValidation, Reason: cause.Error(), Cause: cause}
}

// mapTransportError classifies an error returned by the analytics
// client: a non-2xx answer surfaces the server's own detail verbatim,
// anything else collapses to the generic connect failure.
func mapTransportError(err error) *Failure {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		reason := apiErr.Detail
		if reason == "" {
			reason = GenericConnectFailure
		}
		return &Failure{Kind: FailureServer, Reason: reason, Status: apiErr.StatusCode, Cause: err}
	}
	return &Failure{Kind: FailureTransport, Reason: GenericConnectFailure, Cause: err}
}
