package vep

import "errors"

// Sentinel errors for the expected failure kinds of the annotation client.
// Callers distinguish them with errors.Is; everything else that escapes the
// client is a genuine transport or programming fault.
var (
	// ErrUnrecognizedFormat marks input rejected before any network or
	// rate-limiter interaction: an unclassifiable notation or a VCF token
	// that failed region conversion.
	ErrUnrecognizedFormat = errors.New("vep: unrecognized variant notation format")

	// ErrRetriesExhausted marks a transient failure that persisted through
	// every configured retry attempt.
	ErrRetriesExhausted = errors.New("vep: retries exhausted")

	// ErrUpstreamRejected marks a 400 or any other unexpected status the
	// retry machine treats as fatal.
	ErrUpstreamRejected = errors.New("vep: upstream rejected request")

	// ErrUnexpectedShape marks a 200 whose body is not the JSON array shape
	// the endpoint contract promises, or an empty array.
	ErrUnexpectedShape = errors.New("vep: unexpected upstream response shape")
)
