package initdata

import (
	"errors"
	"fmt"
)

// Reason is a stable category for a rejected launch payload.
// Callers should branch on Reason rather than matching error strings.
type Reason string

const (
	MissingSignature          Reason = "missing signature"
	MalformedPayload          Reason = "malformed payload"
	SignatureMismatch         Reason = "bad signature"
	MissingOrInvalidTimestamp Reason = "missing timestamp"
	Stale                     Reason = "stale"
)

func (r Reason) String() string {
	return string(r)
}

// RejectedError is returned by Result.Err for rejected payloads.
type RejectedError struct {
	Reason Reason
	Detail string
}

func (e *RejectedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Detail == "" {
		return fmt.Sprintf("initdata rejected: %s", e.Reason)
	}
	return fmt.Sprintf("initdata rejected: %s: %s", e.Reason, e.Detail)
}

// IsReason reports whether err is (or wraps) a *RejectedError with the given Reason.
func IsReason(err error, reason Reason) bool {
	var e *RejectedError
	if !errors.As(err, &e) {
		return false
	}
	return e.Reason == reason
}

// ReasonOf returns the Reason carried by err, or "" if err is not a rejection.
func ReasonOf(err error) Reason {
	var e *RejectedError
	if !errors.As(err, &e) {
		return ""
	}
	return e.Reason
}
