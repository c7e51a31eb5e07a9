package util

import "errors"

var (
	ErrNoExtractableText = errors.New("no extractable text found in PDF")

	// ErrMissingIdentifier marks a caller-supplied identifier that is
	// absent or blank. Never retried.
	ErrMissingIdentifier = errors.New("missing required identifier")

	ErrNotFound = errors.New("not found")

	ErrQuotaExhausted = errors.New("provider quota exhausted")
	ErrRateLimited    = errors.New("provider rate limited")
	ErrTransient      = errors.New("transient provider error")
	ErrPermanent      = errors.New("permanent provider error")
	ErrTokenLimit     = errors.New("context too long")
)
