package providers

import "strings"

type ErrorType string

const (
	ErrorQuota      ErrorType = "quota"
	ErrorRate       ErrorType = "rate"
	ErrorTransient  ErrorType = "transient"
	ErrorPermanent  ErrorType = "permanent"
	ErrorTokenLimit ErrorType = "token_limit"
)

// ClassifyError buckets a provider failure by message inspection.
// Provider SDK error strings are the only stable signal available
// across backends.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ""
	}
	e := strings.ToLower(err.Error())
	switch {
	case strings.Contains(e, "token"), strings.Contains(e, "context"), strings.Contains(e, "too large"), strings.Contains(e, "too long"):
		return ErrorTokenLimit
	case strings.Contains(e, "quota"), strings.Contains(e, "credit"), strings.Contains(e, "insufficient_quota"):
		return ErrorQuota
	case strings.Contains(e, "rate"), strings.Contains(e, "429"):
		return ErrorRate
	case strings.Contains(e, "timeout"), strings.Contains(e, "temporarily"), strings.Contains(e, "unavailable"),
		strings.Contains(e, "dns"), strings.Contains(e, "resolution lifetime expired"), strings.Contains(e, "connection refused"):
		return ErrorTransient
	default:
		return ErrorPermanent
	}
}

// Retryable reports whether a same-request retry with backoff can help.
func Retryable(t ErrorType) bool {
	return t == ErrorTransient || t == ErrorRate
}

// Downgradable reports whether the failure class calls for the
// truncate-and-retry-on-smaller-model path instead of a plain retry.
func Downgradable(t ErrorType) bool {
	return t == ErrorTokenLimit || t == ErrorQuota || t == ErrorRate || t == ErrorTransient
}
