package services

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a generation failure. The set is closed so retry logic can
// switch over it exhaustively instead of inspecting error strings.
type Kind string

const (
	// Input validation failures. Surfaced immediately, never retried.
	KindInvalidColor     Kind = "invalid_color"
	KindBriefTooLong     Kind = "brief_too_long"
	KindUnsupportedModel Kind = "unsupported_model"

	// Attachment validation failures. Surfaced immediately, never retried.
	KindUnsupportedFormat Kind = "unsupported_format"
	KindPayloadTooLarge   Kind = "payload_too_large"

	// Transient remote/network failures. Retried per the backoff policy.
	KindRateLimited     Kind = "rate_limited"
	KindConnectionError Kind = "connection_error"
	KindTimeout         Kind = "timeout"

	// Permanent remote-reported failures. Surfaced on first occurrence.
	KindAuthenticationFailed Kind = "authentication_failed"
	KindQuotaExceeded        Kind = "quota_exceeded"
	KindMalformedRequest     Kind = "malformed_request"

	// Terminal client-side outcomes.
	KindInvalidHTMLResponse Kind = "invalid_html_response"
	KindRetriesExhausted    Kind = "retries_exhausted"
	KindCancelled           Kind = "cancelled"

	// KindUnknown tags failures that escaped classification. Treated as
	// permanent so a misbehaving remote cannot trap the client in a retry loop.
	KindUnknown Kind = "unknown"
)

// Retryable reports whether a failure of this kind is transient and eligible
// for backoff-and-retry.
func (k Kind) Retryable() bool {
	switch k {
	case KindRateLimited, KindConnectionError, KindTimeout:
		return true
	default:
		return false
	}
}

// Hint returns a short remediation message suitable for direct display.
func (k Kind) Hint() string {
	switch k {
	case KindInvalidColor:
		return "use a 6-digit hex color such as #0b3a6e"
	case KindBriefTooLong:
		return "shorten the brief and try again"
	case KindUnsupportedModel:
		return "pick a model from `resumesmith models`"
	case KindUnsupportedFormat:
		return "attach png, jpeg, webp images or pdf documents"
	case KindPayloadTooLarge:
		return "reduce the attachment size and try again"
	case KindRateLimited:
		return "rate limited by the API, please retry shortly"
	case KindConnectionError:
		return "check network connectivity and retry"
	case KindTimeout:
		return "the API did not answer in time, please retry"
	case KindAuthenticationFailed:
		return "check the configured API key"
	case KindQuotaExceeded:
		return "the API quota is exhausted; review the account billing"
	case KindMalformedRequest:
		return "the request was rejected by the API; report this as a bug"
	case KindInvalidHTMLResponse:
		return "the model returned something that is not an HTML document; try again or pick another model"
	case KindRetriesExhausted:
		return "the API kept failing; wait a little and retry"
	case KindCancelled:
		return "the request was cancelled"
	default:
		return "unexpected failure; check the logs"
	}
}

// Error is the classified failure type every resumesmith component returns.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a classified error without an underlying cause.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds a classified error around an underlying cause.
func WrapError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the classification from err, walking the wrap chain.
// Unclassified errors report KindUnknown.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
