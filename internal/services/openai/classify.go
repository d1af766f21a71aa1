package openai

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"resumesmith/internal/services"
)

// classify maps a dispatch failure onto the closed error taxonomy. Already
// classified errors pass through unchanged.
func classify(err error) *services.Error {
	var classified *services.Error
	if errors.As(err, &classified) {
		return classified
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return classifyStatus(statusErr)
	}

	// Only explicit caller cancellation maps to Cancelled. A deadline expiry
	// here is the per-attempt http.Client timeout (which also satisfies
	// errors.Is(err, context.DeadlineExceeded)) and must classify as a
	// retryable Timeout below; caller deadlines are caught by the ctx.Err()
	// check in the retry loop before classification.
	if errors.Is(err, context.Canceled) {
		return services.WrapError(services.KindCancelled, err, "request aborted")
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return services.WrapError(services.KindTimeout, err, "request timed out")
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return services.WrapError(services.KindTimeout, err, "request timed out")
		}
		return services.WrapError(services.KindConnectionError, err, "request failed")
	}

	return services.WrapError(services.KindUnknown, err, "request failed")
}

func classifyStatus(statusErr *httpStatusError) *services.Error {
	switch {
	case statusErr.StatusCode == 429:
		if strings.Contains(statusErr.Code, "insufficient_quota") {
			return services.WrapError(services.KindQuotaExceeded, statusErr, "account quota exhausted")
		}
		return services.WrapError(services.KindRateLimited, statusErr, "rate limited by api")
	case statusErr.StatusCode == 401 || statusErr.StatusCode == 403:
		return services.WrapError(services.KindAuthenticationFailed, statusErr, "authentication rejected")
	case statusErr.StatusCode == 402:
		return services.WrapError(services.KindQuotaExceeded, statusErr, "account quota exhausted")
	case statusErr.StatusCode == 408:
		return services.WrapError(services.KindTimeout, statusErr, "request timed out")
	case statusErr.StatusCode >= 500:
		return services.WrapError(services.KindConnectionError, statusErr, "server unavailable")
	case statusErr.StatusCode == 400 || statusErr.StatusCode == 404 ||
		statusErr.StatusCode == 409 || statusErr.StatusCode == 422:
		return services.WrapError(services.KindMalformedRequest, statusErr, "request rejected")
	default:
		return services.WrapError(services.KindUnknown, statusErr, "unexpected api status")
	}
}
