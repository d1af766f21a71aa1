package openai

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"resumesmith/internal/services"
)

func TestClassifyStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		err    *httpStatusError
		expect services.Kind
	}{
		{"rate limited", &httpStatusError{StatusCode: 429}, services.KindRateLimited},
		{"quota via 429", &httpStatusError{StatusCode: 429, Code: "insufficient_quota"}, services.KindQuotaExceeded},
		{"quota via 402", &httpStatusError{StatusCode: 402}, services.KindQuotaExceeded},
		{"unauthorized", &httpStatusError{StatusCode: 401}, services.KindAuthenticationFailed},
		{"forbidden", &httpStatusError{StatusCode: 403}, services.KindAuthenticationFailed},
		{"request timeout", &httpStatusError{StatusCode: 408}, services.KindTimeout},
		{"bad request", &httpStatusError{StatusCode: 400}, services.KindMalformedRequest},
		{"not found", &httpStatusError{StatusCode: 404}, services.KindMalformedRequest},
		{"unprocessable", &httpStatusError{StatusCode: 422}, services.KindMalformedRequest},
		{"server error", &httpStatusError{StatusCode: 500}, services.KindConnectionError},
		{"bad gateway", &httpStatusError{StatusCode: 502}, services.KindConnectionError},
		{"teapot", &httpStatusError{StatusCode: 418}, services.KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classify(tc.err).Kind; got != tc.expect {
				t.Fatalf("classify(%d) = %s, want %s", tc.err.StatusCode, got, tc.expect)
			}
		})
	}
}

func TestClassifyTransportErrors(t *testing.T) {
	urlErr := &url.Error{Op: "Post", URL: "http://example", Err: errors.New("connection refused")}
	if got := classify(urlErr).Kind; got != services.KindConnectionError {
		t.Fatalf("classify(url error) = %s, want connection error", got)
	}
	if got := classify(context.Canceled).Kind; got != services.KindCancelled {
		t.Fatalf("classify(context.Canceled) = %s, want cancelled", got)
	}
	// The per-attempt http.Client timeout surfaces as a url.Error that also
	// matches context.DeadlineExceeded; it must classify as a retryable
	// timeout, not a caller abort.
	timeoutErr := &url.Error{Op: "Post", URL: "http://example", Err: context.DeadlineExceeded}
	if got := classify(timeoutErr).Kind; got != services.KindTimeout {
		t.Fatalf("classify(client timeout) = %s, want timeout", got)
	}
	if got := classify(context.DeadlineExceeded).Kind; got != services.KindTimeout {
		t.Fatalf("classify(context.DeadlineExceeded) = %s, want timeout", got)
	}
	if got := classify(errors.New("mystery")).Kind; got != services.KindUnknown {
		t.Fatalf("classify(unknown) = %s, want unknown", got)
	}
}

func TestClassifyPassesThroughServiceErrors(t *testing.T) {
	original := services.NewError(services.KindInvalidHTMLResponse, "not html")
	if got := classify(original); got != original {
		t.Fatalf("expected pass-through, got %v", got)
	}
}
