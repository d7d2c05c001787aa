package client

import (
	"context"
	"errors"
	"net"
	"net/url"
)

// DefaultTransientPolicy is the default error classification used by
// [Client]. It reports whether a transport error is safe to retry: connection
// failures, resets and timeouts are. Context cancellation, malformed URLs and
// DNS "no such host" failures are not.
//
// A timeout here is the per-attempt timeout set with [WithRequestTimeout].
// Once the caller's own context has ended the [Client] stops retrying without
// consulting the policy.
//
// HTTP responses are never passed to the policy; a non-200 status is returned
// to the caller immediately as an [HTTPError].
//
// Supply a custom function via [WithTransientPolicy] to override this behaviour.
func DefaultTransientPolicy(err error) bool {
	if err == nil {
		return false
	}

	// Don't retry on context cancellation
	if errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Don't retry on requests that could never be built
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Op == "parse" {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return !dnsErr.IsNotFound
	}

	// Retry on other connection errors
	return true
}
