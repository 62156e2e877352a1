// Package netx classifies network failures.
package netx

import (
	"context"
	"errors"
	"net"
	"net/url"
)

// IsTransportError reports whether err means the request never produced an
// HTTP response: dial, DNS or connection failures, timeouts. Cancellation by
// the caller is not a transport error.
func IsTransportError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
