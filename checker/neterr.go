package checker

import (
	"context"
	"errors"
	"net"
	"strings"
)

// netErrClass groups transport failures by what they mean for a probe:
// whether the link gets a "timeout" diagnostic and whether another
// attempt could plausibly succeed.
type netErrClass int

const (
	netErrUnknown netErrClass = iota
	netErrTimeout
	netErrDNS
	netErrRefused
)

// classifyNetErr maps a transport error from http.Client.Do to its class.
func classifyNetErr(err error) netErrClass {
	if err == nil {
		return netErrUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return netErrTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return netErrDNS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" && strings.Contains(opErr.Err.Error(), "connection refused") {
			return netErrRefused
		}
		if opErr.Timeout() {
			return netErrTimeout
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return netErrTimeout
	}

	return netErrUnknown
}

// retryable reports whether a failure of this class is worth another
// attempt. Timeouts, DNS hiccups, and refused connections are often
// transient; anything unidentified is treated as final.
func (c netErrClass) retryable() bool {
	return c == netErrTimeout || c == netErrDNS || c == netErrRefused
}
