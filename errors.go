package dnsclient

import "errors"

// Errors returned by the client. Per-server transport and validation
// failures are never surfaced individually; a call fails only when its
// input is structurally invalid or every upstream server has failed.
var (
	// ErrNoServers means the client was constructed without any
	// upstream servers.
	ErrNoServers = errors.New("no upstream servers configured")

	// ErrNoQuestion means an outbound query carries no question
	// section and cannot be resolved.
	ErrNoQuestion = errors.New("query has no question")

	// ErrNotAQuery means an outbound message has the QR flag set and
	// is therefore a response, not a query.
	ErrNotAQuery = errors.New("message is a response, not a query")

	// ErrNoResponse means every configured upstream server failed to
	// produce a validated response.
	ErrNoResponse = errors.New("no response received from any upstream server")
)
