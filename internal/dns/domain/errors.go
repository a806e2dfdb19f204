package domain

import "errors"

// ErrResponseMismatch means a response's transaction ID or question did
// not match the query that was sent. Off-path spoofing attempts and stale
// replies both surface this way, so the engine discards the response and
// moves on to the next upstream server.
var ErrResponseMismatch = errors.New("response does not match query")
