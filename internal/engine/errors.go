package engine

import "errors"

// Error classes mapped to HTTP statuses at the server boundary.
var (
	// ErrInvalidRequest covers malformed client requests, such as a missing
	// id or method.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrBadCorrelation covers upstream responses whose id does not match
	// any forwarded request.
	ErrBadCorrelation = errors.New("unexpected upstream response id")

	// ErrUpstream covers upstream transport failures, malformed batch
	// responses and per-item RPC errors.
	ErrUpstream = errors.New("upstream failure")

	// ErrCorruptCache marks a stored value that is no longer valid JSON.
	ErrCorruptCache = errors.New("corrupt cache entry")

	// ErrInternal marks reconciliation invariant violations.
	ErrInternal = errors.New("internal error")
)
