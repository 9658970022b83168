package chat

import "errors"

var (
	// ErrNotFound is returned by Store implementations when a user or
	// message does not exist.
	ErrNotFound = errors.New("not found")

	ErrEmptyContent      = errors.New("message content is required")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrMissingMsgID      = errors.New("message id is required")

	// Adapter send failures. Both are isolated per adapter: the caller logs
	// and moves on, it never aborts fan-out to other adapters.
	ErrAdapterClosed  = errors.New("adapter closed")
	ErrSendBufferFull = errors.New("send buffer full")
)
