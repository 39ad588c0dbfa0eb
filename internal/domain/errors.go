package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrUnauthorized indicates the session token is missing or invalid
	ErrUnauthorized = errors.New("not signed in")

	// ErrServerOffline indicates the media server is unreachable
	ErrServerOffline = errors.New("media server is unreachable")

	// ErrNotFound indicates the requested media item does not exist
	ErrNotFound = errors.New("media item not found")

	// ErrNoConnection indicates the item has no playable file
	ErrNoConnection = errors.New("no playable connection for media item")
)
