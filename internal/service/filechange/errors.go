package filechange

import (
	"errors"
	"fmt"

	"filetrack/internal/domain"
)

// Failure taxonomy of the tracking engine. None of these abort a chat turn:
// batch failures are logged and reported in TrackResult.SkipReason.
var (
	// ErrMissingParent means the owning chat (and so the project) could not be resolved
	ErrMissingParent = errors.New("missing parent")
	// ErrMalformedEvent means a tool part had no resolvable path
	ErrMalformedEvent = errors.New("malformed tool event")
	// ErrUnsupportedToolKind means the event kind is recognized but not decomposed
	ErrUnsupportedToolKind = errors.New("unsupported tool kind")
	// ErrPersistence means the store rejected the write
	ErrPersistence = errors.New("persistence failure")

	// ErrNoNetChange rejects direct updates whose old and new content are identical
	ErrNoNetChange = fmt.Errorf("%w: old and new content are identical", domain.ErrValidation)
)
