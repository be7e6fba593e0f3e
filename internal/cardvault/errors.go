package cardvault

import (
	"errors"

	"github.com/srsbox/cardvault/internal/scheduler"
)

// Sentinel errors surfaced across the service boundary. Check with errors.Is.
var (
	// ErrInvalidQuality is rejected before any storage is touched.
	ErrInvalidQuality = scheduler.ErrInvalidQuality
	// ErrNotFound means no schedule exists for that (user, card).
	ErrNotFound = errors.New("no schedule found for that card and user")
	// ErrConcurrentModification means the review transaction kept
	// conflicting with concurrent writers after bounded retries.
	ErrConcurrentModification = errors.New("schedule was modified concurrently")
	// ErrStorageUnavailable wraps infrastructure failures; the underlying
	// error is attached for logs.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
