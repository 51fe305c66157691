package catalog

import "errors"

var (
	// ErrNotFound reports an id with no matching record.
	ErrNotFound = errors.New("catalog: record not found")

	// ErrQuotaExceeded reports an admission that cannot fit inside the disk
	// quota even after every unpinned record has been considered for
	// eviction. Surfaced to callers as a non-fatal, user-visible condition.
	ErrQuotaExceeded = errors.New("catalog: disk quota exceeded")

	// ErrEmptyContent reports a text save whose input is empty after
	// trimming. The save is a no-op, not a failure.
	ErrEmptyContent = errors.New("catalog: empty content")

	// ErrCatalogFull reports an admission while pinned records hold every
	// slot. Admitting would count-evict the new clip immediately, so the
	// save is rejected instead and nothing changes.
	ErrCatalogFull = errors.New("catalog: every slot pinned")
)
