package blobstore

import "clipvault/internal/models"

// Store is the payload-storage abstraction used by the catalog engine.
//
// Payloads are addressed by record id, written once, and removed together
// with their record. A missing file on read is reported as absent (ok ==
// false), which is a recoverable condition distinct from a decode failure.
type Store interface {
	// Write persists payload under id and returns the relative blob path.
	Write(id string, payload models.Payload) (string, error)

	// Read loads the payload a record points at. ok is false when the blob
	// file no longer exists.
	Read(relPath string, kind models.Kind) (payload models.Payload, ok bool, err error)

	// Delete removes a blob file. Best effort: errors are logged and
	// swallowed so a failed delete never blocks a catalog mutation.
	Delete(relPath string)

	// Size reports the on-disk byte size of a blob, ok == false if missing.
	Size(relPath string) (int64, bool)
}
