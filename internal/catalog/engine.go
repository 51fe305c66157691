package catalog

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"clipvault/internal/blobstore"
	"clipvault/internal/models"
)

// Options configures a catalog engine.
type Options struct {
	// BaseDir holds the catalog file and one blob file per record.
	BaseDir string

	// MaxItems bounds the record count. Pinned records count against the
	// limit but are never evicted.
	MaxItems int

	// DiskQuota bounds the aggregate blob bytes.
	DiskQuota int64

	// Store overrides the blob store, for tests. Defaults to a local store
	// rooted at BaseDir.
	Store blobstore.Store

	Logger *slog.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time

	// OnRecordRemoved is called for every record that leaves the catalog
	// (eviction, delete, clear). Used to drop derived cache entries; the
	// catalog stays correct without it.
	OnRecordRemoved func(id string)
}

// Engine owns the in-memory record list and its persistence.
//
// Mutations are serialized: writeMu is held for the whole
// mutate-persist-notify sequence, so no two mutations interleave and the
// change signal for a mutation fires only after its persistence attempt.
// Reads take stateMu and observe fully applied mutations without waiting on
// mutation disk I/O.
type Engine struct {
	blobs     blobstore.Store
	feed      *ChangeFeed
	logger    *slog.Logger
	now       func() time.Time
	onRemoved func(id string)

	maxItems    int
	diskQuota   int64
	catalogPath string

	writeMu sync.Mutex
	stateMu sync.RWMutex
	records []models.ClipRecord // newest first
	sizes   map[string]int64
	usage   int64
	dirty   bool
}

// Stats summarizes catalog occupancy.
type Stats struct {
	Records   int
	Pinned    int
	UsedBytes int64
	MaxItems  int
	DiskQuota int64
}

// Open loads or creates a catalog rooted at opts.BaseDir.
//
// A catalog file that fails to decode is treated as no existing data: the
// engine starts empty, logs the data loss, and leaves the file on disk
// untouched until the next mutation persists over it.
func Open(opts Options) (*Engine, error) {
	if strings.TrimSpace(opts.BaseDir) == "" {
		return nil, fmt.Errorf("catalog base directory is required")
	}
	if opts.MaxItems <= 0 {
		return nil, fmt.Errorf("max items must be positive")
	}
	if opts.DiskQuota <= 0 {
		return nil, fmt.Errorf("disk quota must be positive")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	blobs := opts.Store
	if blobs == nil {
		local, err := blobstore.NewLocalStore(opts.BaseDir, logger)
		if err != nil {
			return nil, err
		}
		blobs = local
	}

	e := &Engine{
		blobs:       blobs,
		feed:        NewChangeFeed(),
		logger:      logger,
		now:         now,
		onRemoved:   opts.OnRecordRemoved,
		maxItems:    opts.MaxItems,
		diskQuota:   opts.DiskQuota,
		catalogPath: filepath.Join(opts.BaseDir, CatalogFileName),
		sizes:       map[string]int64{},
	}

	records, err := loadCatalogFile(e.catalogPath)
	if err != nil {
		logger.Error("catalog unreadable, starting empty", "path", e.catalogPath, "error", err)
		records = nil
	}
	for _, record := range records {
		if err := record.Validate(); err != nil {
			logger.Warn("dropping invalid catalog record", "id", record.ID, "error", err)
			continue
		}
		size, ok := e.blobs.Size(record.BlobRef)
		if !ok {
			logger.Warn("catalog record has no blob on disk", "id", record.ID, "path", record.BlobRef)
		}
		e.records = append(e.records, record)
		e.sizes[record.ID] = size
		e.usage += size
	}

	return e, nil
}

// Close makes a final persistence attempt for any unsaved state.
func (e *Engine) Close() error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	if !e.dirty {
		return nil
	}
	e.stateMu.RLock()
	records := slices.Clone(e.records)
	e.stateMu.RUnlock()
	if err := writeCatalogFile(e.catalogPath, records); err != nil {
		return err
	}
	e.dirty = false
	return nil
}

// Snapshot returns an ordered copy of the record list: pinned first, then
// unpinned, newest first within each group.
func (e *Engine) Snapshot() []models.ClipRecord {
	e.stateMu.RLock()
	records := slices.Clone(e.records)
	e.stateMu.RUnlock()
	models.SortRecords(records)
	return records
}

// Content loads the payload a record points at. ok is false when the blob
// has gone missing, which is recoverable and logged, not an error.
func (e *Engine) Content(record models.ClipRecord) (models.Payload, bool, error) {
	payload, ok, err := e.blobs.Read(record.BlobRef, record.Kind)
	if err != nil {
		return models.Payload{}, ok, fmt.Errorf("load clip %s: %w", record.ID, err)
	}
	if !ok {
		e.logger.Warn("clip blob missing", "id", record.ID, "path", record.BlobRef)
		return models.Payload{}, false, nil
	}
	return payload, true, nil
}

// Stats reports current occupancy.
func (e *Engine) Stats() Stats {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return Stats{
		Records:   len(e.records),
		Pinned:    e.pinnedCountLocked(),
		UsedBytes: e.usage,
		MaxItems:  e.maxItems,
		DiskQuota: e.diskQuota,
	}
}

// Subscribe registers for catalog-changed signals.
func (e *Engine) Subscribe() <-chan struct{} { return e.feed.Subscribe() }

// Unsubscribe removes a change subscriber.
func (e *Engine) Unsubscribe(ch <-chan struct{}) { e.feed.Unsubscribe(ch) }

// mutate runs fn under the single-writer lock, disposes the blobs of any
// records fn removed, then persists and notifies when fn reports a change.
func (e *Engine) mutate(fn func() (changed bool, removed []models.ClipRecord, err error)) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	e.stateMu.Lock()
	changed, removed, err := fn()
	e.stateMu.Unlock()

	e.disposeRemoved(removed)
	if err != nil {
		return err
	}
	if changed {
		e.dirty = true
		e.persistLocked()
		e.feed.Notify()
	}
	return nil
}

// disposeRemoved deletes the blob files of removed records and fires the
// removal hook. Runs outside stateMu; callers hold writeMu.
func (e *Engine) disposeRemoved(removed []models.ClipRecord) {
	for _, record := range removed {
		e.blobs.Delete(record.BlobRef)
		if e.onRemoved != nil {
			e.onRemoved(record.ID)
		}
	}
}

// persistLocked writes the catalog file if dirty. Persistence failure is
// logged and leaves the dirty flag set; the in-memory mutation stands and
// the write is retried on the next dirty mutation. Callers hold writeMu.
func (e *Engine) persistLocked() {
	if !e.dirty {
		return
	}
	e.stateMu.RLock()
	records := slices.Clone(e.records)
	e.stateMu.RUnlock()
	if err := writeCatalogFile(e.catalogPath, records); err != nil {
		e.logger.Error("catalog persist failed, will retry on next mutation", "error", err)
		return
	}
	e.dirty = false
}

// indexOfLocked returns the position of id, or -1. Callers hold stateMu.
func (e *Engine) indexOfLocked(id string) int {
	for i := range e.records {
		if e.records[i].ID == id {
			return i
		}
	}
	return -1
}

// removeAtLocked removes the record at i and returns it, keeping the size
// accounting in step. Callers hold stateMu; the blob file is still on disk
// and must be disposed by the caller within the same mutation.
func (e *Engine) removeAtLocked(i int) models.ClipRecord {
	record := e.records[i]
	e.records = slices.Delete(e.records, i, i+1)
	e.usage -= e.sizes[record.ID]
	delete(e.sizes, record.ID)
	return record
}

// oldestUnpinnedLocked returns the index of the eviction candidate: the
// oldest unpinned record, which is the last unpinned entry of the
// newest-first list. Callers hold stateMu.
func (e *Engine) oldestUnpinnedLocked() int {
	for i := len(e.records) - 1; i >= 0; i-- {
		if !e.records[i].Pinned {
			return i
		}
	}
	return -1
}

// pinnedCountLocked counts pinned records. Callers hold stateMu.
func (e *Engine) pinnedCountLocked() int {
	pinned := 0
	for _, record := range e.records {
		if record.Pinned {
			pinned++
		}
	}
	return pinned
}

func (e *Engine) hasRecord(id string) bool {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.indexOfLocked(id) >= 0
}
