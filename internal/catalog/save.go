package catalog

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"clipvault/internal/blobstore"
	"clipvault/internal/models"
)

// SaveText captures text content. Input is trimmed; empty or
// whitespace-only input returns ErrEmptyContent and changes nothing.
//
// Repeated copies are suppressed: when the most recent unpinned record is a
// text clip whose stored content equals the input exactly, its id is
// returned without writing a new blob or record.
func (e *Engine) SaveText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyContent
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	if id, ok := e.duplicateTextID(trimmed); ok {
		return id, nil
	}

	return e.admit(models.TextPayload(trimmed), func(record *models.ClipRecord) {
		record.Preview = models.DerivePreview(trimmed)
	})
}

// SaveImage captures encoded image bytes.
func (e *Engine) SaveImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyContent
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	return e.admit(models.ImagePayload(slices.Clone(data)), nil)
}

// SaveFiles captures a file-reference list. displayName defaults to the
// first path's base name, or a count for multi-file captures.
func (e *Engine) SaveFiles(paths []string, displayName string) (string, error) {
	files := models.FileList{DisplayName: strings.TrimSpace(displayName), Paths: slices.Clone(paths)}
	if err := files.Validate(); err != nil {
		return "", err
	}
	if files.DisplayName == "" {
		if len(files.Paths) == 1 {
			files.DisplayName = filepath.Base(files.Paths[0])
		} else {
			files.DisplayName = fmt.Sprintf("%d files", len(files.Paths))
		}
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	return e.admit(models.FilesPayload(files), func(record *models.ClipRecord) {
		record.FileName = files.DisplayName
	})
}

// admit runs the admission sequence for a new payload: capacity check,
// quota eviction, blob write, record insertion, count eviction, persist,
// notify. Callers hold writeMu.
func (e *Engine) admit(payload models.Payload, decorate func(*models.ClipRecord)) (string, error) {
	e.stateMu.RLock()
	pinned := e.pinnedCountLocked()
	e.stateMu.RUnlock()
	if pinned >= e.maxItems {
		// Count eviction would discard the new clip right away. Reject up
		// front so the caller never receives an id for a dead record.
		e.logger.Warn("clip rejected, every slot pinned", "maxItems", e.maxItems)
		return "", ErrCatalogFull
	}

	projected, err := blobstore.EncodedSize(payload)
	if err != nil {
		return "", err
	}

	evicted, err := e.evictForQuota(projected)
	e.disposeRemoved(evicted)
	quotaChanged := len(evicted) > 0
	if err != nil {
		// Rejected admissions evict nothing, so there is no state to flush.
		e.logger.Warn("clip rejected, quota cannot be satisfied",
			"projected", projected, "quota", e.diskQuota)
		return "", err
	}

	id, err := generateRecordID(e.hasRecord)
	if err != nil {
		e.flushAfterFailedAdmit(quotaChanged)
		return "", err
	}

	relPath, err := e.blobs.Write(id, payload)
	if err != nil {
		// The save aborts with no record created; quota evictions already
		// applied are consistent state and persist on their own.
		e.logger.Error("blob write failed, save aborted", "id", id, "error", err)
		e.flushAfterFailedAdmit(quotaChanged)
		return "", fmt.Errorf("save clip: %w", err)
	}

	record := models.ClipRecord{
		ID:        id,
		Kind:      payload.Kind,
		CreatedAt: e.now().UTC(),
		BlobRef:   relPath,
	}
	if decorate != nil {
		decorate(&record)
	}

	e.stateMu.Lock()
	e.records = slices.Insert(e.records, 0, record)
	e.sizes[id] = projected
	e.usage += projected
	overflow := e.evictForCountLocked()
	e.stateMu.Unlock()
	e.disposeRemoved(overflow)

	e.dirty = true
	e.persistLocked()
	e.feed.Notify()
	return id, nil
}

// duplicateTextID reports whether the newest unpinned record already stores
// exactly text. Pinned records are skipped: pinning freezes a clip, so a
// re-copy of pinned content captures a fresh record. Callers hold writeMu.
func (e *Engine) duplicateTextID(text string) (string, bool) {
	e.stateMu.RLock()
	var newest *models.ClipRecord
	for i := range e.records {
		if !e.records[i].Pinned {
			newest = &e.records[i]
			break
		}
	}
	if newest == nil || newest.Kind != models.KindText {
		e.stateMu.RUnlock()
		return "", false
	}
	id, blobRef := newest.ID, newest.BlobRef
	e.stateMu.RUnlock()

	payload, ok, err := e.blobs.Read(blobRef, models.KindText)
	if err != nil || !ok || payload.Text != text {
		return "", false
	}
	return id, true
}

// evictForQuota makes headroom for projected bytes by removing the oldest
// unpinned records. When even evicting every unpinned record cannot fit the
// payload under the quota, it evicts nothing and returns ErrQuotaExceeded.
// Callers hold writeMu.
func (e *Engine) evictForQuota(projected int64) ([]models.ClipRecord, error) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	if e.usage+projected <= e.diskQuota {
		return nil, nil
	}

	var evictable int64
	for _, record := range e.records {
		if !record.Pinned {
			evictable += e.sizes[record.ID]
		}
	}
	if e.usage-evictable+projected > e.diskQuota {
		return nil, ErrQuotaExceeded
	}

	var removed []models.ClipRecord
	for e.usage+projected > e.diskQuota {
		i := e.oldestUnpinnedLocked()
		if i < 0 {
			break
		}
		removed = append(removed, e.removeAtLocked(i))
	}
	return removed, nil
}

// evictForCountLocked removes the oldest unpinned records until the
// unpinned count fits within maxItems minus the pinned count. Admission
// rejects saves while every slot is pinned, so an unpinned candidate always
// exists here. Callers hold stateMu.
func (e *Engine) evictForCountLocked() []models.ClipRecord {
	pinned := e.pinnedCountLocked()
	maxUnpinned := e.maxItems - pinned

	var removed []models.ClipRecord
	for len(e.records)-pinned > maxUnpinned {
		i := e.oldestUnpinnedLocked()
		if i < 0 {
			break
		}
		removed = append(removed, e.removeAtLocked(i))
	}
	return removed
}

// flushAfterFailedAdmit persists and announces quota evictions that stood
// before a later admission step failed. Callers hold writeMu.
func (e *Engine) flushAfterFailedAdmit(quotaChanged bool) {
	if !quotaChanged {
		return
	}
	e.dirty = true
	e.persistLocked()
	e.feed.Notify()
}
