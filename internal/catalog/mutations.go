package catalog

import "clipvault/internal/models"

// TogglePin flips the pinned flag of a record. Pinned records are exempt
// from count and quota eviction.
func (e *Engine) TogglePin(id string) error {
	return e.mutate(func() (bool, []models.ClipRecord, error) {
		i := e.indexOfLocked(id)
		if i < 0 {
			return false, nil, ErrNotFound
		}
		e.records[i].Pinned = !e.records[i].Pinned
		return true, nil, nil
	})
}

// Delete removes a record and its blob in one mutation.
func (e *Engine) Delete(id string) error {
	return e.mutate(func() (bool, []models.ClipRecord, error) {
		i := e.indexOfLocked(id)
		if i < 0 {
			return false, nil, ErrNotFound
		}
		return true, []models.ClipRecord{e.removeAtLocked(i)}, nil
	})
}

// ClearHistory removes every unpinned record and its blob. Pinned records
// are untouched. Clearing an already-clear catalog changes nothing and
// emits no signal.
func (e *Engine) ClearHistory() error {
	return e.mutate(func() (bool, []models.ClipRecord, error) {
		var removed []models.ClipRecord
		kept := e.records[:0]
		for _, record := range e.records {
			if record.Pinned {
				kept = append(kept, record)
				continue
			}
			e.usage -= e.sizes[record.ID]
			delete(e.sizes, record.ID)
			removed = append(removed, record)
		}
		e.records = kept
		return len(removed) > 0, removed, nil
	})
}
